// Package classify maps arbitrary URLs onto a platform and a content id.  It is pure and performs no I/O.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PizzaHomicide/reel/internal/domain"
)

// idGroup is the capture group every pattern must define
const idGroup = "id"

// Rule holds the ordered URL patterns of one platform
type Rule struct {
	Platform domain.PlatformID
	Patterns []*regexp.Regexp
}

// NewRule compiles the given expressions.  It panics if an expression is invalid or lacks an (?P<id>...) group, as
// the patterns are fixed at build time.
func NewRule(platform domain.PlatformID, exprs ...string) Rule {
	rule := Rule{Platform: platform}
	for _, expr := range exprs {
		re := regexp.MustCompile(expr)
		if re.SubexpIndex(idGroup) < 0 {
			panic(fmt.Sprintf("classify: pattern %q for %s has no %q group", expr, platform, idGroup))
		}
		rule.Patterns = append(rule.Patterns, re)
	}
	return rule
}

// match returns the id extracted by the first pattern that matches with a non-empty id
func (r Rule) match(url string) (string, bool) {
	for _, re := range r.Patterns {
		m := re.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		if id := m[re.SubexpIndex(idGroup)]; id != "" {
			return id, true
		}
	}
	return "", false
}

// Classifier resolves URLs against rules in a fixed priority order
type Classifier struct {
	rules []Rule
}

// New creates a classifier.  Rules are tried in the order given.
func New(rules ...Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// Classify returns the content request of the first platform whose patterns extract an id from url, or a
// *domain.NotFoundError carrying url.
func (c *Classifier) Classify(url string) (domain.ContentRequest, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed != "" {
		for _, rule := range c.rules {
			if id, ok := rule.match(trimmed); ok {
				return domain.ContentRequest{Platform: rule.Platform, ID: id}, nil
			}
		}
	}
	return domain.ContentRequest{}, &domain.NotFoundError{URL: url}
}

// Platforms lists the platforms known to the classifier in priority order
func (c *Classifier) Platforms() []domain.PlatformID {
	ids := make([]domain.PlatformID, len(c.rules))
	for i, r := range c.rules {
		ids[i] = r.Platform
	}
	return ids
}
