package domain

import (
	"strings"

	"github.com/samber/lo"
)

// Capability tags one optional, platform dependent behaviour.  Callers check CapabilitySet.Has before invoking a
// capability-gated adapter operation.
type Capability uint8

const (
	CapabilityVolume Capability = 1 << iota
	CapabilityMute
	CapabilityFullscreen
	CapabilityPip
	CapabilityGetTitle
)

var capabilityNames = map[Capability]string{
	CapabilityVolume:     "volume",
	CapabilityMute:       "mute",
	CapabilityFullscreen: "fullscreen",
	CapabilityPip:        "pip",
	CapabilityGetTitle:   "getTitle",
}

var allCapabilities = []Capability{
	CapabilityVolume,
	CapabilityMute,
	CapabilityFullscreen,
	CapabilityPip,
	CapabilityGetTitle,
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// CapabilitySet is the set of capabilities an adapter honours
type CapabilitySet uint8

// NewCapabilitySet builds a set from the given capabilities
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

// Has reports whether c is a member of the set
func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// List returns the members of the set in declaration order
func (s CapabilitySet) List() []Capability {
	return lo.Filter(allCapabilities, func(c Capability, _ int) bool {
		return s.Has(c)
	})
}

// Names returns the member names, used for status output
func (s CapabilitySet) Names() []string {
	return lo.Map(s.List(), func(c Capability, _ int) string {
		return c.String()
	})
}

func (s CapabilitySet) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}
