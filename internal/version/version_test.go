package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	oldVersion, oldBuildTime := Version, BuildTime
	t.Cleanup(func() { Version, BuildTime = oldVersion, oldBuildTime })

	Version, BuildTime = "1.2.3", "2026-10-01T00:00:00Z"
	info := GetVersionInfo()
	assert.Contains(t, info, "reel v1.2.3")
	assert.Contains(t, info, "built 2026-10-01T00:00:00Z")
	assert.Contains(t, info, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Equal(t, "1.2.3", GetVersion())
}
