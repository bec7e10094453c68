package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:7878/", pageURL("127.0.0.1:7878"))
	assert.Equal(t, "http://127.0.0.1:7878/", pageURL(":7878"))
	assert.Equal(t, "http://127.0.0.1:9000/", pageURL("0.0.0.0:9000"))
	assert.Equal(t, "http://127.0.0.1:9000/", pageURL("[::]:9000"))
	assert.Equal(t, "http://localhost:80/", pageURL("localhost:80"))
	assert.Equal(t, "http://[::1]:7878/", pageURL("[::1]:7878"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REEL_CONFIG_PATH", filepath.Join(t.TempDir(), "config.yaml"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "--json", "https://vimeo.com/76979871")
	require.NoError(t, err)

	var got classification
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "vimeo", got.Platform)
	assert.Equal(t, "76979871", got.ID)
	assert.Contains(t, got.Capabilities, "pip")
}

func TestClassifyCommandRejectsUnknownURL(t *testing.T) {
	_, err := execute(t, "classify", "https://example.com/video")
	require.Error(t, err)
}

func TestClassifyCommandHonoursPlatforms(t *testing.T) {
	t.Setenv("REEL_CONFIG_PLAYER_PLATFORMS", "youtube")
	_, err := execute(t, "classify", "https://vimeo.com/76979871")
	require.Error(t, err)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("REEL_CONFIG_LOGGING_LEVEL", "debug")
	out, err := execute(t, "env", "--set-only")
	require.NoError(t, err)
	assert.Contains(t, out, "REEL_CONFIG_LOGGING_LEVEL")
	assert.Contains(t, out, "debug")
	assert.NotContains(t, out, "REEL_CONFIG_PLAYER_WIDTH")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "reel v")
}
