package browser

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"firefox", []string{"firefox"}},
		{"  firefox   --new-window ", []string{"firefox", "--new-window"}},
		{`chromium --app="{url}" --user-data-dir='/tmp/my profile'`, []string{"chromium", "--app={url}", "--user-data-dir=/tmp/my profile"}},
		{`say "it's here"`, []string{"say", "it's here"}},
		{`a "" b`, []string{"a", "", "b"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseArgs(tt.in), tt.in)
	}
}

func TestCustomCommand(t *testing.T) {
	cmd, err := Command("http://127.0.0.1:7878/", "firefox --new-window")
	require.NoError(t, err)
	assert.Equal(t, []string{"firefox", "--new-window", "http://127.0.0.1:7878/"}, cmd.Args)

	cmd, err = Command("http://127.0.0.1:7878/", `chromium --app={url} --kiosk`)
	require.NoError(t, err)
	assert.Equal(t, []string{"chromium", "--app=http://127.0.0.1:7878/", "--kiosk"}, cmd.Args)

	_, err = Command("http://127.0.0.1:7878/", `""`)
	assert.Error(t, err)
}

func TestDefaultCommand(t *testing.T) {
	cmd, err := Command("http://127.0.0.1:7878/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7878/", cmd.Args[len(cmd.Args)-1])
	if runtime.GOOS == "linux" {
		assert.Equal(t, "xdg-open", cmd.Args[0])
	}
}
