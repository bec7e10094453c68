// Package browser opens the host page in a web browser
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/PizzaHomicide/reel/internal/log"
)

// urlPlaceholder is replaced by the url in a custom command.  Without it the url is appended.
const urlPlaceholder = "{url}"

// Command builds the command opening url.  An empty custom command uses the platform default handler.
func Command(url, custom string) (*exec.Cmd, error) {
	if strings.TrimSpace(custom) == "" {
		switch runtime.GOOS {
		case "darwin": // macOS
			return exec.Command("open", url), nil
		case "windows":
			return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
		default: // Linux and others
			return exec.Command("xdg-open", url), nil
		}
	}

	args := ParseArgs(custom)
	if len(args) == 0 || args[0] == "" {
		return nil, fmt.Errorf("browser command %q has no program", custom)
	}
	replaced := false
	for i, arg := range args[1:] {
		if strings.Contains(arg, urlPlaceholder) {
			args[i+1] = strings.ReplaceAll(arg, urlPlaceholder, url)
			replaced = true
		}
	}
	if !replaced {
		args = append(args, url)
	}
	return exec.Command(args[0], args[1:]...), nil
}

// Open starts the browser detached from reel, so it outlives the process and never blocks it
func Open(url, custom string) error {
	cmd, err := Command(url, custom)
	if err != nil {
		return err
	}
	setupProcess(cmd)

	log.Info("Opening host page in browser", "url", url, "command", cmd.Path, "args", cmd.Args[1:])
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return releaseProcess(cmd)
}
