//go:build !windows

package browser

import (
	"os/exec"
	"syscall"
)

// setupProcess puts the browser in its own process group so terminal signals aimed at reel don't reach it
func setupProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// releaseProcess drops reel's handle on the started browser
func releaseProcess(cmd *exec.Cmd) error {
	if cmd.Process != nil {
		return cmd.Process.Release()
	}
	return nil
}
