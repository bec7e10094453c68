//go:build windows

package browser

import (
	"os/exec"
	"syscall"
)

// setupProcess detaches the browser from reel's console
func setupProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | syscall.DETACHED_PROCESS,
	}
}

// releaseProcess is a no-op, Windows doesn't need an explicit release
func releaseProcess(cmd *exec.Cmd) error {
	return nil
}
