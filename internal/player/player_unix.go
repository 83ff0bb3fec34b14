//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// setProcessGroup keeps Ctrl+C in the menu from killing the player
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
