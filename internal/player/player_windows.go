//go:build windows

package player

import (
	"os/exec"

	"github.com/leoallday/movwatch/internal/util"
)

func setProcessGroup(cmd *exec.Cmd) {
	util.Debug("Starting player", "command", cmd.String())
}
