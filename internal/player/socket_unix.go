//go:build !windows

package player

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// socketPath returns a fresh IPC path under the temp dir. filepath.Join keeps
// macOS's trailing-slash TempDir from producing a double slash.
func socketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("movwatch_mpvsocket_%x", time.Now().UnixNano()))
}

func dialMPVSocket(path string) (net.Conn, error) {
	return net.DialTimeout("unix", path, 2*time.Second)
}

func removeSocket(path string) {
	_ = os.Remove(path)
}
