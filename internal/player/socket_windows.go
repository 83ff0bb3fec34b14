//go:build windows

package player

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

func socketPath() string {
	return fmt.Sprintf(`%smovwatch_mpvsocket_%x`, pipePrefix, time.Now().UnixNano())
}

// dialMPVSocket connects to mpv's named pipe
func dialMPVSocket(path string) (net.Conn, error) {
	if !strings.HasPrefix(path, pipePrefix) {
		path = pipePrefix + filepath.Base(path)
	}
	timeout := 2 * time.Second
	return winio.DialPipe(path, &timeout)
}

// Named pipes vanish with the process.
func removeSocket(string) {}
