package version

import (
	"fmt"

	"github.com/leoallday/movwatch/internal/tracking"
)

const (
	Version    = "1.0.0"
	GitHubRepo = "leoallday/mov-watch"
)

// String returns the version line printed by -version
func String() string {
	s := fmt.Sprintf("mov-watch v%s", Version)
	if tracking.IsCgoEnabled {
		return s + " (with SQLite history)"
	}
	return s + " (without SQLite history)"
}
