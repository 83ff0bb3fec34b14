// Package updater checks GitHub for newer mov-watch releases.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/leoallday/movwatch/internal/util"
	"github.com/leoallday/movwatch/internal/version"
	"github.com/pkg/errors"
)

// DefaultAPI is the latest-release endpoint of the project repository
const DefaultAPI = "https://api.github.com/repos/" + version.GitHubRepo + "/releases/latest"

// Asset is a downloadable release file
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// GitHubRelease is the subset of the release payload we read
type GitHubRelease struct {
	TagName string  `json:"tag_name"`
	Name    string  `json:"name"`
	Body    string  `json:"body"`
	HTMLURL string  `json:"html_url"`
	Assets  []Asset `json:"assets"`
}

// Checker queries the releases API
type Checker struct {
	APIURL  string
	Current string
	Client  *http.Client
}

// NewChecker returns a checker for the running version
func NewChecker() *Checker {
	return &Checker{
		APIURL:  DefaultAPI,
		Current: version.Version,
		Client:  util.NewHTTPClient(util.ClientOptions{Timeout: 5 * time.Second}),
	}
}

// Check fetches the latest release and reports whether it is newer than Current
func (c *Checker) Check(ctx context.Context) (*GitHubRelease, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to build release request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to fetch latest release")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, false, errors.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, false, errors.Wrap(err, "failed to decode release data")
	}

	newer, err := isVersionNewer(release.TagName, c.Current)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to compare versions")
	}
	return &release, newer, nil
}

// Notice returns the one-line banner for a newer release
func Notice(release *GitHubRelease, current string) string {
	return fmt.Sprintf("New version available: %s (current: v%s)", release.TagName, strings.TrimPrefix(current, "v"))
}

// Banner returns a one-line update notice for the main menu, or "" when
// up to date or the check fails
func (c *Checker) Banner(ctx context.Context) string {
	release, newer, err := c.Check(ctx)
	if err != nil {
		util.Debug("Failed to check for updates", "error", err)
		return ""
	}
	if !newer {
		return ""
	}
	return Notice(release, c.Current) + " - run with -update to install it"
}

// CheckAndPrompt asks before replacing the running binary with the latest release
func (c *Checker) CheckAndPrompt(ctx context.Context) error {
	util.Info("Checking for updates...")
	release, newer, err := c.Check(ctx)
	if err != nil {
		return err
	}
	if !newer {
		util.Info("You are running the latest version!")
		return nil
	}

	var confirm bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Update available").
				Description(fmt.Sprintf("Current version: v%s\nLatest version: %s\n\n%s",
					c.Current, release.TagName, util.Truncate(release.Body, 300))),
			huh.NewConfirm().
				Title("Install it now?").
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return errors.Wrap(err, "failed to show update prompt")
	}
	if !confirm {
		util.Info("Update cancelled")
		return nil
	}
	return c.Install(ctx, release)
}

// Install downloads the asset for this platform and swaps it in place of the
// running executable, restoring the old one on failure.
func (c *Checker) Install(ctx context.Context, release *GitHubRelease) error {
	asset, err := findAsset(release, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	util.Info("Downloading update", "asset", asset.Name)
	tmp, err := c.download(ctx, asset)
	if err != nil {
		return errors.Wrap(err, "failed to download update")
	}
	defer func() { _ = os.Remove(tmp) }()

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "failed to locate current executable")
	}
	return replaceExecutable(exe, tmp)
}

func isVersionNewer(latest, current string) (bool, error) {
	latestParts := strings.Split(strings.TrimPrefix(strings.TrimSpace(latest), "v"), ".")
	currentParts := strings.Split(strings.TrimPrefix(strings.TrimSpace(current), "v"), ".")

	for len(latestParts) < len(currentParts) {
		latestParts = append(latestParts, "0")
	}
	for len(currentParts) < len(latestParts) {
		currentParts = append(currentParts, "0")
	}

	for i := range latestParts {
		l, err := strconv.Atoi(latestParts[i])
		if err != nil {
			return false, fmt.Errorf("invalid version format in latest: %s", latest)
		}
		cur, err := strconv.Atoi(currentParts[i])
		if err != nil {
			return false, fmt.Errorf("invalid version format in current: %s", current)
		}
		if l != cur {
			return l > cur, nil
		}
	}
	return false, nil
}

func findAsset(release *GitHubRelease, goos, arch string) (Asset, error) {
	var names []string
	switch goos {
	case "windows":
		names = []string{fmt.Sprintf("movwatch-windows-%s.exe", arch), "movwatch-windows.exe", "movwatch.exe"}
	case "darwin":
		names = []string{fmt.Sprintf("movwatch-darwin-%s", arch), fmt.Sprintf("movwatch-macos-%s", arch), "movwatch-darwin"}
	case "linux":
		names = []string{fmt.Sprintf("movwatch-linux-%s", arch), "movwatch-linux", "movwatch"}
	default:
		return Asset{}, fmt.Errorf("unsupported platform: %s", goos)
	}

	for _, name := range names {
		for _, a := range release.Assets {
			if strings.EqualFold(a.Name, name) {
				return a, nil
			}
		}
	}
	return Asset{}, fmt.Errorf("no compatible asset found for %s/%s", goos, arch)
}

func (c *Checker) download(ctx context.Context, asset Asset) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.BrowserDownloadURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.CreateTemp("", "movwatch-update-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", err
	}
	return out.Name(), out.Close()
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func replaceExecutable(exe, replacement string) error {
	backup := filepath.Join(filepath.Dir(exe), "."+filepath.Base(exe)+".old")
	if err := os.Rename(exe, backup); err != nil {
		return errors.Wrap(err, "failed to move current executable aside")
	}
	if err := copyFile(replacement, exe, 0o755); err != nil {
		if restoreErr := os.Rename(backup, exe); restoreErr != nil {
			util.Warn("Failed to restore previous executable", "error", restoreErr)
		}
		return errors.Wrap(err, "failed to install new executable")
	}
	// Windows keeps the running image locked
	if err := os.Remove(backup); err != nil {
		util.Debug("Leaving previous executable behind", "path", backup, "error", err)
	}
	util.Info("Update completed successfully! Please restart the application.")
	return nil
}
