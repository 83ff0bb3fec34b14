package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	s, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, "https://flixhq.to", s.BaseURL)
	assert.Equal(t, "https://dec.eatmynerds.live", s.DecoderURL)
	assert.Equal(t, 15*time.Second, s.Timeout)
	assert.Equal(t, 2, s.Retries)
	assert.Equal(t, []string{"arabic", "english"}, s.SubtitleLanguages)
	assert.Equal(t, PlayerMPV, s.Player)
	assert.True(t, s.DiscordRPC)
	assert.Empty(t, s.DiscordClientID)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "database"), s.ResolvedDataDir())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "logs"), s.LogDir())
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := "player: VLC\nretries: 0\ntimeout: 30s\nsubtitle_languages:\n  - English\n  - ''\n  - French\ndata_dir: /tmp/mw\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PlayerVLC, s.Player)
	assert.Equal(t, 0, s.Retries)
	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, []string{"english", "french"}, s.SubtitleLanguages)
	assert.Equal(t, "/tmp/mw", s.ResolvedDataDir())
	assert.Equal(t, "https://flixhq.to", s.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MOVWATCH_BASE_URL", "https://mirror.example")
	t.Setenv("MOVWATCH_DISCORD_RPC", "false")
	t.Setenv("MOVWATCH_DISCORD_CLIENT_ID", " 1234567890 ")

	s, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example", s.BaseURL)
	assert.False(t, s.DiscordRPC)
	assert.Equal(t, "1234567890", s.DiscordClientID)
}

func TestLoadRejectsUnknownPlayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("player: quicktime\n"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported player")
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("player: [mpv\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Load(path)
	require.NoError(t, err)

	s.Player = PlayerVLC
	s.Theme = "red"
	s.DiscordRPC = false
	s.SubtitleLanguages = []string{"english"}
	s.DiscordClientID = "42"
	require.NoError(t, s.Save())

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PlayerVLC, reloaded.Player)
	assert.Equal(t, "red", reloaded.Theme)
	assert.False(t, reloaded.DiscordRPC)
	assert.Equal(t, []string{"english"}, reloaded.SubtitleLanguages)
	assert.Equal(t, "42", reloaded.DiscordClientID)
	assert.Equal(t, 15*time.Second, reloaded.Timeout)
}

func TestSaveValidates(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	s.Player = "winamp"
	assert.Error(t, s.Save())
}

func TestPreferLanguage(t *testing.T) {
	s := &Settings{SubtitleLanguages: []string{"arabic", "english"}}

	s.PreferLanguage(" English ")
	assert.Equal(t, []string{"english", "arabic"}, s.SubtitleLanguages)

	s.PreferLanguage("french")
	assert.Equal(t, []string{"french", "english", "arabic"}, s.SubtitleLanguages)

	s.PreferLanguage("")
	assert.Equal(t, []string{"french", "english", "arabic"}, s.SubtitleLanguages)
}
