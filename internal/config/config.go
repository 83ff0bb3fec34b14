// Package config loads and persists user settings from ~/.mov-watch/config.yaml
// with MOVWATCH_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DirName   = ".mov-watch"
	FileName  = "config.yaml"
	EnvPrefix = "MOVWATCH"

	PlayerMPV = "mpv"
	PlayerVLC = "vlc"
)

// Settings is the decoded configuration file
type Settings struct {
	BaseURL           string        `mapstructure:"base_url"`
	DecoderURL        string        `mapstructure:"decoder_url"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Retries           int           `mapstructure:"retries"`
	SubtitleLanguages []string      `mapstructure:"subtitle_languages"`
	Player            string        `mapstructure:"player"`
	DiscordRPC        bool          `mapstructure:"discord_rpc"`
	DiscordClientID   string        `mapstructure:"discord_client_id"`
	Theme             string        `mapstructure:"theme"`
	LogLevel          string        `mapstructure:"log_level"`
	DataDir           string        `mapstructure:"data_dir"`

	v    *viper.Viper
	path string
}

// Defaults returns the built-in settings used for missing keys
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"base_url":           "https://flixhq.to",
		"decoder_url":        "https://dec.eatmynerds.live",
		"user_agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		"timeout":            "15s",
		"retries":            2,
		"subtitle_languages": []string{"arabic", "english"},
		"player":             PlayerMPV,
		"discord_rpc":        true,
		"discord_client_id":  "",
		"theme":              "blue",
		"log_level":          "info",
		"data_dir":           "",
	}
}

// DefaultDir returns ~/.mov-watch, falling back to the working directory
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// Load reads the config file at path (DefaultPath when empty). A missing file
// is created with the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !isNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, errors.Wrap(err, "failed to create config directory")
		}
		if err := writeDefaults(path); err != nil {
			return nil, errors.Wrapf(err, "failed to write default config %s", path)
		}
	}

	s := &Settings{v: v, path: path}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	s.normalize()
	return s, s.Validate()
}

// Path returns the file the settings were loaded from
func (s *Settings) Path() string {
	return s.path
}

// Validate rejects values the rest of the program cannot use
func (s *Settings) Validate() error {
	switch s.Player {
	case PlayerMPV, PlayerVLC:
	default:
		return fmt.Errorf("unsupported player %q (want %s or %s)", s.Player, PlayerMPV, PlayerVLC)
	}
	if s.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", s.Retries)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	return nil
}

// PreferLanguage moves lang to the front of the subtitle preference list
func (s *Settings) PreferLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return
	}
	langs := []string{lang}
	for _, l := range s.SubtitleLanguages {
		if l != lang {
			langs = append(langs, l)
		}
	}
	s.SubtitleLanguages = langs
}

// ResolvedDataDir returns where history and favorites live
func (s *Settings) ResolvedDataDir() string {
	if s.DataDir != "" {
		return s.DataDir
	}
	return filepath.Join(filepath.Dir(s.path), "database")
}

// LogDir returns where the rotating debug log is written
func (s *Settings) LogDir() string {
	return filepath.Join(filepath.Dir(s.path), "logs")
}

// Save writes the current settings back to the file they came from
func (s *Settings) Save() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.v == nil {
		s.v = viper.New()
		s.v.SetConfigType("yaml")
	}
	if s.path == "" {
		s.path = DefaultPath()
	}

	s.v.Set("base_url", s.BaseURL)
	s.v.Set("decoder_url", s.DecoderURL)
	s.v.Set("user_agent", s.UserAgent)
	s.v.Set("timeout", s.Timeout.String())
	s.v.Set("retries", s.Retries)
	s.v.Set("subtitle_languages", s.SubtitleLanguages)
	s.v.Set("player", s.Player)
	s.v.Set("discord_rpc", s.DiscordRPC)
	s.v.Set("discord_client_id", s.DiscordClientID)
	s.v.Set("theme", s.Theme)
	s.v.Set("log_level", s.LogLevel)
	s.v.Set("data_dir", s.DataDir)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	return errors.Wrapf(s.v.WriteConfigAs(s.path), "failed to save config %s", s.path)
}

func (s *Settings) normalize() {
	s.Player = strings.ToLower(strings.TrimSpace(s.Player))
	s.Theme = strings.ToLower(strings.TrimSpace(s.Theme))
	s.DiscordClientID = strings.TrimSpace(s.DiscordClientID)
	langs := make([]string, 0, len(s.SubtitleLanguages))
	for _, l := range s.SubtitleLanguages {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			langs = append(langs, l)
		}
	}
	s.SubtitleLanguages = langs
}

// writeDefaults uses a bare instance so environment overrides are not persisted
func writeDefaults(path string) error {
	d := viper.New()
	d.SetConfigType("yaml")
	for key, value := range Defaults() {
		d.Set(key, value)
	}
	return d.SafeWriteConfigAs(path)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, os.ErrNotExist)
}
