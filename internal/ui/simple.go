package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/leoallday/movwatch/internal/config"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

const simplePageSize = 10

// Simple is the minimal prompt interface used with -i or on narrow terminals
type Simple struct {
	styles Styles
	out    io.Writer
	now    func() time.Time
}

// NewSimple returns the minimal interface styled with theme
func NewSimple(theme string) *Simple {
	return &Simple{styles: NewStyles(theme), out: os.Stdout, now: time.Now}
}

// SetTheme restyles the interface
func (s *Simple) SetTheme(theme string) {
	s.styles = NewStyles(theme)
}

// MainMenu reads one command or search line
func (s *Simple) MainMenu(status string) (MenuChoice, error) {
	if status != "" {
		_, _ = fmt.Fprintln(s.out, s.styles.Muted.Render(status))
	}
	prompt := promptui.Prompt{
		Label: "Search (s) | History (l) | Favorites (f) | Settings (c) | Quit (q)",
	}
	line, err := prompt.Run()
	if err != nil {
		if errors.Is(backOut(err), ErrBack) {
			return MenuChoice{Action: ActionQuit}, nil
		}
		return MenuChoice{}, err
	}
	return ParseMenuInput(line), nil
}

// PromptQuery asks for a search term
func (s *Simple) PromptQuery() (string, error) {
	prompt := promptui.Prompt{
		Label: "Search",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("enter a title")
			}
			return nil
		},
	}
	query, err := prompt.Run()
	if err != nil {
		return "", backOut(err)
	}
	return strings.TrimSpace(query), nil
}

// Loading prints title and runs fn
func (s *Simple) Loading(title string, fn func() error) error {
	_, _ = fmt.Fprintln(s.out, s.styles.Muted.Render(title))
	return fn()
}

func (s *Simple) selectIndex(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  simplePageSize,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return -1, backOut(err)
	}
	return idx, nil
}

// SelectMedia picks one search result
func (s *Simple) SelectMedia(results []models.Media) (int, error) {
	labels := make([]string, len(results))
	for i, m := range results {
		labels[i] = MediaLabel(m)
	}
	return s.selectIndex("Select media", labels)
}

// SelectSeason picks a season; a single season is picked without asking
func (s *Simple) SelectSeason(seasons []models.Season) (int, error) {
	if len(seasons) == 1 {
		return 0, nil
	}
	labels := make([]string, len(seasons))
	for i, season := range seasons {
		labels[i] = SeasonLabel(season)
	}
	return s.selectIndex("Select season", labels)
}

// SelectEpisode picks an episode of season or toggles the favorite flag
func (s *Simple) SelectEpisode(show *models.TVShow, season models.Season, lastWatched string, favorite bool) (EpisodeChoice, error) {
	idx, err := s.selectIndex(show.Title+" - "+season.Title, EpisodeItems(season, lastWatched, favorite))
	if err != nil {
		return EpisodeChoice{}, err
	}
	if idx == 0 {
		return EpisodeChoice{ToggleFavorite: true}, nil
	}
	return EpisodeChoice{Index: idx - 1}, nil
}

// SelectHistory picks a history entry
func (s *Simple) SelectHistory(entries []tracking.HistoryEntry) (int, error) {
	now := s.now()
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = HistoryLabel(e, now)
	}
	return s.selectIndex("Continue watching", labels)
}

// SelectFavorite picks a favorite and what to do with it
func (s *Simple) SelectFavorite(favorites []tracking.Favorite) (FavoriteChoice, error) {
	labels := make([]string, len(favorites))
	for i, f := range favorites {
		labels[i] = FavoriteLabel(f)
	}
	idx, err := s.selectIndex("Favorites", labels)
	if err != nil {
		return FavoriteChoice{}, err
	}

	action, err := s.selectIndex(favorites[idx].Title, []string{"Watch", "Remove from favorites", "Back"})
	if err != nil {
		return FavoriteChoice{}, err
	}
	switch action {
	case 0:
		return FavoriteChoice{Index: idx, Action: FavoriteWatch}, nil
	case 1:
		return FavoriteChoice{Index: idx, Action: FavoriteRemove}, nil
	}
	return FavoriteChoice{}, ErrBack
}

// EditSettings asks for each setting in turn and applies the answers to cfg
func (s *Simple) EditSettings(cfg *config.Settings) (bool, error) {
	players := []string{config.PlayerMPV, config.PlayerVLC}
	idx, err := s.selectIndex(fmt.Sprintf("Player (current: %s)", cfg.Player), players)
	if err != nil {
		return false, err
	}
	player := players[idx]

	langPrompt := promptui.Prompt{
		Label:     "Subtitle languages (comma separated)",
		Default:   strings.Join(cfg.SubtitleLanguages, ", "),
		AllowEdit: true,
	}
	languages, err := langPrompt.Run()
	if err != nil {
		return false, backOut(err)
	}

	discordIdx, err := s.selectIndex("Discord Rich Presence", []string{"On", "Off"})
	if err != nil {
		return false, err
	}

	themes := ThemeNames()
	themeIdx, err := s.selectIndex(fmt.Sprintf("Theme (current: %s)", cfg.Theme), themes)
	if err != nil {
		return false, err
	}

	cfg.Player = player
	cfg.SubtitleLanguages = ParseLanguages(languages)
	cfg.DiscordRPC = discordIdx == 0
	cfg.Theme = themes[themeIdx]
	s.SetTheme(cfg.Theme)
	return true, nil
}

// NowPlaying prints a one-line playback notice
func (s *Simple) NowPlaying(title, episode string) {
	line := "Playing " + title
	if episode != "" {
		line += " - " + episode
	}
	_, _ = fmt.Fprintln(s.out, s.styles.Title.Render(line))
}

// Message prints a one-line message
func (s *Simple) Message(kind MessageKind, title, body string) {
	line := title
	if body != "" {
		line += ": " + body
	}
	switch kind {
	case MessageError:
		line = s.styles.Error.Render("✗ " + line)
	case MessageSuccess:
		line = s.styles.Success.Render("✓ " + line)
	}
	_, _ = fmt.Fprintln(s.out, line)
}
