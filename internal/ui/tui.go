package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/leoallday/movwatch/internal/config"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/pkg/errors"
)

// EpisodeChoice is the episode picker outcome
type EpisodeChoice struct {
	Index          int
	ToggleFavorite bool
}

// FavoriteAction is what to do with a picked favorite
type FavoriteAction int

const (
	FavoriteWatch FavoriteAction = iota
	FavoriteRemove
)

// FavoriteChoice is the favorites picker outcome
type FavoriteChoice struct {
	Index  int
	Action FavoriteAction
}

// TUI is the full terminal interface: bubbletea menu, fuzzy finder lists and huh forms
type TUI struct {
	styles Styles
	out    io.Writer
	now    func() time.Time
}

// NewTUI returns the full interface styled with theme
func NewTUI(theme string) *TUI {
	return &TUI{styles: NewStyles(theme), out: os.Stdout, now: time.Now}
}

// SetTheme restyles the interface
func (t *TUI) SetTheme(theme string) {
	t.styles = NewStyles(theme)
}

// MainMenu shows the menu with an optional status line
func (t *TUI) MainMenu(status string) (MenuChoice, error) {
	choice, err := runMenu(t.styles, status)
	if err != nil {
		return MenuChoice{}, errors.Wrap(err, "main menu failed")
	}
	return choice, nil
}

// PromptQuery asks for a search term
func (t *TUI) PromptQuery() (string, error) {
	var query string
	err := huh.NewInput().
		Title("Search movies and TV shows").
		Placeholder("title").
		Value(&query).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("enter a title")
			}
			return nil
		}).
		Run()
	if err != nil {
		return "", backOut(err)
	}
	return strings.TrimSpace(query), nil
}

// Loading runs fn behind a spinner
func (t *TUI) Loading(title string, fn func() error) error {
	var fnErr error
	err := spinner.New().
		Title(title).
		Type(spinner.Dots).
		Action(func() {
			fnErr = fn()
		}).
		Run()
	if err != nil {
		return err
	}
	return fnErr
}

// SelectMedia picks one search result
func (t *TUI) SelectMedia(results []models.Media) (int, error) {
	idx, err := fuzzyfinder.Find(
		results,
		func(i int) string { return MediaLabel(results[i]) },
		fuzzyfinder.WithPromptString("Select media: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return mediaPreview(results[i], w/2-4)
		}),
	)
	if err != nil {
		return -1, backOut(err)
	}
	return idx, nil
}

// SelectSeason picks a season; a single season is picked without asking
func (t *TUI) SelectSeason(seasons []models.Season) (int, error) {
	if len(seasons) == 1 {
		return 0, nil
	}
	options := make([]huh.Option[int], len(seasons))
	for i, s := range seasons {
		options[i] = huh.NewOption(SeasonLabel(s), i)
	}
	var picked int
	err := huh.NewSelect[int]().
		Title("Select season").
		Options(options...).
		Value(&picked).
		Run()
	if err != nil {
		return -1, backOut(err)
	}
	return picked, nil
}

// SelectEpisode picks an episode of season or toggles the favorite flag
func (t *TUI) SelectEpisode(show *models.TVShow, season models.Season, lastWatched string, favorite bool) (EpisodeChoice, error) {
	items := EpisodeItems(season, lastWatched, favorite)
	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string { return items[i] },
		fuzzyfinder.WithPromptString(fmt.Sprintf("%s - %s: ", show.Title, season.Title)),
	)
	if err != nil {
		return EpisodeChoice{}, backOut(err)
	}
	if idx == 0 {
		return EpisodeChoice{ToggleFavorite: true}, nil
	}
	return EpisodeChoice{Index: idx - 1}, nil
}

// SelectHistory picks a history entry
func (t *TUI) SelectHistory(entries []tracking.HistoryEntry) (int, error) {
	now := t.now()
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string { return HistoryLabel(entries[i], now) },
		fuzzyfinder.WithPromptString("Continue watching: "),
	)
	if err != nil {
		return -1, backOut(err)
	}
	return idx, nil
}

// SelectFavorite picks a favorite and what to do with it
func (t *TUI) SelectFavorite(favorites []tracking.Favorite) (FavoriteChoice, error) {
	idx, err := fuzzyfinder.Find(
		favorites,
		func(i int) string { return FavoriteLabel(favorites[i]) },
		fuzzyfinder.WithPromptString("Favorites: "),
	)
	if err != nil {
		return FavoriteChoice{}, backOut(err)
	}

	const back = -1
	action := int(FavoriteWatch)
	err = huh.NewSelect[int]().
		Title(favorites[idx].Title).
		Options(
			huh.NewOption("Watch", int(FavoriteWatch)),
			huh.NewOption("Remove from favorites", int(FavoriteRemove)),
			huh.NewOption("Back", back),
		).
		Value(&action).
		Run()
	if err != nil {
		return FavoriteChoice{}, backOut(err)
	}
	if action == back {
		return FavoriteChoice{}, ErrBack
	}
	return FavoriteChoice{Index: idx, Action: FavoriteAction(action)}, nil
}

// EditSettings shows the settings form and applies it to s when confirmed
func (t *TUI) EditSettings(s *config.Settings) (bool, error) {
	player := s.Player
	languages := strings.Join(s.SubtitleLanguages, ", ")
	discord := s.DiscordRPC
	theme := s.Theme
	save := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Player").
				Options(huh.NewOptions(config.PlayerMPV, config.PlayerVLC)...).
				Value(&player),
			huh.NewInput().
				Title("Subtitle languages").
				Description("comma separated, in order of preference").
				Value(&languages),
			huh.NewConfirm().
				Title("Discord Rich Presence").
				Value(&discord),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(ThemeNames()...)...).
				Value(&theme),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save settings?").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return false, backOut(err)
	}
	if !save {
		return false, nil
	}

	s.Player = player
	s.SubtitleLanguages = ParseLanguages(languages)
	s.DiscordRPC = discord
	s.Theme = theme
	t.SetTheme(theme)
	return true, nil
}

// NowPlaying prints the playback banner
func (t *TUI) NowPlaying(title, episode string) {
	_, _ = fmt.Fprintln(t.out, RenderNowPlaying(t.styles, title, episode))
}

// Message prints a boxed message
func (t *TUI) Message(kind MessageKind, title, body string) {
	_, _ = fmt.Fprintln(t.out, RenderMessage(t.styles, kind, title, body))
}
