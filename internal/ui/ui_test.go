package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMenuInput(t *testing.T) {
	tests := []struct {
		input string
		want  MenuChoice
	}{
		{"", MenuChoice{Action: ActionNone}},
		{"   ", MenuChoice{Action: ActionNone}},
		{"q", MenuChoice{Action: ActionQuit}},
		{"EXIT", MenuChoice{Action: ActionQuit}},
		{"quit", MenuChoice{Action: ActionQuit}},
		{"s", MenuChoice{Action: ActionSearch}},
		{"L", MenuChoice{Action: ActionHistory}},
		{"f", MenuChoice{Action: ActionFavorites}},
		{"c", MenuChoice{Action: ActionSettings}},
		{"  Breaking Bad ", MenuChoice{Action: ActionQuery, Query: "Breaking Bad"}},
		{"st", MenuChoice{Action: ActionQuery, Query: "st"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMenuInput(tt.input))
		})
	}
}

func typeInto(m menuModel, text string) menuModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(menuModel)
}

func TestMenuModelSubmitsQuery(t *testing.T) {
	m := newMenuModel(NewStyles("blue"), "")
	m = typeInto(m, "dune")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)

	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Equal(t, MenuChoice{Action: ActionQuery, Query: "dune"}, m.choice)
	assert.Empty(t, m.View())
}

func TestMenuModelCommandKey(t *testing.T) {
	m := newMenuModel(NewStyles("blue"), "")
	m = typeInto(m, "l")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ActionHistory, next.(menuModel).choice.Action)
}

func TestMenuModelIgnoresEmptySubmit(t *testing.T) {
	m := newMenuModel(NewStyles("blue"), "")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)

	assert.Nil(t, cmd)
	assert.False(t, m.done)
}

func TestMenuModelEscapeQuits(t *testing.T) {
	m := newMenuModel(NewStyles("blue"), "")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(menuModel)

	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.Equal(t, ActionQuit, m.choice.Action)
}

func TestMenuViewShowsEntriesAndStatus(t *testing.T) {
	m := newMenuModel(NewStyles("green"), "No media found")
	view := m.View()

	for _, label := range []string{"Search", "History", "Favorites", "Settings", "Quit", "No media found"} {
		assert.Contains(t, view, label)
	}
}

func TestEpisodeItems(t *testing.T) {
	season := models.Season{Title: "Season 1", Episodes: []models.Episode{
		{Title: "Eps 1: Pilot"},
		{Title: "Eps 2: Cat's in the Bag"},
	}}

	items := EpisodeItems(season, "Eps 2: Cat's in the Bag", false)
	require.Len(t, items, 3)
	assert.Equal(t, favoriteAdd, items[0])
	assert.Equal(t, "  Eps 1: Pilot", items[1])
	assert.Equal(t, "▶ Eps 2: Cat's in the Bag (last watched)", items[2])

	items = EpisodeItems(season, "", true)
	assert.Equal(t, favoriteRemove, items[0])
	assert.Equal(t, "  Eps 2: Cat's in the Bag", items[2])
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "[Movie] Heat (1995)", MediaLabel(&models.Movie{Title: "Heat", Year: "1995"}))
	assert.Equal(t, "[TV] Dark", MediaLabel(&models.TVShow{Title: "Dark"}))
	assert.Equal(t, "Season 2 (3 episodes)", SeasonLabel(models.Season{Title: "Season 2", Episodes: make([]models.Episode, 3)}))
	assert.Equal(t, "★ Lost", FavoriteLabel(tracking.Favorite{Title: "Lost"}))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	entry := tracking.HistoryEntry{Title: "Lost", Episode: "Eps 4", LastUpdated: now.Add(-3 * time.Hour)}
	assert.Equal(t, "Lost · Eps 4 · 3 hours ago", HistoryLabel(entry, now))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{49 * time.Hour, "2 days ago"},
		{90 * 24 * time.Hour, "2024-02-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, timeAgo(now.Add(-tt.ago), now))
	}
	assert.Equal(t, "unknown", timeAgo(time.Time{}, now))
}

func TestParseLanguages(t *testing.T) {
	assert.Equal(t, []string{"english", "arabic"}, ParseLanguages(" English, ,arabic "))
	assert.Nil(t, ParseLanguages(" , "))
}

func TestNewStylesFallsBackToDefault(t *testing.T) {
	assert.Equal(t, themes[DefaultTheme], NewStyles("no-such-theme").Accent)
	assert.Equal(t, themes["red"], NewStyles(" RED ").Accent)
	assert.Contains(t, ThemeNames(), "purple")
	assert.IsIncreasing(t, ThemeNames())
}

func TestBackOut(t *testing.T) {
	assert.NoError(t, backOut(nil))
	for _, err := range []error{fuzzyfinder.ErrAbort, promptui.ErrInterrupt, promptui.ErrEOF, huh.ErrUserAborted} {
		assert.ErrorIs(t, backOut(err), ErrBack)
	}
	other := errors.New("boom")
	assert.Equal(t, other, backOut(other))
}

func TestRenderMessage(t *testing.T) {
	st := NewStyles("blue")
	out := RenderMessage(st, MessageError, MsgNoStream, "try another server")
	assert.Contains(t, out, MsgNoStream)
	assert.Contains(t, out, "try another server")

	playing := RenderNowPlaying(st, "Dune", "Movie")
	assert.Contains(t, playing, "Now playing")
	assert.Contains(t, playing, "Dune")
}

func TestSimpleMessages(t *testing.T) {
	var buf bytes.Buffer
	s := NewSimple("blue")
	s.out = &buf

	s.Message(MessageInfo, MsgNoMedia, "")
	s.NowPlaying("Lost", "Eps 1")
	require.NoError(t, s.Loading("Searching...", func() error { return nil }))

	out := buf.String()
	assert.Contains(t, out, "No media found")
	assert.Contains(t, out, "Playing Lost - Eps 1")
	assert.Contains(t, out, "Searching...")
}

func TestSimpleLoadingReturnsError(t *testing.T) {
	s := NewSimple("blue")
	s.out = &bytes.Buffer{}
	want := errors.New("offline")
	assert.Equal(t, want, s.Loading("x", func() error { return want }))
}
