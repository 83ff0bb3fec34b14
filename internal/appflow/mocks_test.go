package appflow

import (
	"context"
	"sync"

	"github.com/leoallday/movwatch/internal/config"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/player"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/leoallday/movwatch/internal/ui"
	"github.com/stretchr/testify/mock"
)

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) Search(ctx context.Context, query string) ([]models.Media, error) {
	args := m.Called(query)
	results, _ := args.Get(0).([]models.Media)
	return results, args.Error(1)
}

func (m *mockCatalog) ListEpisodes(ctx context.Context, show *models.TVShow) (*models.TVShow, error) {
	args := m.Called(show)
	loaded, _ := args.Get(0).(*models.TVShow)
	return loaded, args.Error(1)
}

func (m *mockCatalog) ResolveStreamWithLanguages(ctx context.Context, media models.Media, languages []string) (*models.StreamResult, error) {
	args := m.Called(media, languages)
	stream, _ := args.Get(0).(*models.StreamResult)
	return stream, args.Error(1)
}

type mockTracker struct{ mock.Mock }

func (m *mockTracker) MarkWatched(title, episode string) error {
	return m.Called(title, episode).Error(0)
}

func (m *mockTracker) LastWatched(title string) (string, bool, error) {
	args := m.Called(title)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockTracker) History() ([]tracking.HistoryEntry, error) {
	args := m.Called()
	entries, _ := args.Get(0).([]tracking.HistoryEntry)
	return entries, args.Error(1)
}

func (m *mockTracker) AddFavorite(title, poster string) error {
	return m.Called(title, poster).Error(0)
}

func (m *mockTracker) RemoveFavorite(title string) error {
	return m.Called(title).Error(0)
}

func (m *mockTracker) IsFavorite(title string) (bool, error) {
	args := m.Called(title)
	return args.Bool(0), args.Error(1)
}

func (m *mockTracker) Favorites() ([]tracking.Favorite, error) {
	args := m.Called()
	favs, _ := args.Get(0).([]tracking.Favorite)
	return favs, args.Error(1)
}

type mockPlayer struct{ mock.Mock }

func (m *mockPlayer) Play(ctx context.Context, req player.Request) error {
	args := m.Called(req)
	if req.OnStart != nil {
		req.OnStart()
	}
	return args.Error(0)
}

type mockUI struct{ mock.Mock }

func newMockUI() *mockUI {
	u := &mockUI{}
	u.On("Loading", mock.Anything).Return().Maybe()
	u.On("Message", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	u.On("NowPlaying", mock.Anything, mock.Anything).Return().Maybe()
	u.On("SetTheme", mock.Anything).Return().Maybe()
	return u
}

func (m *mockUI) MainMenu(status string) (ui.MenuChoice, error) {
	args := m.Called(status)
	return args.Get(0).(ui.MenuChoice), args.Error(1)
}

func (m *mockUI) PromptQuery() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockUI) Loading(title string, fn func() error) error {
	m.Called(title)
	return fn()
}

func (m *mockUI) SelectMedia(results []models.Media) (int, error) {
	args := m.Called(results)
	return args.Int(0), args.Error(1)
}

func (m *mockUI) SelectSeason(seasons []models.Season) (int, error) {
	args := m.Called(seasons)
	return args.Int(0), args.Error(1)
}

func (m *mockUI) SelectEpisode(show *models.TVShow, season models.Season, lastWatched string, favorite bool) (ui.EpisodeChoice, error) {
	args := m.Called(show.Title, season.Title, lastWatched, favorite)
	return args.Get(0).(ui.EpisodeChoice), args.Error(1)
}

func (m *mockUI) SelectHistory(entries []tracking.HistoryEntry) (int, error) {
	args := m.Called(entries)
	return args.Int(0), args.Error(1)
}

func (m *mockUI) SelectFavorite(favorites []tracking.Favorite) (ui.FavoriteChoice, error) {
	args := m.Called(favorites)
	return args.Get(0).(ui.FavoriteChoice), args.Error(1)
}

func (m *mockUI) EditSettings(s *config.Settings) (bool, error) {
	args := m.Called(s)
	return args.Bool(0), args.Error(1)
}

func (m *mockUI) SetTheme(theme string) { m.Called(theme) }

func (m *mockUI) NowPlaying(title, episode string) { m.Called(title, episode) }

func (m *mockUI) Message(kind ui.MessageKind, title, body string) { m.Called(kind, title, body) }

type recordingPresence struct {
	mu     sync.Mutex
	states []string
}

func (p *recordingPresence) add(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, s)
}

func (p *recordingPresence) Browsing()  { p.add("browsing") }
func (p *recordingPresence) Searching() { p.add("searching") }
func (p *recordingPresence) History()   { p.add("history") }
func (p *recordingPresence) Favorites() { p.add("favorites") }
func (p *recordingPresence) Settings()  { p.add("settings") }

func (p *recordingPresence) ViewingMedia(title, poster string) { p.add("viewing:" + title) }

func (p *recordingPresence) SelectingEpisode(title, poster string) { p.add("episodes:" + title) }

func (p *recordingPresence) Loading(title, episode, poster string) {
	p.add("loading:" + title + ":" + episode)
}

func (p *recordingPresence) Watching(title, episode, poster string) {
	p.add("watching:" + title + ":" + episode)
}
