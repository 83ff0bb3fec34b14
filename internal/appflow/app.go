// Package appflow drives the interactive session: the main menu, search,
// season and episode selection, playback, history, favorites and settings.
package appflow

import (
	"context"
	"strings"

	"github.com/leoallday/movwatch/internal/config"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/player"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/leoallday/movwatch/internal/ui"
	"github.com/leoallday/movwatch/internal/util"
	"github.com/pkg/errors"
)

// Catalog finds media and resolves streams
type Catalog interface {
	Search(ctx context.Context, query string) ([]models.Media, error)
	ListEpisodes(ctx context.Context, show *models.TVShow) (*models.TVShow, error)
	ResolveStreamWithLanguages(ctx context.Context, media models.Media, languages []string) (*models.StreamResult, error)
}

// Tracker stores history and favorites
type Tracker interface {
	MarkWatched(title, episode string) error
	LastWatched(title string) (string, bool, error)
	History() ([]tracking.HistoryEntry, error)
	AddFavorite(title, poster string) error
	RemoveFavorite(title string) error
	IsFavorite(title string) (bool, error)
	Favorites() ([]tracking.Favorite, error)
}

// Presence publishes what the user is doing
type Presence interface {
	Browsing()
	Searching()
	History()
	Favorites()
	Settings()
	ViewingMedia(title, poster string)
	SelectingEpisode(title, poster string)
	Loading(title, episode, poster string)
	Watching(title, episode, poster string)
}

// Player plays a resolved stream and blocks until it exits
type Player interface {
	Play(ctx context.Context, req player.Request) error
}

// UI is the set of screens the session needs
type UI interface {
	MainMenu(status string) (ui.MenuChoice, error)
	PromptQuery() (string, error)
	Loading(title string, fn func() error) error
	SelectMedia(results []models.Media) (int, error)
	SelectSeason(seasons []models.Season) (int, error)
	SelectEpisode(show *models.TVShow, season models.Season, lastWatched string, favorite bool) (ui.EpisodeChoice, error)
	SelectHistory(entries []tracking.HistoryEntry) (int, error)
	SelectFavorite(favorites []tracking.Favorite) (ui.FavoriteChoice, error)
	EditSettings(s *config.Settings) (bool, error)
	SetTheme(theme string)
	NowPlaying(title, episode string)
	Message(kind ui.MessageKind, title, body string)
}

// movieEpisode is the episode label recorded for movies
const movieEpisode = "Movie"

// Options wires an App
type Options struct {
	Config    *config.Settings
	Catalog   Catalog
	Tracker   Tracker
	Presence  Presence
	NewPlayer func(kind string) Player
	Full      UI
	Simple    UI
	// ForceSimple always uses Simple (-i)
	ForceSimple bool
	// Narrow reports whether the terminal is too small for Full
	Narrow func() bool
	// Status is shown on the first main menu
	Status string
}

// App is one interactive session
type App struct {
	cfg         *config.Settings
	catalog     Catalog
	tracker     Tracker
	presence    Presence
	newPlayer   func(kind string) Player
	player      Player
	full        UI
	simple      UI
	forceSimple bool
	narrow      func() bool
	status      string
}

// New builds a session from opts
func New(opts Options) *App {
	a := &App{
		cfg:         opts.Config,
		catalog:     opts.Catalog,
		tracker:     opts.Tracker,
		presence:    opts.Presence,
		newPlayer:   opts.NewPlayer,
		full:        opts.Full,
		simple:      opts.Simple,
		forceSimple: opts.ForceSimple,
		narrow:      opts.Narrow,
		status:      opts.Status,
	}
	if a.newPlayer == nil {
		a.newPlayer = func(kind string) Player { return player.New(kind) }
	}
	if a.narrow == nil {
		a.narrow = util.IsNarrowTerminal
	}
	if a.full == nil {
		a.full = a.simple
	}
	if a.simple == nil {
		a.simple = a.full
	}
	a.player = a.newPlayer(a.cfg.Player)
	return a
}

func (a *App) ui() UI {
	if a.forceSimple || a.narrow() {
		return a.simple
	}
	return a.full
}

// Run searches for initialQuery when given, then loops on the main menu until
// the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context, initialQuery string) error {
	if q := strings.TrimSpace(initialQuery); q != "" {
		a.report(a.search(ctx, q))
	}

	for ctx.Err() == nil {
		a.presence.Browsing()
		screen := a.ui()
		status := a.status
		a.status = ""

		choice, err := screen.MainMenu(status)
		if err != nil {
			return err
		}

		switch choice.Action {
		case ui.ActionQuit:
			return nil
		case ui.ActionSearch:
			query, err := screen.PromptQuery()
			if err != nil {
				a.report(err)
				continue
			}
			a.report(a.search(ctx, query))
		case ui.ActionQuery:
			a.report(a.search(ctx, choice.Query))
		case ui.ActionHistory:
			a.report(a.history(ctx))
		case ui.ActionFavorites:
			a.report(a.favorites(ctx))
		case ui.ActionSettings:
			a.report(a.settings())
		}
	}
	return nil
}

// report shows a flow error; backing out is not an error
func (a *App) report(err error) {
	if err == nil || errors.Is(err, ui.ErrBack) {
		return
	}
	util.Debug("Flow failed", "error", err)
	a.ui().Message(ui.MessageError, "Something went wrong", err.Error())
}

func (a *App) find(ctx context.Context, query string) []models.Media {
	a.presence.Searching()
	var results []models.Media
	err := a.ui().Loading("Searching for "+query+"...", func() error {
		var err error
		results, err = util.TimeFuncWithError("search", func() ([]models.Media, error) {
			return a.catalog.Search(ctx, query)
		})
		return err
	})
	if err != nil {
		util.Debug("Search failed", "query", query, "error", err)
	}
	return results
}

func (a *App) search(ctx context.Context, query string) error {
	results := a.find(ctx, query)
	if len(results) == 0 {
		a.ui().Message(ui.MessageInfo, ui.MsgNoMedia, query)
		return nil
	}
	return a.selectMedia(ctx, results)
}

func (a *App) selectMedia(ctx context.Context, results []models.Media) error {
	for ctx.Err() == nil {
		a.presence.Browsing()
		idx, err := a.ui().SelectMedia(results)
		if err != nil {
			return err
		}
		a.report(a.open(ctx, results[idx]))
	}
	return nil
}

func (a *App) open(ctx context.Context, media models.Media) error {
	switch m := media.(type) {
	case *models.Movie:
		a.presence.ViewingMedia(m.Title, m.Poster)
		return a.play(ctx, m, m.Title, movieEpisode, m.Poster)
	case *models.TVShow:
		return a.openShow(ctx, m)
	}
	return errors.Errorf("cannot open %s", models.TypeLabel(media))
}

func (a *App) openShow(ctx context.Context, show *models.TVShow) error {
	a.presence.ViewingMedia(show.Title, show.Poster)

	loaded := show
	err := a.ui().Loading("Loading episodes...", func() error {
		var err error
		loaded, err = util.TimeFuncWithError("episodes", func() (*models.TVShow, error) {
			return a.catalog.ListEpisodes(ctx, show)
		})
		return err
	})
	if err != nil {
		util.Debug("Episode listing failed", "show", show.Title, "error", err)
	}
	if loaded == nil || len(loaded.Seasons) == 0 {
		a.ui().Message(ui.MessageInfo, ui.MsgNoEpisodes, show.Title)
		return nil
	}

	single := len(loaded.Seasons) == 1
	for ctx.Err() == nil {
		idx, err := a.ui().SelectSeason(loaded.Seasons)
		if err != nil {
			return err
		}
		season := loaded.Seasons[idx]
		if len(season.Episodes) == 0 {
			a.ui().Message(ui.MessageInfo, ui.MsgNoEpisodes, season.Title)
		} else if err := a.episodes(ctx, loaded, season); !errors.Is(err, ui.ErrBack) {
			return err
		}
		if single {
			return nil
		}
	}
	return nil
}

// episodes loops on the episode picker until the user backs out
func (a *App) episodes(ctx context.Context, show *models.TVShow, season models.Season) error {
	for ctx.Err() == nil {
		a.presence.SelectingEpisode(show.Title, show.Poster)

		last, _, err := a.tracker.LastWatched(show.Title)
		a.trackerFailed("read history", err)
		favorite, err := a.tracker.IsFavorite(show.Title)
		a.trackerFailed("read favorites", err)

		choice, err := a.ui().SelectEpisode(show, season, last, favorite)
		if err != nil {
			return err
		}
		if choice.ToggleFavorite {
			a.toggleFavorite(show, favorite)
			continue
		}
		ep := season.Episodes[choice.Index]
		a.report(a.play(ctx, &ep, show.Title, ep.Title, show.Poster))
	}
	return nil
}

func (a *App) toggleFavorite(show *models.TVShow, favorite bool) {
	if favorite {
		if err := a.tracker.RemoveFavorite(show.Title); !a.trackerFailed("remove favorite", err) {
			a.ui().Message(ui.MessageSuccess, "Removed from favorites", show.Title)
		}
		return
	}
	if err := a.tracker.AddFavorite(show.Title, show.Poster); !a.trackerFailed("add favorite", err) {
		a.ui().Message(ui.MessageSuccess, "Added to favorites", show.Title)
	}
}

// play resolves media and hands it to the player. An unresolvable stream is
// reported to the user, not returned.
func (a *App) play(ctx context.Context, media models.Media, title, episode, poster string) error {
	a.presence.Loading(title, episode, poster)

	var stream *models.StreamResult
	err := a.ui().Loading("Resolving stream...", func() error {
		var err error
		stream, err = util.TimeFuncWithError("resolve", func() (*models.StreamResult, error) {
			return a.catalog.ResolveStreamWithLanguages(ctx, media, a.cfg.SubtitleLanguages)
		})
		return err
	})
	if err != nil {
		util.Debug("Stream resolution failed", "title", title, "episode", episode, "error", err)
	}
	if !stream.Found() {
		a.ui().Message(ui.MessageError, ui.MsgNoStream, title+" - "+episode)
		a.presence.ViewingMedia(title, poster)
		return nil
	}

	a.ui().NowPlaying(title, episode)
	err = a.player.Play(ctx, player.Request{
		URL:       stream.VideoURL,
		Title:     title + " - " + episode,
		Subtitles: stream.SubtitleURLs,
		OnStart:   func() { a.presence.Watching(title, episode, poster) },
	})
	a.presence.ViewingMedia(title, poster)
	if err != nil {
		return errors.Wrap(err, "playback failed")
	}

	a.trackerFailed("mark watched", a.tracker.MarkWatched(title, episode))
	return nil
}

// reopen searches for title and opens the exact match, or the first result
func (a *App) reopen(ctx context.Context, title string) error {
	results := a.find(ctx, title)
	if len(results) == 0 {
		a.ui().Message(ui.MessageInfo, ui.MsgNoMedia, title)
		return nil
	}
	pick := results[0]
	for _, r := range results {
		if r.GetTitle() == title {
			pick = r
			break
		}
	}
	return a.open(ctx, pick)
}

func (a *App) history(ctx context.Context) error {
	a.presence.History()
	entries, err := a.tracker.History()
	if a.trackerFailed("read history", err) {
		return err
	}
	if len(entries) == 0 {
		a.ui().Message(ui.MessageInfo, ui.MsgNoHistory, "")
		return nil
	}

	idx, err := a.ui().SelectHistory(entries)
	if err != nil {
		return err
	}
	return a.reopen(ctx, entries[idx].Title)
}

func (a *App) favorites(ctx context.Context) error {
	for ctx.Err() == nil {
		a.presence.Favorites()
		favs, err := a.tracker.Favorites()
		if a.trackerFailed("read favorites", err) {
			return err
		}
		if len(favs) == 0 {
			a.ui().Message(ui.MessageInfo, ui.MsgNoFavorites, "")
			return nil
		}

		choice, err := a.ui().SelectFavorite(favs)
		if err != nil {
			return err
		}
		fav := favs[choice.Index]
		if choice.Action == ui.FavoriteWatch {
			return a.reopen(ctx, fav.Title)
		}
		if err := a.tracker.RemoveFavorite(fav.Title); a.trackerFailed("remove favorite", err) {
			return err
		}
		a.ui().Message(ui.MessageSuccess, "Removed from favorites", fav.Title)
	}
	return nil
}

func (a *App) settings() error {
	a.presence.Settings()
	changed, err := a.ui().EditSettings(a.cfg)
	if err != nil || !changed {
		return err
	}
	if err := a.cfg.Save(); err != nil {
		return errors.Wrap(err, "failed to save settings")
	}

	a.player = a.newPlayer(a.cfg.Player)
	a.full.SetTheme(a.cfg.Theme)
	a.simple.SetTheme(a.cfg.Theme)
	a.ui().Message(ui.MessageSuccess, ui.MsgSettingsSaved, a.cfg.Path())
	return nil
}

// trackerFailed logs err and reports whether it is a real failure. A store
// that was never opened is not one.
func (a *App) trackerFailed(op string, err error) bool {
	if err == nil || errors.Is(err, tracking.ErrTrackerNotInited) {
		return false
	}
	util.Warn("Tracking failed", "op", op, "error", err)
	return true
}
