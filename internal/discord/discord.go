// Package discord publishes Discord Rich Presence for the current screen.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/leoallday/movwatch/internal/util"
	"github.com/tr1xem/go-discordrpc/client"
)

// DefaultClientID is the Discord application used when discord_client_id is
// not configured. It is not registered to this project, so set your own.
const DefaultClientID = "1302721937717334128"

const (
	LogoURL       = "https://raw.githubusercontent.com/leoallday/mov-watch/main/assets/logo.png"
	LogoText      = "mov-watch"
	ProjectURL    = "https://github.com/leoallday/mov-watch"
	refreshPeriod = 15 * time.Second

	activityWatching = 3
)

// State is what the user is currently doing
type State int

const (
	StateBrowsing State = iota
	StateSearching
	StateViewing
	StateSelectingEpisode
	StateLoading
	StateWatching
	StateHistory
	StateFavorites
	StateSettings
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "Searching"
	case StateViewing:
		return "Viewing"
	case StateSelectingEpisode:
		return "Selecting Episode"
	case StateLoading:
		return "Loading"
	case StateWatching:
		return "Watching"
	case StateHistory:
		return "History"
	case StateFavorites:
		return "Favorites"
	case StateSettings:
		return "Settings"
	default:
		return "Browsing"
	}
}

// rpcClient is the part of the go-discordrpc client we use
type rpcClient interface {
	Login() error
	Logout() error
	SetActivity(activity client.Activity) error
}

// Presence tracks the current state and mirrors it to Discord. Every method
// is a no-op when presence is disabled or Discord is not running.
type Presence struct {
	mu        sync.Mutex
	rpc       rpcClient
	enabled   bool
	connected bool

	state   State
	media   string
	episode string
	poster  string
	started time.Time

	now    func() time.Time
	period time.Duration
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a presence manager for clientID
func New(clientID string, enabled bool) *Presence {
	if clientID == "" {
		clientID = DefaultClientID
	}
	return newPresence(client.NewClient(clientID), enabled)
}

func newPresence(rpc rpcClient, enabled bool) *Presence {
	return &Presence{
		rpc:     rpc,
		enabled: enabled,
		now:     time.Now,
		period:  refreshPeriod,
		started: time.Now(),
	}
}

// Connect logs in and starts the periodic refresh. Failing to reach Discord
// disables presence for the session.
func (p *Presence) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.connected {
		return nil
	}
	if err := p.rpc.Login(); err != nil {
		p.enabled = false
		util.Debug("Discord RPC unavailable", "error", err)
		return fmt.Errorf("discord login failed: %w", err)
	}

	p.connected = true
	p.setLocked(StateBrowsing, "", "", "")
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.refreshLoop(p.done)

	util.Debug("Discord RPC logged in successfully")
	return nil
}

// Connected reports whether activities are being published
func (p *Presence) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// State returns the current state
func (p *Presence) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Presence) Browsing()  { p.set(StateBrowsing, "", "", "") }
func (p *Presence) Searching() { p.set(StateSearching, "", "", "") }
func (p *Presence) History()   { p.set(StateHistory, "", "", "") }
func (p *Presence) Favorites() { p.set(StateFavorites, "", "", "") }
func (p *Presence) Settings()  { p.set(StateSettings, "", "", "") }

func (p *Presence) ViewingMedia(title, poster string) {
	p.set(StateViewing, title, "", poster)
}

func (p *Presence) SelectingEpisode(title, poster string) {
	p.set(StateSelectingEpisode, title, "", poster)
}

func (p *Presence) Loading(title, episode, poster string) {
	p.set(StateLoading, title, episode, poster)
}

func (p *Presence) Watching(title, episode, poster string) {
	p.set(StateWatching, title, episode, poster)
}

// Close stops the refresh loop and logs out
func (p *Presence) Close() error {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return nil
	}
	p.connected = false
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	if err := p.rpc.Logout(); err != nil {
		return fmt.Errorf("discord logout failed: %w", err)
	}
	util.Debug("Discord RPC logged out")
	return nil
}

func (p *Presence) set(state State, media, episode, poster string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setLocked(state, media, episode, poster)
}

func (p *Presence) setLocked(state State, media, episode, poster string) {
	p.state = state
	p.media = media
	p.episode = episode
	p.poster = poster
	p.started = p.now()
	p.publishLocked()
}

func (p *Presence) publishLocked() {
	if !p.connected {
		return
	}
	if err := p.rpc.SetActivity(p.activityLocked()); err != nil {
		util.Debug("Failed to update Discord activity", "state", p.state, "error", err)
	}
}

func (p *Presence) refreshLoop(done <-chan struct{}) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.mu.Lock()
			p.publishLocked()
			p.mu.Unlock()
		}
	}
}

// activityLocked builds the activity for the current state
func (p *Presence) activityLocked() client.Activity {
	start := p.started
	activity := client.Activity{
		Name:       LogoText,
		Details:    LogoText,
		LargeImage: LogoURL,
		LargeText:  LogoText,
		Timestamps: &client.Timestamps{Start: &start},
		Buttons:    []*client.Button{{Label: "View on GitHub", Url: ProjectURL}},
	}

	poster := p.poster
	if poster == "" {
		poster = LogoURL
	}

	switch p.state {
	case StateWatching:
		activity.Type = activityWatching
		activity.Details = p.episode
		activity.State = p.media
		activity.LargeImage = poster
		activity.LargeText = p.media
		activity.SmallImage = LogoURL
		activity.SmallText = LogoText
	case StateLoading, StateViewing, StateSelectingEpisode:
		activity.Details = p.media
		activity.LargeImage = poster
		activity.LargeText = p.media
		activity.SmallImage = LogoURL
		activity.SmallText = LogoText
		switch p.state {
		case StateLoading:
			activity.State = "Loading " + p.episode
		case StateViewing:
			activity.State = "Viewing details"
		default:
			activity.State = "Browsing episodes"
		}
	case StateSearching:
		activity.State = "Searching for media"
	case StateHistory:
		activity.State = "Viewing watch history"
	case StateFavorites:
		activity.State = "Browsing favorites"
	case StateSettings:
		activity.State = "Configuring settings"
	default:
		activity.State = "Browsing"
	}
	return activity
}
