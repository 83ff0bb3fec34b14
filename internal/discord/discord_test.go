package discord

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tr1xem/go-discordrpc/client"
)

type mockRPC struct {
	mock.Mock
}

func (m *mockRPC) Login() error  { return m.Called().Error(0) }
func (m *mockRPC) Logout() error { return m.Called().Error(0) }
func (m *mockRPC) SetActivity(activity client.Activity) error {
	return m.Called(activity).Error(0)
}

func newTestPresence(rpc *mockRPC, enabled bool) *Presence {
	p := newPresence(rpc, enabled)
	p.period = time.Hour
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestDisabledPresenceNeverTouchesDiscord(t *testing.T) {
	rpc := &mockRPC{}
	p := newTestPresence(rpc, false)

	require.NoError(t, p.Connect())
	p.Searching()
	p.Watching("Dune", "Dune", "")
	require.NoError(t, p.Close())

	assert.False(t, p.Connected())
	assert.Equal(t, StateWatching, p.State())
	rpc.AssertNotCalled(t, "Login")
	rpc.AssertNotCalled(t, "SetActivity", mock.Anything)
}

func TestConnectFailureDisablesPresence(t *testing.T) {
	rpc := &mockRPC{}
	rpc.On("Login").Return(errors.New("discord not running")).Once()
	p := newTestPresence(rpc, true)

	assert.Error(t, p.Connect())
	assert.False(t, p.Connected())
	assert.NoError(t, p.Connect())
	p.History()

	rpc.AssertNumberOfCalls(t, "Login", 1)
	rpc.AssertNotCalled(t, "SetActivity", mock.Anything)
}

func TestStatesArePublished(t *testing.T) {
	rpc := &mockRPC{}
	rpc.On("Login").Return(nil)
	rpc.On("Logout").Return(nil)
	rpc.On("SetActivity", mock.Anything).Return(nil)

	p := newTestPresence(rpc, true)
	require.NoError(t, p.Connect())
	assert.True(t, p.Connected())
	assert.Equal(t, StateBrowsing, p.State())

	p.Watching("Breaking Bad", "Eps 1: Pilot", "https://img/bb.jpg")
	require.NoError(t, p.Close())
	assert.False(t, p.Connected())

	calls := rpc.Calls
	var activities []client.Activity
	for _, c := range calls {
		if c.Method == "SetActivity" {
			activities = append(activities, c.Arguments.Get(0).(client.Activity))
		}
	}
	require.Len(t, activities, 2)
	assert.Equal(t, "Browsing", activities[0].State)

	watching := activities[1]
	assert.EqualValues(t, activityWatching, watching.Type)
	assert.Equal(t, "Eps 1: Pilot", watching.Details)
	assert.Equal(t, "Breaking Bad", watching.State)
	assert.Equal(t, "https://img/bb.jpg", watching.LargeImage)
	require.NotNil(t, watching.Timestamps)
	require.NotNil(t, watching.Timestamps.Start)
	assert.Equal(t, p.now(), *watching.Timestamps.Start)
	require.Len(t, watching.Buttons, 1)
	assert.Equal(t, ProjectURL, watching.Buttons[0].Url)

	rpc.AssertNumberOfCalls(t, "Logout", 1)
}

func TestActivityText(t *testing.T) {
	p := newTestPresence(&mockRPC{}, false)

	tests := []struct {
		name      string
		apply     func()
		wantState string
		wantImage string
	}{
		{"searching", p.Searching, "Searching for media", LogoURL},
		{"history", p.History, "Viewing watch history", LogoURL},
		{"favorites", p.Favorites, "Browsing favorites", LogoURL},
		{"settings", p.Settings, "Configuring settings", LogoURL},
		{"viewing", func() { p.ViewingMedia("Dune", "https://img/d.jpg") }, "Viewing details", "https://img/d.jpg"},
		{"episodes", func() { p.SelectingEpisode("Lost", "") }, "Browsing episodes", LogoURL},
		{"loading", func() { p.Loading("Lost", "Eps 3", "") }, "Loading Eps 3", LogoURL},
		{"browsing", p.Browsing, "Browsing", LogoURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.apply()
			activity := p.activityLocked()
			assert.Equal(t, tt.wantState, activity.State)
			assert.Equal(t, tt.wantImage, activity.LargeImage)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Selecting Episode", StateSelectingEpisode.String())
	assert.Equal(t, "Browsing", State(99).String())
}
