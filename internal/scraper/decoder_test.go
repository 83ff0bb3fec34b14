package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickVideoSource(t *testing.T) {
	video, ok := pickVideoSource([]decoderSource{
		{File: "https://cdn/a.mp4"},
		{File: ""},
		{File: "https://cdn/master.m3u8?token=1"},
		{File: "https://cdn/other.m3u8"},
	})
	assert.True(t, ok)
	assert.Equal(t, "https://cdn/master.m3u8?token=1", video)

	_, ok = pickVideoSource([]decoderSource{{File: "https://cdn/a.mp4"}})
	assert.False(t, ok)
}

func TestPickSubtitles(t *testing.T) {
	tracks := []decoderTrack{
		{File: "https://subs/en.vtt", Label: "English"},
		{File: "https://subs/ar.vtt", Label: "Arabic"},
		{File: "https://subs/en2.vtt", Label: "English (SDH)"},
		{File: "", Label: "Arabic"},
		{File: "https://subs/thumbs.vtt", Label: ""},
	}

	tests := []struct {
		name      string
		languages []string
		want      []string
	}{
		{"preference order wins over track order", []string{"arabic", "english"}, []string{"https://subs/ar.vtt", "https://subs/en.vtt"}},
		{"single language", []string{"english"}, []string{"https://subs/en.vtt"}},
		{"case and duplicates are ignored", []string{"ENGLISH", "english", " Arabic "}, []string{"https://subs/en.vtt", "https://subs/ar.vtt"}},
		{"no match", []string{"german"}, []string{}},
		{"no preferences", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickSubtitles(tracks, tt.languages))
		})
	}
}

func TestPickSubtitlesTrackFillsOneSlot(t *testing.T) {
	tracks := []decoderTrack{
		{File: "https://subs/both.vtt", Label: "English / Arabic"},
		{File: "https://subs/ar.vtt", Label: "Arabic"},
	}
	got := pickSubtitles(tracks, []string{"english", "arabic"})
	assert.Equal(t, []string{"https://subs/both.vtt", "https://subs/ar.vtt"}, got)
}

func TestErrorKinds(t *testing.T) {
	err := notFound("search", "nothing for %q", "x")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, err.Error(), "search")
	assert.Contains(t, err.Error(), "not found")

	wrapped := fmt.Errorf("outer: %w", transportError("fetch", errors.New("connection reset")))
	assert.ErrorIs(t, wrapped, ErrTransport)
	assert.Equal(t, KindTransport, KindOf(wrapped))

	assert.Equal(t, KindNone, KindOf(errors.New("plain")))
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, "shape", KindShape.String())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("connection refused")))
	assert.True(t, isRetryable(&statusError{Code: 503}))
	assert.True(t, isRetryable(&statusError{Code: 429}))
	assert.False(t, isRetryable(&statusError{Code: 404}))
	assert.False(t, isRetryable(fmt.Errorf("get: %w", context.Canceled)))
}
