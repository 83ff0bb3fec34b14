package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEpisodeEncodesLinkage(t *testing.T) {
	show := &TVShow{Title: "Dexter", URL: "https://flixhq.to/tv/watch-dexter-39448", Poster: "p.jpg"}

	ep := NewEpisode(show, "2", "999", "Eps 1: Pilot")

	assert.Equal(t, "https://flixhq.to/tv/watch-dexter-39448/season/2/episode/999", ep.URL)
	assert.Equal(t, "999", ep.DataID)
	assert.Equal(t, "p.jpg", ep.Poster)
	assert.Equal(t, MediaTypeEpisode, ep.Type())
}

func TestStreamResultFound(t *testing.T) {
	var nilResult *StreamResult
	assert.False(t, nilResult.Found())

	empty := EmptyStream()
	assert.False(t, empty.Found())
	assert.NotNil(t, empty.SubtitleURLs)
	assert.Empty(t, empty.SubtitleURLs)

	assert.True(t, (&StreamResult{VideoURL: "https://cdn/x.m3u8"}).Found())
}

func TestDisplayNameAndLabels(t *testing.T) {
	tests := []struct {
		name      string
		media     Media
		wantName  string
		wantLabel string
	}{
		{"movie with year", &Movie{Title: "Heat", Year: "1995"}, "Heat (1995)", "Movie"},
		{"show without year", &TVShow{Title: "Dark"}, "Dark", "TV"},
		{"episode", &Episode{Title: "Eps 3"}, "Eps 3", "Episode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantName, DisplayName(tt.media))
			assert.Equal(t, tt.wantLabel, TypeLabel(tt.media))
		})
	}
}

func TestEpisodeCount(t *testing.T) {
	show := &TVShow{Seasons: []Season{
		{Title: "Season 1", Episodes: make([]Episode, 3)},
		{Title: "Season 2", Episodes: make([]Episode, 2)},
		{Title: "Season 3"},
	}}
	assert.Equal(t, 5, show.EpisodeCount())
}
