// Package models contains data structures for movies, TV shows and resolved streams
package models

import "fmt"

// MediaType represents the type of media content
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeEpisode MediaType = "episode"
)

// Media is implemented by every item the catalog can hand back or the resolver can play
type Media interface {
	GetTitle() string
	GetURL() string
	GetPoster() string
	GetYear() string
	Type() MediaType
}

// Movie represents a single movie listing
type Movie struct {
	Title  string
	URL    string
	Poster string
	Year   string
}

func (m *Movie) GetTitle() string  { return m.Title }
func (m *Movie) GetURL() string    { return m.URL }
func (m *Movie) GetPoster() string { return m.Poster }
func (m *Movie) GetYear() string   { return m.Year }
func (m *Movie) Type() MediaType   { return MediaTypeMovie }

// TVShow represents a TV show listing. Seasons stays empty until the
// episode catalog fills it.
type TVShow struct {
	Title   string
	URL     string
	Poster  string
	Year    string
	Seasons []Season
	// Partial marks Seasons as left over from a listing that failed or came
	// back empty; the next listing starts over.
	Partial bool
}

func (s *TVShow) GetTitle() string  { return s.Title }
func (s *TVShow) GetURL() string    { return s.URL }
func (s *TVShow) GetPoster() string { return s.Poster }
func (s *TVShow) GetYear() string   { return s.Year }
func (s *TVShow) Type() MediaType   { return MediaTypeTV }

// EpisodeCount returns the number of episodes across all loaded seasons
func (s *TVShow) EpisodeCount() int {
	total := 0
	for _, season := range s.Seasons {
		total += len(season.Episodes)
	}
	return total
}

// Season represents a TV show season
type Season struct {
	ID       string
	Title    string
	Episodes []Episode
}

// Episode represents a single episode of a TV show.
// URL has the shape <show url>/season/<season id>/episode/<data id>.
type Episode struct {
	Title  string
	URL    string
	DataID string
	Poster string
}

func (e *Episode) GetTitle() string  { return e.Title }
func (e *Episode) GetURL() string    { return e.URL }
func (e *Episode) GetPoster() string { return e.Poster }
func (e *Episode) GetYear() string   { return "" }
func (e *Episode) Type() MediaType   { return MediaTypeEpisode }

// NewEpisode builds an episode whose URL encodes the show, season and data id
func NewEpisode(show *TVShow, seasonID, dataID, title string) Episode {
	return Episode{
		Title:  title,
		URL:    fmt.Sprintf("%s/season/%s/episode/%s", show.URL, seasonID, dataID),
		DataID: dataID,
		Poster: show.Poster,
	}
}

// StreamResult is the outcome of a single resolution call
type StreamResult struct {
	VideoURL     string
	SubtitleURLs []string
}

// EmptyStream returns the result shape used for every failed resolution
func EmptyStream() *StreamResult {
	return &StreamResult{SubtitleURLs: []string{}}
}

// Found reports whether a playable video URL was resolved
func (r *StreamResult) Found() bool {
	return r != nil && r.VideoURL != ""
}

// DisplayName returns a title with the year appended when known
func DisplayName(m Media) string {
	name := m.GetTitle()
	if y := m.GetYear(); y != "" {
		name += " (" + y + ")"
	}
	return name
}

// TypeLabel returns a short label for list rendering
func TypeLabel(m Media) string {
	switch m.Type() {
	case MediaTypeMovie:
		return "Movie"
	case MediaTypeTV:
		return "TV"
	default:
		return "Episode"
	}
}
