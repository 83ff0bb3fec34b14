package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/tracking"
	"github.com/leoallday/movwatch/internal/util"
)

const (
	favoriteAdd    = "☆ Add to favorites"
	favoriteRemove = "★ Remove from favorites"
	lastMarker     = "▶ "
)

// MediaLabel is the list line for a search result
func MediaLabel(m models.Media) string {
	return fmt.Sprintf("[%s] %s", models.TypeLabel(m), models.DisplayName(m))
}

func mediaPreview(m models.Media, width int) string {
	var b strings.Builder
	b.WriteString(util.Truncate(m.GetTitle(), width))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Type: %s\n", models.TypeLabel(m))
	if y := m.GetYear(); y != "" {
		fmt.Fprintf(&b, "Year: %s\n", y)
	}
	if u := m.GetURL(); u != "" {
		fmt.Fprintf(&b, "\n%s\n", util.Truncate(u, width))
	}
	return b.String()
}

// EpisodeItems lists a season for the episode picker. The first line toggles
// the favorite flag; the last watched episode is marked.
func EpisodeItems(season models.Season, lastWatched string, favorite bool) []string {
	items := make([]string, 0, len(season.Episodes)+1)
	if favorite {
		items = append(items, favoriteRemove)
	} else {
		items = append(items, favoriteAdd)
	}
	for _, ep := range season.Episodes {
		if lastWatched != "" && ep.Title == lastWatched {
			items = append(items, lastMarker+ep.Title+" (last watched)")
			continue
		}
		items = append(items, "  "+ep.Title)
	}
	return items
}

// SeasonLabel is the select line for a season
func SeasonLabel(season models.Season) string {
	return fmt.Sprintf("%s (%d episodes)", season.Title, len(season.Episodes))
}

// HistoryLabel is the list line for a history entry
func HistoryLabel(e tracking.HistoryEntry, now time.Time) string {
	return fmt.Sprintf("%s · %s · %s", e.Title, e.Episode, timeAgo(e.LastUpdated, now))
}

// FavoriteLabel is the list line for a favorite
func FavoriteLabel(f tracking.Favorite) string {
	return "★ " + f.Title
}

func timeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	}
	return t.Format("2006-01-02")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// ParseLanguages splits a comma separated language list
func ParseLanguages(input string) []string {
	var langs []string
	for _, part := range strings.Split(input, ",") {
		if lang := strings.ToLower(strings.TrimSpace(part)); lang != "" {
			langs = append(langs, lang)
		}
	}
	return langs
}
