package scraper

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/util"
)

// DefaultSubtitleLanguages is the preference order used when none is configured
var DefaultSubtitleLanguages = []string{"arabic", "english"}

type decoderSource struct {
	File    string `json:"file"`
	Type    string `json:"type"`
	Quality string `json:"quality"`
}

type decoderTrack struct {
	File    string `json:"file"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Default bool   `json:"default"`
}

type decoderResponse struct {
	Sources []decoderSource `json:"sources"`
	Tracks  []decoderTrack  `json:"tracks"`
}

// decode asks the external decoder service to turn an embed link into sources
func (c *Client) decode(ctx context.Context, embedLink string, languages []string) (*models.StreamResult, error) {
	const op = "decode"

	decoderURL, err := url.Parse(c.decoderURL)
	if err != nil {
		return models.EmptyStream(), shapeError(op, "invalid decoder url %q: %v", c.decoderURL, err)
	}
	q := decoderURL.Query()
	q.Set("url", embedLink)
	decoderURL.RawQuery = q.Encode()

	util.Debug("Decoding embed link", "embed", embedLink)
	body, err := c.fetch(ctx, op, decoderURL.String())
	if err != nil {
		return models.EmptyStream(), err
	}

	var payload decoderResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		util.Debug("Decoder returned invalid JSON", "error", err)
		return models.EmptyStream(), shapeError(op, "invalid decoder response: %v", err)
	}

	video, ok := pickVideoSource(payload.Sources)
	if !ok {
		util.Debug("No .m3u8 source in decoder response", "sources", len(payload.Sources))
		return models.EmptyStream(), notFound(op, "no .m3u8 source among %d sources", len(payload.Sources))
	}

	subs := pickSubtitles(payload.Tracks, languages)
	util.Debug("Resolved stream", "video", video, "subtitles", len(subs))
	return &models.StreamResult{VideoURL: video, SubtitleURLs: subs}, nil
}

// pickVideoSource returns the first source whose file is an HLS playlist
func pickVideoSource(sources []decoderSource) (string, bool) {
	for _, s := range sources {
		if s.File != "" && strings.Contains(s.File, ".m3u8") {
			return s.File, true
		}
	}
	return "", false
}

// pickSubtitles keeps at most one track per preferred language, in preference
// order. A track fills at most one language slot.
func pickSubtitles(tracks []decoderTrack, languages []string) []string {
	prefs := normalizeLanguages(languages)
	found := make(map[string]string, len(prefs))

	for _, track := range tracks {
		if track.File == "" || track.Label == "" {
			continue
		}
		label := strings.ToLower(track.Label)
		for _, lang := range prefs {
			if _, taken := found[lang]; taken || !strings.Contains(label, lang) {
				continue
			}
			found[lang] = track.File
			break
		}
	}

	subs := []string{}
	for _, lang := range prefs {
		if file, ok := found[lang]; ok {
			subs = append(subs, file)
		}
	}
	return subs
}

func normalizeLanguages(languages []string) []string {
	seen := make(map[string]bool, len(languages))
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
