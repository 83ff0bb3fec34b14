package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractIDs(t *testing.T) {
	tests := []struct {
		name    string
		extract func(string) (string, bool)
		url     string
		want    string
		ok      bool
	}{
		{"movie id", extractMediaID, "https://flixhq.to/movie/watch-dune-12345", "12345", true},
		{"movie without id", extractMediaID, "https://flixhq.to/movie/dune", "", false},
		{"show id", extractShowID, "https://flixhq.to/tv/watch-breaking-bad-39506", "39506", true},
		{"show id ignores movie urls", extractShowID, "https://flixhq.to/movie/watch-dune-12345", "", false},
		{"episode data id", extractEpisodeDataID, "https://flixhq.to/tv/x-1/season/3/episode/998", "998", true},
		{"episode id must be last", extractEpisodeDataID, "https://flixhq.to/tv/x-1/season/3/episode/998/extra", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.extract(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSearchResultsCapsAtTen(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 14; i++ {
		b.WriteString(`<div class="flw-item"><div class="film-poster"><a href="/movie/watch-m-1"></a></div>` +
			`<div class="film-detail"><h2 class="film-name"><a title="M">M</a></h2></div></div>`)
	}
	b.WriteString("</body></html>")

	results := parseSearchResults(mustDoc(t, b.String()), "https://flixhq.to")
	assert.Len(t, results, 10)
}

func TestParseSearchResultsSkipsIncompleteCards(t *testing.T) {
	html := `<html><body>
	<div class="flw-item"><div class="film-detail"><h2 class="film-name"><a>No poster</a></h2></div></div>
	<div class="flw-item"><div class="film-poster"><a href="/person/x-1"></a></div>
	  <div class="film-detail"><h2 class="film-name"><a>Not media</a></h2></div></div>
	<div class="flw-item"><div class="film-poster"><a href="/tv/watch-x-2"></a></div>
	  <div class="film-detail"><h2 class="film-name"><a></a></h2></div></div>
	</body></html>`

	results := parseSearchResults(mustDoc(t, html), "https://flixhq.to")
	require.Len(t, results, 1)
	assert.Equal(t, "Unknown Title", results[0].GetTitle())
	assert.Equal(t, "https://flixhq.to/tv/watch-x-2", results[0].GetURL())
}

func TestParseSeasons(t *testing.T) {
	t.Run("tv-series links win", func(t *testing.T) {
		doc := mustDoc(t, `<a href="/tv-series/show-11">Season 1</a><a class="dropdown-item" data-id="99">Other</a>`)
		assert.Equal(t, []seasonRef{{ID: "11", Title: "Season 1"}}, parseSeasons(doc))
	})

	t.Run("dropdown fallback uses data-id", func(t *testing.T) {
		doc := mustDoc(t, `<a class="dropdown-item" data-id="55" href="#">Season 1</a><a class="dropdown-item">Broken</a>`)
		assert.Equal(t, []seasonRef{{ID: "55", Title: "Season 1"}}, parseSeasons(doc))
	})

	t.Run("nothing listed", func(t *testing.T) {
		assert.Empty(t, parseSeasons(mustDoc(t, `<div></div>`)))
	})
}

func TestParseEpisodes(t *testing.T) {
	doc := mustDoc(t, `<a class="eps-item" data-id="1" title="Eps 1: A">1</a><a class="eps-item">skip</a><a class="eps-item" data-id="3">3</a>`)
	assert.Equal(t, []episodeRef{
		{DataID: "1", Title: "Eps 1: A"},
		{DataID: "3", Title: "Unknown Episode"},
	}, parseEpisodes(doc))
}

func TestParseMovieServers(t *testing.T) {
	doc := mustDoc(t, `<a class="link-item" data-linkid="7" title="UpCloud">u</a><a class="link-item" title="Empty">e</a>`)
	assert.Equal(t, []Server{{ID: "7", Name: "UpCloud"}}, parseMovieServers(doc))
}

func TestParseEpisodeServers(t *testing.T) {
	body := "<div>\n<li class=\"nav-item\"><a\n data-id=\"10\" class=\"x\" title=\"Server UpCloud\"></a></li>" +
		"<li class=\"nav-item\"><a data-id=\"20\" title=\"Server Vidcloud\"></a></li></div>"

	servers := parseEpisodeServers(body)
	assert.Equal(t, []Server{{ID: "10", Name: "Server UpCloud"}, {ID: "20", Name: "Server Vidcloud"}}, servers)
	assert.Empty(t, parseEpisodeServers("<div>nothing</div>"))
}

func TestSelectServer(t *testing.T) {
	s, ok := selectServer([]Server{{ID: "1", Name: "UpCloud"}, {ID: "2", Name: "VIDCLOUD"}})
	assert.True(t, ok)
	assert.Equal(t, "2", s.ID)

	s, ok = selectServer([]Server{{ID: "1", Name: "UpCloud"}, {ID: "3", Name: "MixDrop"}})
	assert.True(t, ok)
	assert.Equal(t, "1", s.ID)

	_, ok = selectServer(nil)
	assert.False(t, ok)
}

func TestExtractEmbedLink(t *testing.T) {
	link, ok := extractEmbedLink(`{"type":"iframe","link" : "https:\/\/rabbit.example\/embed-4\/abc?z=","sources":[]}`)
	assert.True(t, ok)
	assert.Equal(t, "https://rabbit.example/embed-4/abc?z=", link)

	_, ok = extractEmbedLink(`{"type":"iframe"}`)
	assert.False(t, ok)
}

func TestIsChallengePage(t *testing.T) {
	assert.True(t, isChallengePage(mustDoc(t, `<html><head><title>Attention Required! | Cloudflare</title></head></html>`)))
	assert.True(t, isChallengePage(mustDoc(t, `<div id="cf-wrapper"></div>`)))
	assert.False(t, isChallengePage(mustDoc(t, searchPage)))
}
