package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/leoallday/movwatch/internal/models"
)

// Every assumption about the upstream markup lives in this file, one function
// per endpoint, so a layout change breaks a single extractor.

const (
	maxSearchResults = 10
	preferredServer  = "vidcloud"
	defaultSeason    = "Season 1"
	unknownTitle     = "Unknown Title"
	unknownEpisode   = "Unknown Episode"
)

var (
	// Loose on purpose: the last "-<digits>" of the first path segment carrying one.
	// Titles that end in a number can confuse it.
	mediaIDPattern     = regexp.MustCompile(`/[^/]*-(\d+)`)
	showIDPattern      = regexp.MustCompile(`/tv/[^/]*-(\d+)`)
	episodeIDPattern   = regexp.MustCompile(`/episode/(\d+)$`)
	seasonHrefPattern  = regexp.MustCompile(`/tv-series/[^"]+-(\d+)$`)
	trailingIDPattern  = regexp.MustCompile(`-(\d+)$`)
	episodeServerRegex = regexp.MustCompile(`data-id="(\d+)"[^>]*title="([^"]*)"`)
	embedLinkPattern   = regexp.MustCompile(`"link"\s*:\s*"([^"]*)"`)
)

// Server is an upstream hosting option for a movie or episode
type Server struct {
	ID   string
	Name string
}

// seasonRef is a season id/title pair read from the seasons fragment
type seasonRef struct {
	ID    string
	Title string
}

// episodeRef is a data id/title pair read from an episodes fragment
type episodeRef struct {
	DataID string
	Title  string
}

// extractMediaID returns the numeric id from a movie or generic media URL
func extractMediaID(rawURL string) (string, bool) {
	return firstGroup(mediaIDPattern, rawURL)
}

// extractShowID returns the numeric id from a /tv/ URL
func extractShowID(rawURL string) (string, bool) {
	return firstGroup(showIDPattern, rawURL)
}

// extractEpisodeDataID returns the data id carried by a synthetic episode URL
func extractEpisodeDataID(rawURL string) (string, bool) {
	return firstGroup(episodeIDPattern, rawURL)
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// isChallengePage detects anti-bot interstitials served instead of content
func isChallengePage(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	if strings.Contains(title, "just a moment") || strings.Contains(title, "attention required") {
		return true
	}
	return doc.Find("#cf-wrapper").Length() > 0 || doc.Find("#challenge-form").Length() > 0
}

// parseSearchResults reads up to ten item cards in document order
func parseSearchResults(doc *goquery.Document, baseURL string) []models.Media {
	results := []models.Media{}

	doc.Find("div.flw-item").Each(func(i int, item *goquery.Selection) {
		if i >= maxSearchResults {
			return
		}

		posterBox := item.Find("div.film-poster").First()
		detail := item.Find("div.film-detail").First()
		if posterBox.Length() == 0 || detail.Length() == 0 {
			return
		}

		link := posterBox.Find("a").First()
		titleElem := detail.Find("h2.film-name").First()
		if link.Length() == 0 || titleElem.Length() == 0 {
			return
		}

		href, _ := link.Attr("href")
		title := unknownTitle
		if titleLink := titleElem.Find("a").First(); titleLink.Length() > 0 {
			if t, ok := titleLink.Attr("title"); ok && strings.TrimSpace(t) != "" {
				title = strings.TrimSpace(t)
			} else if t := strings.TrimSpace(titleLink.Text()); t != "" {
				title = t
			}
		}

		year := strings.TrimSpace(detail.Find("div.fd-infor span").First().Text())
		poster, _ := item.Find("img.film-poster-img").First().Attr("data-src")
		absolute := resolveURL(baseURL, href)

		switch {
		case strings.Contains(href, "/movie/"):
			results = append(results, &models.Movie{Title: title, URL: absolute, Poster: poster, Year: year})
		case strings.Contains(href, "/tv/"):
			results = append(results, &models.TVShow{Title: title, URL: absolute, Poster: poster, Year: year})
		}
	})

	return results
}

// parseSeasons reads season anchors, preferring /tv-series/ links and falling
// back to dropdown items. The id comes from the href, or data-id when the href
// carries none.
func parseSeasons(doc *goquery.Document) []seasonRef {
	anchors := doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		return seasonHrefPattern.MatchString(href)
	})
	if anchors.Length() == 0 {
		anchors = doc.Find("a.dropdown-item")
	}

	seasons := []seasonRef{}
	anchors.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		id, ok := firstGroup(trailingIDPattern, href)
		if !ok {
			id, _ = s.Attr("data-id")
			id = strings.TrimSpace(id)
		}
		if id == "" {
			return
		}
		seasons = append(seasons, seasonRef{ID: id, Title: strings.TrimSpace(s.Text())})
	})
	return seasons
}

// parseEpisodes reads episode anchors; anchors without data-id are skipped
func parseEpisodes(doc *goquery.Document) []episodeRef {
	episodes := []episodeRef{}
	doc.Find("a.eps-item").Each(func(_ int, s *goquery.Selection) {
		dataID, _ := s.Attr("data-id")
		dataID = strings.TrimSpace(dataID)
		if dataID == "" {
			return
		}
		title, ok := s.Attr("title")
		title = strings.TrimSpace(title)
		if !ok || title == "" {
			title = unknownEpisode
		}
		episodes = append(episodes, episodeRef{DataID: dataID, Title: title})
	})
	return episodes
}

// parseMovieServers reads the server anchors of a movie
func parseMovieServers(doc *goquery.Document) []Server {
	servers := []Server{}
	doc.Find("a.link-item").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-linkid")
		if id == "" {
			id, _ = s.Attr("data-id")
		}
		if id == "" {
			return
		}
		name, _ := s.Attr("title")
		servers = append(servers, Server{ID: id, Name: strings.TrimSpace(name)})
	})
	return servers
}

// parseEpisodeServers reads the episode servers fragment, which is not
// reliably DOM-parseable: every server block is moved onto its own line and
// matched as text.
func parseEpisodeServers(body string) []Server {
	content := strings.ReplaceAll(body, "\n", "")
	content = strings.ReplaceAll(content, `class="nav-item"`, "\n"+`class="nav-item"`)

	servers := []Server{}
	for _, m := range episodeServerRegex.FindAllStringSubmatch(content, -1) {
		servers = append(servers, Server{ID: m[1], Name: strings.TrimSpace(m[2])})
	}
	return servers
}

// selectServer prefers a server whose name contains "vidcloud", else the first one
func selectServer(servers []Server) (Server, bool) {
	for _, s := range servers {
		if strings.Contains(strings.ToLower(s.Name), preferredServer) {
			return s, true
		}
	}
	if len(servers) > 0 {
		return servers[0], true
	}
	return Server{}, false
}

// extractEmbedLink pulls the "link" field out of the sources response by text search
func extractEmbedLink(body string) (string, bool) {
	link, ok := firstGroup(embedLinkPattern, body)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(link, `\/`, "/"), true
}

func resolveURL(baseURL, ref string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(r).String()
}
