// Package scraper resolves FlixHQ-style catalog pages into movies, shows,
// episodes and playable stream URLs.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
	"github.com/leoallday/movwatch/internal/models"
	"github.com/leoallday/movwatch/internal/util"
)

const (
	DefaultBaseURL    = "https://flixhq.to"
	DefaultDecoderURL = "https://dec.eatmynerds.live"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	maxBodySize = 8 << 20
)

// Options configures a Client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL           string
	DecoderURL        string
	UserAgent         string
	HTTPClient        *http.Client
	Retries           int
	RetryDelay        time.Duration
	SubtitleLanguages []string
}

// Client talks to the catalog site and the decoder service. It keeps no state
// between calls beyond its configuration.
type Client struct {
	client     *http.Client
	baseURL    string
	decoderURL string
	userAgent  string
	maxRetries int
	retryDelay time.Duration
	languages  []string
}

// NewClient creates a new catalog client
func NewClient(opts Options) *Client {
	c := &Client{
		client:     opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		decoderURL: opts.DecoderURL,
		userAgent:  opts.UserAgent,
		maxRetries: opts.Retries,
		retryDelay: opts.RetryDelay,
		languages:  opts.SubtitleLanguages,
	}
	if c.client == nil {
		c.client = util.NewHTTPClient(util.ClientOptions{})
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.decoderURL == "" {
		c.decoderURL = DefaultDecoderURL
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if len(c.languages) == 0 {
		c.languages = DefaultSubtitleLanguages
	}
	return c
}

// SubtitleLanguages returns the default subtitle preference order
func (c *Client) SubtitleLanguages() []string {
	return append([]string(nil), c.languages...)
}

// Search returns up to ten movies and shows matching query, in page order.
// A page without result cards yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, query string) ([]models.Media, error) {
	const op = "search"

	slug := util.SearchSlug(query)
	if slug == "" {
		return []models.Media{}, notFound(op, "empty query")
	}

	searchURL := fmt.Sprintf("%s/search/%s", c.baseURL, url.PathEscape(slug))
	util.Debug("Search", "query", query, "url", searchURL)

	doc, err := c.fetchDocument(ctx, op, searchURL)
	if err != nil {
		return []models.Media{}, err
	}
	if isChallengePage(doc) {
		return []models.Media{}, shapeError(op, "site returned a challenge page")
	}

	results := parseSearchResults(doc, c.baseURL)
	util.Debug("Search finished", "query", query, "results", len(results))
	return results, nil
}

// ListEpisodes fills show.Seasons. On failure the show is returned with
// whatever seasons were completed, together with the error, and is marked
// Partial. A fully listed show is returned untouched; a partial one is
// listed again from scratch.
func (c *Client) ListEpisodes(ctx context.Context, show *models.TVShow) (*models.TVShow, error) {
	const op = "list episodes"

	if show == nil {
		return nil, notFound(op, "no show given")
	}
	if len(show.Seasons) > 0 && !show.Partial {
		return show, nil
	}
	show.Seasons = nil
	show.Partial = true

	showID, ok := extractShowID(show.URL)
	if !ok {
		util.Debug("Could not extract show id", "url", show.URL)
		return show, notFound(op, "no show id in %q", show.URL)
	}

	seasonsURL := fmt.Sprintf("%s/ajax/v2/tv/seasons/%s", c.baseURL, showID)
	util.Debug("Fetching seasons", "show", show.Title, "url", seasonsURL)
	doc, err := c.fetchDocument(ctx, op, seasonsURL)
	if err != nil {
		return show, err
	}
	if isChallengePage(doc) {
		return show, shapeError(op, "site returned a challenge page")
	}

	refs := parseSeasons(doc)
	if len(refs) == 0 {
		util.Debug("No seasons listed, using a single empty season", "show", show.Title)
		show.Seasons = append(show.Seasons, models.Season{Title: defaultSeason})
		return show, nil
	}

	for _, ref := range refs {
		episodesURL := fmt.Sprintf("%s/ajax/v2/season/episodes/%s", c.baseURL, ref.ID)
		epDoc, err := c.fetchDocument(ctx, op, episodesURL)
		if err != nil {
			util.Debug("Stopping episode listing", "season", ref.Title, "error", err)
			return show, err
		}
		if isChallengePage(epDoc) {
			return show, shapeError(op, "site returned a challenge page")
		}

		season := models.Season{ID: ref.ID, Title: ref.Title, Episodes: []models.Episode{}}
		for _, ep := range parseEpisodes(epDoc) {
			season.Episodes = append(season.Episodes, models.NewEpisode(show, ref.ID, ep.DataID, ep.Title))
		}
		util.Debug("Season listed", "season", ref.Title, "episodes", len(season.Episodes))
		show.Seasons = append(show.Seasons, season)
	}

	show.Partial = false
	return show, nil
}

// ResolveStream resolves a movie or episode using the configured subtitle languages
func (c *Client) ResolveStream(ctx context.Context, media models.Media) (*models.StreamResult, error) {
	return c.ResolveStreamWithLanguages(ctx, media, c.languages)
}

// ResolveStreamWithLanguages maps a movie or episode to a playable HLS URL and
// subtitle URLs ordered by languages. The result is never nil; when err is
// non-nil it is empty.
func (c *Client) ResolveStreamWithLanguages(ctx context.Context, media models.Media, languages []string) (*models.StreamResult, error) {
	var (
		serverID string
		err      error
	)

	switch m := media.(type) {
	case *models.Movie:
		if m == nil {
			err = notFound("resolve", "no movie given")
			break
		}
		serverID, err = c.movieServerID(ctx, m)
	case *models.Episode:
		if m == nil {
			err = notFound("resolve", "no episode given")
			break
		}
		serverID, err = c.episodeServerID(ctx, m)
	default:
		err = notFound("resolve", "%T cannot be resolved to a stream", media)
	}
	if err != nil {
		util.Debug("Stream resolution failed", "error", err)
		return models.EmptyStream(), err
	}

	embed, err := c.embedLink(ctx, serverID)
	if err != nil {
		util.Debug("Embed link lookup failed", "server", serverID, "error", err)
		return models.EmptyStream(), err
	}

	return c.decode(ctx, embed, languages)
}

func (c *Client) movieServerID(ctx context.Context, movie *models.Movie) (string, error) {
	const op = "movie servers"

	mediaID, ok := extractMediaID(movie.URL)
	if !ok {
		return "", notFound(op, "no media id in %q", movie.URL)
	}

	serversURL := fmt.Sprintf("%s/ajax/movie/episodes/%s", c.baseURL, mediaID)
	util.Debug("Fetching movie servers", "title", movie.Title, "url", serversURL)
	doc, err := c.fetchDocument(ctx, op, serversURL)
	if err != nil {
		return "", err
	}

	server, ok := selectServer(parseMovieServers(doc))
	if !ok {
		return "", notFound(op, "no servers listed for media %s", mediaID)
	}
	util.Debug("Selected movie server", "name", server.Name, "id", server.ID)
	return server.ID, nil
}

func (c *Client) episodeServerID(ctx context.Context, episode *models.Episode) (string, error) {
	const op = "episode servers"

	dataID, ok := extractEpisodeDataID(episode.URL)
	if !ok {
		return "", notFound(op, "no episode data id in %q", episode.URL)
	}

	serversURL := fmt.Sprintf("%s/ajax/v2/episode/servers/%s", c.baseURL, dataID)
	util.Debug("Fetching episode servers", "title", episode.Title, "url", serversURL)
	body, err := c.fetch(ctx, op, serversURL)
	if err != nil {
		return "", err
	}

	server, ok := selectServer(parseEpisodeServers(body))
	if !ok {
		return "", notFound(op, "no servers listed for episode %s", dataID)
	}
	util.Debug("Selected episode server", "name", server.Name, "id", server.ID)
	return server.ID, nil
}

func (c *Client) embedLink(ctx context.Context, serverID string) (string, error) {
	const op = "embed link"

	sourcesURL := fmt.Sprintf("%s/ajax/episode/sources/%s", c.baseURL, serverID)
	body, err := c.fetch(ctx, op, sourcesURL)
	if err != nil {
		return "", err
	}

	link, ok := extractEmbedLink(body)
	if !ok || link == "" {
		return "", shapeError(op, "no link field in sources response for %s", serverID)
	}
	return link, nil
}

// Helper methods

func (c *Client) decorateRequest(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "text/html,application/json,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.baseURL+"/")
}

func (c *Client) fetchDocument(ctx context.Context, op, pageURL string) (*goquery.Document, error) {
	body, err := c.fetch(ctx, op, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, shapeError(op, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// fetch performs a GET with bounded retries on network errors and 5xx/429
func (c *Client) fetch(ctx context.Context, op, pageURL string) (string, error) {
	var body string
	err := retry.Do(
		func() error {
			b, err := c.get(ctx, pageURL)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries+1)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			util.Debug("Retrying request", "url", pageURL, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return "", transportError(op, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	c.decorateRequest(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{Code: resp.StatusCode, Status: resp.Status, URL: pageURL}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.Code >= 500 || se.Code == http.StatusTooManyRequests
	}
	return true
}
