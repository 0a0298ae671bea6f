package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/watchdeck/internal/domain/model"
	"github.com/ericfisherdev/watchdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CatalogClient = (*Client)(nil)

// KeySource supplies the API key for each request. The application's key
// provider satisfies it, so a login or logout swaps the key mid-flight
// without rebuilding the client.
type KeySource interface {
	Key() string
}

// Client implements the driven.CatalogClient port against a TMDB-compatible
// REST API. Responses go through an in-memory ETag cache, so repeated
// listings of slow-moving endpoints cost a conditional request.
type Client struct {
	baseURL  string
	language string
	keys     KeySource
	http     *http.Client
}

// NewClient creates a catalog client. language is passed through on every
// request ("en-US", "ko-KR", ...).
func NewClient(baseURL, language string, keys KeySource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		keys:     keys,
		http:     httpcache.NewMemoryCacheTransport().Client(),
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server's client without the caching transport.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, language string, keys KeySource) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		keys:     keys,
		http:     httpClient,
	}
}

// movieDoc is the wire shape of a catalog item. Only the retained fields
// are mapped; the upstream payload carries many more.
type movieDoc struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
}

// listResponse is the standard paginated envelope of the catalog API.
type listResponse struct {
	Results []movieDoc `json:"results"`
}

// get issues an authenticated GET against path with the given extra query
// parameters and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.keys.Key())
	query.Set("language", c.language)

	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build catalog request %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("catalog request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode catalog response %s: %w", path, err)
	}
	return nil
}

// list fetches a paginated movie listing and maps it to domain movies.
func (c *Client) list(ctx context.Context, path string, query url.Values, page int) ([]model.Movie, error) {
	if query == nil {
		query = url.Values{}
	}
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	var body listResponse
	if err := c.get(ctx, path, query, &body); err != nil {
		return nil, err
	}

	movies := make([]model.Movie, 0, len(body.Results))
	for _, doc := range body.Results {
		movies = append(movies, model.Movie(doc))
	}
	return movies, nil
}

// Popular returns the popular listing for the given page.
func (c *Client) Popular(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/popular", nil, page)
}

// NowPlaying returns the now-playing listing for the given page.
func (c *Client) NowPlaying(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/now_playing", nil, page)
}

// TopRated returns the top-rated listing for the given page.
func (c *Client) TopRated(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/top_rated", nil, page)
}

// Upcoming returns the upcoming listing for the given page.
func (c *Client) Upcoming(ctx context.Context, page int) ([]model.Movie, error) {
	return c.list(ctx, "/movie/upcoming", nil, page)
}

// DiscoverByGenre returns movies filtered by a single genre id.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int64, page int) ([]model.Movie, error) {
	query := url.Values{}
	query.Set("with_genres", strconv.FormatInt(genreID, 10))
	return c.list(ctx, "/discover/movie", query, page)
}

// Search returns movies matching the free-text query.
func (c *Client) Search(ctx context.Context, searchQuery string, page int) ([]model.Movie, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	return c.list(ctx, "/search/movie", query, page)
}

// videoDoc is the wire shape of an attached video.
type videoDoc struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// TrailerKey returns the YouTube key of the first trailer attached to the
// movie, or "" when the movie has no YouTube trailer.
func (c *Client) TrailerKey(ctx context.Context, movieID int64) (string, error) {
	var body struct {
		Results []videoDoc `json:"results"`
	}
	path := fmt.Sprintf("/movie/%d/videos", movieID)
	if err := c.get(ctx, path, nil, &body); err != nil {
		return "", err
	}

	for _, v := range body.Results {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v.Key, nil
		}
	}
	return "", nil
}
