package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Result represents a single TMDB search match.
type Result struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	OriginalLanguage string  `json:"original_language"`
}

// Year returns the release year encoded in ReleaseDate, or 0 when unknown.
func (r Result) Year() int {
	return yearFromDate(r.ReleaseDate)
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CastMember is one billed cast entry.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew entry with its job title.
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// Credits groups cast and crew.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Keyword is a TMDB keyword tag.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Keywords wraps the keyword list returned for movies.
type Keywords struct {
	Keywords []Keyword `json:"keywords"`
}

// Collection is the franchise a movie belongs to.
type Collection struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetails is the detail payload including appended credits and keywords.
type MovieDetails struct {
	ID               int64       `json:"id"`
	IMDBID           string      `json:"imdb_id"`
	Title            string      `json:"title"`
	Overview         string      `json:"overview"`
	Tagline          string      `json:"tagline"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	Budget           int64       `json:"budget"`
	Revenue          int64       `json:"revenue"`
	Popularity       float64     `json:"popularity"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int64       `json:"vote_count"`
	PosterPath       string      `json:"poster_path"`
	OriginalLanguage string      `json:"original_language"`
	Genres           []Genre     `json:"genres"`
	Collection       *Collection `json:"belongs_to_collection"`
	Credits          Credits     `json:"credits"`
	Keywords         Keywords    `json:"keywords"`
}

// Year returns the release year encoded in ReleaseDate, or 0 when unknown.
func (d MovieDetails) Year() int {
	return yearFromDate(d.ReleaseDate)
}

// Searcher defines the TMDB operations used by the resolver.
type Searcher interface {
	SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error)
	GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error)
}

// StatusError reports a non-200 response from TMDB.
type StatusError struct {
	Operation  string
	StatusCode int
	Latency    time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned %d (latency=%v)", e.Operation, e.StatusCode, e.Latency)
}

// ErrDecode marks responses that could not be decoded.
var ErrDecode = errors.New("decode tmdb response")

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchOptions contains optional parameters for TMDB movie search.
type SearchOptions struct {
	Year int `json:"year,omitempty"`
}

// SearchMovie performs a TMDB movie search, narrowing by primary release year
// when opts.Year is set.
func (c *Client) SearchMovie(ctx context.Context, query string, opts SearchOptions) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	if opts.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(opts.Year))
	}

	var payload Response
	if err := c.getJSON(ctx, "search", "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetMovieDetails fetches movie details by TMDB ID with credits and keywords.
func (c *Client) GetMovieDetails(ctx context.Context, movieID int64) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords")

	var payload MovieDetails
	if err := c.getJSON(ctx, "movie details", fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, operation, path string, params url.Values, dest any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode, Latency: latency}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func yearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
