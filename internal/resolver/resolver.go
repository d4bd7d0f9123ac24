package resolver

import (
	"context"
	"log/slog"
	"strings"

	"poparch/internal/logging"
	"poparch/internal/tmdb"
)

const (
	// DefaultSimilarityThreshold is the minimum similarity (0..100) a candidate
	// needs to be considered plausible.
	DefaultSimilarityThreshold = 60.0
	// DefaultMaxCandidates caps the ambiguous candidate list.
	DefaultMaxCandidates = 5
)

// Config holds the explicit resolver settings.
type Config struct {
	APIKey              string
	SimilarityThreshold float64
	MaxCandidates       int
}

func (c Config) normalized() Config {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 100 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.MaxCandidates < 2 || c.MaxCandidates > DefaultMaxCandidates {
		c.MaxCandidates = DefaultMaxCandidates
	}
	return c
}

// Outcome holds exactly one of Match or Candidates after a successful Resolve.
type Outcome struct {
	Match      *Enrichment
	Candidates []Candidate
}

// Ambiguous reports whether the caller must pick among Candidates.
func (o Outcome) Ambiguous() bool {
	return o.Match == nil && len(o.Candidates) > 0
}

// Resolver performs TMDB lookups for watchlist titles.
type Resolver struct {
	cfg    Config
	client tmdb.Searcher
	logger *slog.Logger
}

// New constructs a Resolver. client may be nil when no API key is configured;
// every call then fails with KindNotConfigured.
func New(cfg Config, client tmdb.Searcher, logger *slog.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg.normalized(),
		client: client,
		logger: logging.NewComponentLogger(logger, "resolver"),
	}
}

// Configured reports whether the resolver can reach TMDB.
func (r *Resolver) Configured() bool {
	return r != nil && r.cfg.APIKey != "" && r.client != nil
}

// Resolve looks up title (and year when > 0) on TMDB.
func (r *Resolver) Resolve(ctx context.Context, title string, year int) (Outcome, error) {
	query := strings.TrimSpace(title)
	if !r.Configured() {
		rerr := NotConfigured("search")
		rerr.Query = query
		return Outcome{}, rerr
	}
	if query == "" {
		return Outcome{}, &Error{Kind: KindUnexpected, Op: "search", Err: errEmptyQuery}
	}

	results, err := r.search(ctx, query, year)
	if err != nil {
		return Outcome{}, err
	}
	broadened := false
	if len(results) == 0 && year > 0 {
		r.logger.Debug("no results with year filter; broadening search",
			logging.String("query", query),
			logging.Int("year", year))
		broadened = true
		if results, err = r.search(ctx, query, 0); err != nil {
			return Outcome{}, err
		}
	}
	if len(results) == 0 {
		return Outcome{}, &Error{Kind: KindNotFound, Op: "search", Query: query}
	}

	ranked := rankCandidates(query, year, results)
	r.logRanking(query, year, ranked)

	var pick Candidate
	if len(ranked) > 1 && year == 0 {
		plausible := filterPlausible(ranked, r.cfg.SimilarityThreshold)
		switch len(plausible) {
		case 0:
			pick = ranked[0]
			r.logger.Debug("no candidate above similarity threshold; accepting top ranked",
				logging.String("query", query),
				logging.String("title", pick.Title),
				logging.Float64("similarity", pick.Similarity))
		case 1:
			pick = plausible[0]
		default:
			if len(plausible) > r.cfg.MaxCandidates {
				plausible = plausible[:r.cfg.MaxCandidates]
			}
			r.logger.Info("ambiguous tmdb match",
				logging.String("query", query),
				logging.Int("candidates", len(plausible)))
			return Outcome{Candidates: plausible}, nil
		}
	} else {
		pick = ranked[0]
		if pick.Similarity < r.cfg.SimilarityThreshold && year > 0 && !broadened {
			r.logger.Debug("top match below similarity threshold; retrying without year",
				logging.String("query", query),
				logging.String("title", pick.Title),
				logging.Float64("similarity", pick.Similarity))
			wider, err := r.search(ctx, query, 0)
			if err != nil {
				return Outcome{}, err
			}
			if len(wider) > 0 {
				ranked = rankCandidates(query, year, wider)
				pick = ranked[0]
			}
		}
	}

	enrichment, err := r.Details(ctx, pick.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Match: enrichment}, nil
}

// Details fetches the full enrichment record for a TMDB movie id.
func (r *Resolver) Details(ctx context.Context, tmdbID int64) (*Enrichment, error) {
	if !r.Configured() {
		return nil, NotConfigured("details")
	}
	details, err := r.client.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		return nil, classifyRequestError("details", "", err)
	}
	if details == nil {
		return nil, &Error{Kind: KindNotFound, Op: "details"}
	}
	enrichment := buildEnrichment(details)
	r.logger.Debug("tmdb details fetched",
		logging.Int64("tmdb_id", enrichment.TMDBID),
		logging.String("title", enrichment.Title),
		logging.Int("year", enrichment.Year))
	return &enrichment, nil
}

func (r *Resolver) search(ctx context.Context, query string, year int) ([]tmdb.Result, error) {
	resp, err := r.client.SearchMovie(ctx, query, tmdb.SearchOptions{Year: year})
	if err != nil {
		return nil, classifyRequestError("search", query, err)
	}
	if resp == nil {
		return nil, nil
	}
	return resp.Results, nil
}

func (r *Resolver) logRanking(query string, year int, ranked []Candidate) {
	if !r.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for idx, candidate := range ranked {
		r.logger.Debug("ranked tmdb candidate",
			logging.String("query", query),
			logging.Int("year_hint", year),
			logging.Int("rank", idx),
			logging.Int64("tmdb_id", candidate.ID),
			logging.String("title", candidate.Title),
			logging.Int("year", candidate.Year),
			logging.Float64("popularity", candidate.Popularity),
			logging.Float64("similarity", candidate.Similarity))
	}
}
