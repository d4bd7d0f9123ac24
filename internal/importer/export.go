package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"poparch/internal/library"
	"poparch/internal/services"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var csvHeader = []string{"name", "watched", "rating", "genre", "director", "score"}

// FormatForPath picks JSON for a .json extension and CSV otherwise.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// ParseFormat validates a user supplied format name.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", services.Wrap(services.ErrValidation, "importer", "export", fmt.Sprintf("unsupported format %q (want csv or json)", value), nil)
	}
}

// Export writes movies to path in format. The file is replaced atomically.
func (i *Importer) Export(path string, format Format, movies []*library.Movie) error {
	dir := filepath.Dir(path)
	if err := i.fs.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrStorage, "importer", "export", "create export directory", err)
	}
	tmp, err := afero.TempFile(i.fs, dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return services.Wrap(services.ErrStorage, "importer", "export", "create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = i.fs.Remove(tmpName)
	}

	switch format {
	case FormatJSON:
		err = WriteJSON(tmp, movies)
	default:
		err = WriteCSV(tmp, movies)
	}
	if err != nil {
		cleanup()
		return services.Wrap(services.ErrStorage, "importer", "export", "write export", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return services.Wrap(services.ErrStorage, "importer", "export", "sync export", err)
	}
	if err := tmp.Close(); err != nil {
		_ = i.fs.Remove(tmpName)
		return services.Wrap(services.ErrStorage, "importer", "export", "close export", err)
	}
	if err := i.fs.Chmod(tmpName, 0o644); err != nil && !os.IsNotExist(err) {
		_ = i.fs.Remove(tmpName)
		return services.Wrap(services.ErrStorage, "importer", "export", "chmod export", err)
	}
	if err := i.fs.Rename(tmpName, path); err != nil {
		_ = i.fs.Remove(tmpName)
		return services.Wrap(services.ErrStorage, "importer", "export", "rename export", err)
	}
	return nil
}

// WriteCSV encodes movies with a name column that re-imports losslessly.
func WriteCSV(w io.Writer, movies []*library.Movie) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, movie := range movies {
		if movie == nil {
			continue
		}
		row := []string{
			movie.Label(),
			strconv.FormatBool(movie.Watched),
			optionalInt(movie.UserRating),
			movie.Genre,
			movie.Director,
			optionalScore(movie.Score),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type exportRecord struct {
	Title            string     `json:"title"`
	Year             int        `json:"year"`
	Watched          bool       `json:"watched"`
	WatchedAt        *time.Time `json:"watched_at,omitempty"`
	UserRating       int        `json:"user_rating,omitempty"`
	TMDBID           int64      `json:"tmdb_id,omitempty"`
	IMDBID           string     `json:"imdb_id,omitempty"`
	Genre            string     `json:"genre,omitempty"`
	Director         string     `json:"director,omitempty"`
	Writer           string     `json:"writer,omitempty"`
	Cinematographer  string     `json:"cinematographer,omitempty"`
	Cast             string     `json:"cast,omitempty"`
	Keywords         string     `json:"keywords,omitempty"`
	Collection       string     `json:"collection,omitempty"`
	Plot             string     `json:"plot,omitempty"`
	Tagline          string     `json:"tagline,omitempty"`
	Runtime          int        `json:"runtime,omitempty"`
	Score            float64    `json:"score,omitempty"`
	VoteCount        int64      `json:"vote_count,omitempty"`
	Popularity       float64    `json:"popularity,omitempty"`
	Budget           int64      `json:"budget,omitempty"`
	Revenue          int64      `json:"revenue,omitempty"`
	PosterPath       string     `json:"poster_path,omitempty"`
	ReleaseDate      string     `json:"release_date,omitempty"`
	OriginalLanguage string     `json:"original_language,omitempty"`
	EnrichedAt       *time.Time `json:"enriched_at,omitempty"`
	AddedAt          time.Time  `json:"added_at"`
}

// WriteJSON encodes the full records as an indented JSON array.
func WriteJSON(w io.Writer, movies []*library.Movie) error {
	records := make([]exportRecord, 0, len(movies))
	for _, m := range movies {
		if m == nil {
			continue
		}
		records = append(records, exportRecord{
			Title:            m.Title,
			Year:             m.Year,
			Watched:          m.Watched,
			WatchedAt:        m.WatchedAt,
			UserRating:       m.UserRating,
			TMDBID:           m.TMDBID,
			IMDBID:           m.IMDBID,
			Genre:            m.Genre,
			Director:         m.Director,
			Writer:           m.Writer,
			Cinematographer:  m.Cinematographer,
			Cast:             m.Cast,
			Keywords:         m.Keywords,
			Collection:       m.Collection,
			Plot:             m.Plot,
			Tagline:          m.Tagline,
			Runtime:          m.Runtime,
			Score:            m.Score,
			VoteCount:        m.VoteCount,
			Popularity:       m.Popularity,
			Budget:           m.Budget,
			Revenue:          m.Revenue,
			PosterPath:       m.PosterPath,
			ReleaseDate:      m.ReleaseDate,
			OriginalLanguage: m.OriginalLanguage,
			EnrichedAt:       m.EnrichedAt,
			AddedAt:          m.AddedAt,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

func optionalInt(value int) string {
	if value == 0 {
		return ""
	}
	return strconv.Itoa(value)
}

func optionalScore(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}
