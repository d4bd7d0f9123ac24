package importer

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"

	"poparch/internal/services"
	"poparch/internal/titleparse"
)

const letterboxdRatingsFile = "ratings.csv"

// ErrNoRatings is returned when a ZIP archive carries no ratings.csv.
var ErrNoRatings = errors.New("letterboxd export has no ratings.csv")

// ReadLetterboxd reads ratings.csv from a Letterboxd export archive. Every
// entry is marked watched; the 0.5..5 star rating is doubled to 1..10.
func (i *Importer) ReadLetterboxd(archivePath string) (Batch, error) {
	file, err := i.fs.Open(archivePath)
	if err != nil {
		return Batch{}, sourceError("read letterboxd", archivePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Batch{}, sourceError("read letterboxd", archivePath, err)
	}
	archive, err := zip.NewReader(file, info.Size())
	if err != nil {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "read letterboxd", "open zip archive", err)
	}

	var ratings *zip.File
	for _, entry := range archive.File {
		if strings.EqualFold(path.Base(entry.Name), letterboxdRatingsFile) {
			ratings = entry
			break
		}
	}
	if ratings == nil {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "read letterboxd", archivePath, ErrNoRatings)
	}

	rc, err := ratings.Open()
	if err != nil {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "read letterboxd", "open ratings.csv", err)
	}
	defer rc.Close()

	batch, err := parseLetterboxdRatings(rc)
	if err != nil {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "read letterboxd", "parse ratings.csv", err)
	}
	batch.Source = archivePath
	return batch, nil
}

func parseLetterboxdRatings(r io.Reader) (Batch, error) {
	reader := newCSVReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Batch{}, nil
	}
	if err != nil {
		return Batch{}, err
	}
	nameCol := columnIndex(header, "Name")
	yearCol := columnIndex(header, "Year")
	ratingCol := columnIndex(header, "Rating")
	if nameCol < 0 || yearCol < 0 {
		return Batch{}, fmt.Errorf("ratings.csv header %q lacks Name and Year columns", strings.Join(header, ","))
	}

	var batch Batch
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, err
		}
		name := cell(record, nameCol)
		year := cell(record, yearCol)
		if name == "" && year == "" {
			continue
		}
		raw := fmt.Sprintf("%s (%s)", name, year)
		title, ok := titleparse.Parse(raw)
		if !ok {
			batch.Rejected = append(batch.Rejected, raw)
			continue
		}
		batch.Entries = append(batch.Entries, Entry{
			Title:   title,
			Watched: true,
			Rating:  starsToRating(cell(record, ratingCol)),
		})
	}
	return batch, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// starsToRating maps a Letterboxd star value (0.5 steps up to 5) onto 1..10.
// Blank or unparsable values yield 0.
func starsToRating(value string) int {
	stars, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || stars <= 0 {
		return 0
	}
	rating := int(math.Round(stars * 2))
	return min(max(rating, 1), 10)
}
