package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"poparch/internal/library"
	"poparch/internal/services"
	"poparch/internal/titleparse"
)

// Entry is one parsed movie ready to persist.
type Entry struct {
	Title   titleparse.Title
	Watched bool
	// Rating is 1..10, or 0 when the source carried none.
	Rating int
}

// Batch is the outcome of reading one source.
type Batch struct {
	Source   string
	Entries  []Entry
	Rejected []string
}

// Titles returns the (title, year) pairs for bulk insertion.
func (b Batch) Titles() []library.TitleYear {
	out := make([]library.TitleYear, 0, len(b.Entries))
	for _, entry := range b.Entries {
		out = append(out, library.TitleYear{Title: entry.Title.Name, Year: entry.Title.Year})
	}
	return out
}

// Empty reports whether the batch holds nothing to add.
func (b Batch) Empty() bool {
	return len(b.Entries) == 0
}

// Importer reads and writes watchlist files on a filesystem.
type Importer struct {
	fs afero.Fs
}

// New returns an Importer on fs. A nil fs selects the OS filesystem.
func New(fs afero.Fs) *Importer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Importer{fs: fs}
}

// Scan lists the top-level directories of root and parses their names.
// Hidden directories and regular files are ignored.
func (i *Importer) Scan(root string) (Batch, error) {
	info, err := i.fs.Stat(root)
	if err != nil {
		return Batch{}, sourceError("scan", root, err)
	}
	if !info.IsDir() {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "scan", fmt.Sprintf("%s is not a directory", root), nil)
	}
	entries, err := afero.ReadDir(i.fs, root)
	if err != nil {
		return Batch{}, sourceError("scan", root, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return partition(root, names), nil
}

// Load reads a CSV file or a Letterboxd export ZIP, chosen by extension.
func (i *Importer) Load(path string) (Batch, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return i.ReadLetterboxd(path)
	}
	return i.ReadCSV(path)
}

func partition(source string, raw []string) Batch {
	valid, rejected := titleparse.Partition(raw)
	batch := Batch{Source: source, Rejected: rejected}
	batch.Entries = make([]Entry, 0, len(valid))
	for _, title := range valid {
		batch.Entries = append(batch.Entries, Entry{Title: title})
	}
	return batch
}

func sourceError(operation, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "importer", operation, fmt.Sprintf("%s does not exist", path), err)
	}
	return services.Wrap(services.ErrValidation, "importer", operation, path, err)
}
