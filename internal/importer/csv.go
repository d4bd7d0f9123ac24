package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"poparch/internal/services"
)

const nameColumn = "name"

// ReadCSV reads candidate titles from the "name" column of a CSV file. When no
// header cell is called "name" the first column is used. The first row is
// always treated as a header.
func (i *Importer) ReadCSV(path string) (Batch, error) {
	file, err := i.fs.Open(path)
	if err != nil {
		return Batch{}, sourceError("read csv", path, err)
	}
	defer file.Close()

	raw, err := readNameColumn(file)
	if err != nil {
		return Batch{}, services.Wrap(services.ErrValidation, "importer", "read csv", path, err)
	}
	return partition(path, raw), nil
}

func readNameColumn(r io.Reader) ([]string, error) {
	reader := newCSVReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	column := columnIndex(header, nameColumn)
	if column < 0 {
		column = 0
	}

	var values []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if column >= len(record) {
			continue
		}
		values = append(values, record[column])
	}
	return values, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

// columnIndex finds name in header ignoring case and a leading byte order mark.
func columnIndex(header []string, name string) int {
	for idx, cell := range header {
		cell = strings.TrimPrefix(cell, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(cell), name) {
			return idx
		}
	}
	return -1
}
