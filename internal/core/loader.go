package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/jobclean/internal/logging"
)

// LoadTable reads the CSV file at path into a Table.
// Returns *SourceNotFoundError if the path cannot be opened as a file.
func LoadTable(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &SourceNotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &SourceNotFoundError{Path: path, Err: errors.New("is a directory")}
	}

	src := wrapSource(f)
	t, err := readTable(src)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logging.WithFields(ctx, "path", path).Info("loaded table",
		"rows", t.NumRows(),
		"columns", t.NumCols(),
		"bytes", src.BytesRead(),
	)
	return t, nil
}

// ReadTable parses CSV from r. The first record is the header; column kinds
// are inferred from the cell text.
func ReadTable(r io.Reader) (*Table, error) {
	return readTable(wrapSource(r))
}

func readTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv header: %w", err)
	}

	names := UniqueHeaders(header)
	cells := make([][]string, len(names))

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		if len(rec) > len(names) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("invalid csv: line %d has %d fields, header has %d: %w",
				line, len(rec), len(names), csv.ErrFieldCount)
		}
		for j := range names {
			if j < len(rec) {
				cells[j] = append(cells[j], rec[j])
			} else {
				// Short rows are padded with missing cells.
				cells[j] = append(cells[j], "")
			}
		}
	}

	cols := make([]*Column, len(names))
	for j, name := range names {
		cols[j] = NewColumn(name, cells[j])
	}
	return NewTable(cols...)
}
