package core

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/jobclean/internal/logging"
)

// WriteTable writes t as CSV to path, replacing any existing file.
// The table is written to a temporary file in the same directory and renamed
// into place, so path either holds the complete output or is untouched.
// Failures are returned as *DestinationWriteError.
func WriteTable(ctx context.Context, path string, t *Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := EncodeTable(tmp, t); err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &DestinationWriteError{Path: path, Err: err}
	}
	committed = true

	logging.FromContext(ctx).Info("saved cleaned table",
		"path", path,
		"rows", t.NumRows(),
		"columns", t.NumCols(),
	)
	return nil
}

// EncodeTable writes t as CSV to w: a header row, then one record per row.
// Missing cells are written as empty fields. Temporal columns whose values
// all fall on midnight UTC are written as plain dates, any other temporal
// column as RFC3339 with each value's original offset.
func EncodeTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	formats := make([]func(int) string, len(t.Columns))
	for j, c := range t.Columns {
		formats[j] = cellFormatter(c)
	}

	rec := make([]string, len(t.Columns))
	for i := 0; i < t.NumRows(); i++ {
		for j := range t.Columns {
			rec[j] = formats[j](i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cellFormatter(c *Column) func(int) string {
	if c.Kind != KindTemporal {
		return func(i int) string {
			s, _ := c.Text(i)
			return s
		}
	}

	layout := dateLayout
	for _, ts := range c.Times {
		if !ts.Valid {
			continue
		}
		h, m, s := ts.Time.Clock()
		_, offset := ts.Time.Zone()
		if h != 0 || m != 0 || s != 0 || ts.Time.Nanosecond() != 0 || offset != 0 {
			layout = timestampLayout
			break
		}
	}
	return func(i int) string {
		if !c.Times[i].Valid {
			return ""
		}
		return c.Times[i].Time.Format(layout)
	}
}
