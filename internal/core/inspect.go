package core

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// ColumnSummary describes one column of an inspected table.
type ColumnSummary struct {
	Name     string
	Kind     Kind
	Type     string // storage type label: number, text, category, datetime
	NonNull  int
	Missing  int
	Distinct int
}

// Summary is a read-only description of a table.
type Summary struct {
	Rows       int
	Columns    int
	Duplicates int
	Cols       []ColumnSummary
}

// Inspect describes t without modifying it.
// A table that violates its own invariants is a programming error and panics.
func Inspect(t *Table) Summary {
	if err := t.Validate(); err != nil {
		panic(fmt.Sprintf("inspect: malformed table: %v", err))
	}

	s := Summary{
		Rows:       t.NumRows(),
		Columns:    t.NumCols(),
		Duplicates: t.DuplicateCount(),
		Cols:       make([]ColumnSummary, 0, t.NumCols()),
	}
	for _, c := range t.Columns {
		missing := c.MissingCount()
		s.Cols = append(s.Cols, ColumnSummary{
			Name:     c.Name,
			Kind:     c.Kind,
			Type:     typeLabel(c),
			NonNull:  c.Len() - missing,
			Missing:  missing,
			Distinct: c.distinct(),
		})
	}
	return s
}

// TotalMissing returns the number of missing cells across all columns.
func (s Summary) TotalMissing() int {
	n := 0
	for _, c := range s.Cols {
		n += c.Missing
	}
	return n
}

// Missing returns the missing-cell count for the named column.
func (s Summary) Missing(column string) (int, bool) {
	for _, c := range s.Cols {
		if c.Name == column {
			return c.Missing, true
		}
	}
	return 0, false
}

// Print writes a human-readable overview: shape, per-column info, missing
// values and duplicate count.
func (s Summary) Print(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Shape: %d rows x %d columns\n\n--- Columns ---\n", s.Rows, s.Columns); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tColumn\tNon-Null\tMissing\tDistinct\tType")
	for i, c := range s.Cols {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", i, c.Name, c.NonNull, c.Missing, c.Distinct, c.Type)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n--- Missing Values ---\nTotal missing cells: %d\n\n--- Duplicates ---\nNumber of duplicate rows: %d\n",
		s.TotalMissing(), s.Duplicates)
	return err
}

func typeLabel(c *Column) string {
	switch c.Kind {
	case KindNumeric:
		return "number"
	case KindTemporal:
		return "datetime"
	default:
		if c.Bounded {
			return "category"
		}
		return "text"
	}
}
