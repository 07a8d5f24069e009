// Package core provides the cleaning logic for tabular job datasets.
// This package has no CLI dependencies and can be used by any frontend.
package core

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Kind is the semantic type of a column, decided once at load time.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindTemporal
)

// String returns the lowercase kind name used in summaries and logs.
func (k Kind) String() string {
	switch k {
	case KindCategorical:
		return "categorical"
	case KindNumeric:
		return "numeric"
	case KindTemporal:
		return "temporal"
	default:
		return "unknown"
	}
}

// Column is a named, ordered sequence of cells. Exactly one of the cell
// slices is populated, selected by Kind:
//
//	KindNumeric     -> Numbers
//	KindCategorical -> Labels
//	KindTemporal    -> Times
//
// A cell with Valid=false is missing.
type Column struct {
	Name    string
	Kind    Kind
	Numbers []decimal.NullDecimal
	Labels  []pgtype.Text
	Times   []pgtype.Timestamp

	// Domain is the sorted set of observed labels once a categorical column
	// has been finalized as a bounded label type.
	Domain  []string
	Bounded bool
}

// NewColumn builds a column from raw CSV text, inferring its kind.
// A column is numeric when every non-missing cell is a plain number and at
// least one such cell exists; otherwise it is categorical.
func NewColumn(name string, raw []string) *Column {
	numbers := make([]decimal.NullDecimal, len(raw))
	seen := 0
	numeric := true
	for i, s := range raw {
		if IsMissing(s) {
			continue
		}
		d := ToDecimal(s)
		if !d.Valid {
			numeric = false
			break
		}
		numbers[i] = d
		seen++
	}

	if numeric && seen > 0 {
		return &Column{Name: name, Kind: KindNumeric, Numbers: numbers}
	}

	labels := make([]pgtype.Text, len(raw))
	for i, s := range raw {
		labels[i] = ToPgText(s)
	}
	return &Column{Name: name, Kind: KindCategorical, Labels: labels}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumeric:
		return len(c.Numbers)
	case KindTemporal:
		return len(c.Times)
	default:
		return len(c.Labels)
	}
}

// IsMissing reports whether the cell at row i is missing.
func (c *Column) IsMissing(i int) bool {
	switch c.Kind {
	case KindNumeric:
		return !c.Numbers[i].Valid
	case KindTemporal:
		return !c.Times[i].Valid
	default:
		return !c.Labels[i].Valid
	}
}

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// Text returns the cell at row i as text, and false if it is missing.
// Numbers render in decimal form, timestamps in RFC3339 with their offset.
// Labels are returned exactly as read.
func (c *Column) Text(i int) (string, bool) {
	if c.IsMissing(i) {
		return "", false
	}
	switch c.Kind {
	case KindNumeric:
		return c.Numbers[i].Decimal.String(), true
	case KindTemporal:
		return c.Times[i].Time.Format(timestampLayout), true
	default:
		return c.Labels[i].String, true
	}
}

// distinct returns the number of distinct non-missing values.
func (c *Column) distinct() int {
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if s, ok := c.Text(i); ok {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

// keep retains only the given rows, in the given order.
func (c *Column) keep(rows []int) {
	switch c.Kind {
	case KindNumeric:
		c.Numbers = pick(c.Numbers, rows)
	case KindTemporal:
		c.Times = pick(c.Times, rows)
	default:
		c.Labels = pick(c.Labels, rows)
	}
}

func pick[T any](cells []T, rows []int) []T {
	out := make([]T, len(rows))
	for j, i := range rows {
		out[j] = cells[i]
	}
	return out
}

// Table is an ordered set of uniquely named columns of equal length.
// Rows are identified by position only.
type Table struct {
	Columns []*Column
}

// NewTable creates a table from columns and validates its invariants.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{Columns: cols}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that column names are unique and all columns have the same length.
func (t *Table) Validate() error {
	names := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q", c.Name)
		}
		names[c.Name] = struct{}{}
		if c.Len() != t.NumRows() {
			return fmt.Errorf("column %q has %d cells, expected %d", c.Name, c.Len(), t.NumRows())
		}
	}
	return nil
}

// NumRows returns the row count (zero for a table without columns).
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// rowKey encodes row i so that two rows share a key exactly when every cell
// is equal. Missing cells encode differently from the empty string.
func (t *Table) rowKey(i int) string {
	var b strings.Builder
	for _, c := range t.Columns {
		if s, ok := c.Text(i); ok {
			b.WriteByte('v')
			b.WriteString(s)
		} else {
			b.WriteByte('-')
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}

// firstOccurrences returns the indices of rows that do not repeat an earlier row.
func (t *Table) firstOccurrences() []int {
	seen := make(map[string]struct{}, t.NumRows())
	rows := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		key := t.rowKey(i)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, i)
	}
	return rows
}

// DuplicateCount returns the number of rows identical to an earlier row.
func (t *Table) DuplicateCount() int {
	return t.NumRows() - len(t.firstOccurrences())
}

// DropDuplicates removes every row that repeats an earlier row, keeping the
// first occurrence and the original order. Returns the number of rows removed.
func (t *Table) DropDuplicates() int {
	rows := t.firstOccurrences()
	removed := t.NumRows() - len(rows)
	if removed == 0 {
		return 0
	}
	for _, c := range t.Columns {
		c.keep(rows)
	}
	return removed
}
