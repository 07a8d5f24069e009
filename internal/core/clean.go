package core

// clean.go implements the cleaning pipeline. Steps run in a fixed order:
//
//  1. Drop exact duplicate rows (stable, first occurrence wins)
//  2. Fill missing numeric cells with the column median
//  3. Fill missing categorical cells with the column mode
//  4. Finalize categorical columns as bounded label types
//  5. Convert date-named columns to timestamps when every cell parses
//
// Statistics are computed after deduplication, and normalization only sees
// fully populated columns. Every per-column step either applies to the whole
// column or leaves it untouched.

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/JonMunkholm/jobclean/internal/logging"
)

const (
	StrategyMedian = "median"
	StrategyMode   = "mode"

	TypeCategory = "category"
	TypeDatetime = "datetime"
)

// CleanOptions selects which pipeline steps run.
type CleanOptions struct {
	Dedup             bool
	ImputeNumeric     bool
	ImputeCategorical bool
	Categorize        bool
	ParseDates        bool

	// DateMarker is the case-insensitive substring that marks a column
	// name as date-like.
	DateMarker string
}

// DefaultCleanOptions enables every step with the "date" marker.
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		Dedup:             true,
		ImputeNumeric:     true,
		ImputeCategorical: true,
		Categorize:        true,
		ParseDates:        true,
		DateMarker:        "date",
	}
}

// Fill records one imputed column.
type Fill struct {
	Column   string
	Strategy string // StrategyMedian or StrategyMode
	Value    string
	Count    int // cells filled
}

// Conversion records one column whose type was changed.
type Conversion struct {
	Column string
	From   string
	To     string
}

// Report describes what a cleaning run did. It is kept only for the run.
type Report struct {
	RunID             string
	RowsIn            int
	RowsOut           int
	Columns           int
	DuplicatesRemoved int
	MissingBefore     map[string]int // after dedup, before imputation
	MissingAfter      map[string]int
	Fills             []Fill
	Conversions       []Conversion
}

// Cleaner runs the cleaning pipeline on a table in place.
type Cleaner struct {
	opts CleanOptions
}

// NewCleaner creates a cleaner. An empty DateMarker falls back to "date".
func NewCleaner(opts CleanOptions) *Cleaner {
	if opts.DateMarker == "" {
		opts.DateMarker = "date"
	}
	return &Cleaner{opts: opts}
}

// Clean applies the enabled steps to t and reports what changed.
// Only a cancelled context stops the pipeline; bad cells never do.
func (c *Cleaner) Clean(ctx context.Context, t *Table) (*Report, error) {
	logger := logging.FromContext(ctx)

	rep := &Report{
		RunID:         logging.RunID(ctx),
		RowsIn:        t.NumRows(),
		Columns:       t.NumCols(),
		MissingBefore: make(map[string]int, t.NumCols()),
		MissingAfter:  make(map[string]int, t.NumCols()),
	}

	if t.NumCols() == 0 {
		logger.Info("table has no columns, nothing to clean")
		return rep, nil
	}

	if c.opts.Dedup {
		rep.DuplicatesRemoved = t.DropDuplicates()
		if rep.DuplicatesRemoved > 0 {
			logger.Info("removed duplicate rows", "count", rep.DuplicatesRemoved, "rows", t.NumRows())
		}
	}

	for _, col := range t.Columns {
		rep.MissingBefore[col.Name] = col.MissingCount()
	}

	steps := []struct {
		enabled bool
		run     func(*Column) bool
	}{
		{c.opts.ImputeNumeric, func(col *Column) bool { return c.fill(ctx, rep, col, KindNumeric, ImputeMedian) }},
		{c.opts.ImputeCategorical, func(col *Column) bool { return c.fill(ctx, rep, col, KindCategorical, ImputeMode) }},
		{c.opts.Categorize, func(col *Column) bool { return c.categorize(ctx, rep, col) }},
		{c.opts.ParseDates, func(col *Column) bool { return c.parseDates(ctx, rep, col) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clean: %w", err)
		}
		if !step.enabled {
			continue
		}
		for _, col := range t.Columns {
			step.run(col)
		}
	}

	rep.RowsOut = t.NumRows()
	for _, col := range t.Columns {
		rep.MissingAfter[col.Name] = col.MissingCount()
	}
	return rep, nil
}

func (c *Cleaner) fill(ctx context.Context, rep *Report, col *Column, kind Kind, impute func(*Column) (Fill, bool)) bool {
	if col.Kind != kind {
		return false
	}
	f, ok := impute(col)
	if !ok {
		return false
	}
	rep.Fills = append(rep.Fills, f)
	logging.FromContext(ctx).Info("filled missing values",
		"column", f.Column,
		"strategy", f.Strategy,
		"value", f.Value,
		"count", f.Count,
	)
	return true
}

func (c *Cleaner) categorize(ctx context.Context, rep *Report, col *Column) bool {
	from := typeLabel(col)
	if !Categorize(col) {
		return false
	}
	rep.Conversions = append(rep.Conversions, Conversion{Column: col.Name, From: from, To: TypeCategory})
	logging.FromContext(ctx).Info("converted column",
		"column", col.Name,
		"to", TypeCategory,
		"categories", len(col.Domain),
	)
	return true
}

func (c *Cleaner) parseDates(ctx context.Context, rep *Report, col *Column) bool {
	if !IsTemporalName(col.Name, c.opts.DateMarker) {
		return false
	}
	from := typeLabel(col)
	if !ParseTemporal(col) {
		logging.FromContext(ctx).Debug("column left unconverted", "column", col.Name, "type", from)
		return false
	}
	rep.Conversions = append(rep.Conversions, Conversion{Column: col.Name, From: from, To: TypeDatetime})
	logging.FromContext(ctx).Info("converted column", "column", col.Name, "to", TypeDatetime)
	return true
}

// Median returns the median of values: the middle element of the sorted
// values, or the mean of the two middle elements for an even count.
// Returns false for an empty slice. values is not modified.
func Median(values []decimal.Decimal) (decimal.Decimal, bool) {
	n := len(values)
	if n == 0 {
		return decimal.Decimal{}, false
	}

	sorted := slices.Clone(values)
	slices.SortFunc(sorted, func(a, b decimal.Decimal) int { return a.Cmp(b) })

	if n%2 == 1 {
		return sorted[n/2], true
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2)), true
}

// Mode returns the most frequent value. Ties go to the value that appears
// first in values. Returns false for an empty slice.
func Mode(values []string) (string, bool) {
	counts := make(map[string]int, len(values))
	var (
		best      string
		bestCount int
	)
	for _, v := range values {
		counts[v]++
	}
	for _, v := range values {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount > 0
}

// ImputeMedian fills missing cells of a numeric column with the median of
// its present cells. Returns false (and leaves the column alone) when the
// column is not numeric, has nothing missing, or has no present values.
func ImputeMedian(col *Column) (Fill, bool) {
	if col.Kind != KindNumeric {
		return Fill{}, false
	}

	var present []decimal.Decimal
	missing := 0
	for _, cell := range col.Numbers {
		if cell.Valid {
			present = append(present, cell.Decimal)
		} else {
			missing++
		}
	}
	if missing == 0 {
		return Fill{}, false
	}

	median, ok := Median(present)
	if !ok {
		return Fill{}, false
	}
	for i := range col.Numbers {
		if !col.Numbers[i].Valid {
			col.Numbers[i] = decimal.NewNullDecimal(median)
		}
	}
	return Fill{Column: col.Name, Strategy: StrategyMedian, Value: median.String(), Count: missing}, true
}

// ImputeMode fills missing cells of a categorical column with the mode of
// its present cells, in current row order. Returns false (and leaves the
// column alone) when the column is not categorical, has nothing missing, or
// has no present values.
func ImputeMode(col *Column) (Fill, bool) {
	if col.Kind != KindCategorical {
		return Fill{}, false
	}

	var present []string
	missing := 0
	for _, cell := range col.Labels {
		if cell.Valid {
			present = append(present, cell.String)
		} else {
			missing++
		}
	}
	if missing == 0 {
		return Fill{}, false
	}

	mode, ok := Mode(present)
	if !ok {
		return Fill{}, false
	}
	for i := range col.Labels {
		if !col.Labels[i].Valid {
			col.Labels[i] = pgtype.Text{String: mode, Valid: true}
		}
	}
	return Fill{Column: col.Name, Strategy: StrategyMode, Value: mode, Count: missing}, true
}

// Categorize finalizes a categorical column as a bounded label type whose
// domain is the sorted set of observed labels. Returns false for
// non-categorical or already finalized columns.
func Categorize(col *Column) bool {
	if col.Kind != KindCategorical || col.Bounded {
		return false
	}

	seen := make(map[string]struct{})
	domain := make([]string, 0)
	for _, cell := range col.Labels {
		if !cell.Valid {
			continue
		}
		if _, ok := seen[cell.String]; ok {
			continue
		}
		seen[cell.String] = struct{}{}
		domain = append(domain, cell.String)
	}
	sort.Strings(domain)

	col.Domain = domain
	col.Bounded = true
	return true
}

// IsTemporalName reports whether name contains marker, ignoring case.
func IsTemporalName(name, marker string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(marker))
}

// ParseTemporal converts every cell of col to a timestamp. If any present
// cell fails to parse, col is left exactly as it was and false is returned.
func ParseTemporal(col *Column) bool {
	if col.Kind == KindTemporal {
		return false
	}

	times := make([]pgtype.Timestamp, col.Len())
	for i := range times {
		s, ok := col.Text(i)
		if !ok {
			continue
		}
		ts := ToPgTimestamp(s)
		if !ts.Valid {
			return false
		}
		times[i] = ts
	}

	col.Kind = KindTemporal
	col.Times = times
	col.Numbers = nil
	col.Labels = nil
	col.Domain = nil
	col.Bounded = false
	return true
}
