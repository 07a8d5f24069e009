package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/JonMunkholm/jobclean/internal/logging"
)

// RunConfig holds everything a single cleaning run needs.
type RunConfig struct {
	Input       string
	Output      string
	MetricsFile string // optional; empty disables the metrics textfile
	Clean       CleanOptions

	// Out receives the human-readable summaries. Defaults to os.Stdout.
	Out io.Writer
}

// Run loads the input, prints an overview, cleans the table, prints the
// cleaned overview and writes the output. Any load or write failure is
// returned as-is and nothing is written.
func Run(ctx context.Context, cfg RunConfig) (*Report, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	logger.Info("run started", "input", cfg.Input, "output", cfg.Output)

	t, err := LoadTable(ctx, cfg.Input)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Loaded data shape: (%d, %d)\n\n--- Basic Info ---\n", t.NumRows(), t.NumCols())
	printSummary(ctx, out, t, "input")

	rep, err := NewCleaner(cfg.Clean).Clean(ctx, t)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	rep.Print(out)
	fmt.Fprintln(out, "\n--- Cleaned Data Overview ---")
	printSummary(ctx, out, t, "output")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled before write: %w", err)
	}
	if err := WriteTable(ctx, cfg.Output, t); err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "\nCleaned data saved to: %s\n", cfg.Output)

	if cfg.MetricsFile != "" {
		if err := WriteMetrics(cfg.MetricsFile, rep); err != nil {
			logger.Warn("metrics not written", "path", cfg.MetricsFile, "error", err)
		}
	}

	logger.Info("run completed",
		"rows_in", rep.RowsIn,
		"rows_out", rep.RowsOut,
		"duplicates_removed", rep.DuplicatesRemoved,
		"columns_filled", len(rep.Fills),
	)
	return rep, nil
}

// printSummary prints the table overview. Write failures are logged, not returned.
func printSummary(ctx context.Context, w io.Writer, t *Table, stage string) {
	if err := Inspect(t).Print(w); err != nil {
		logging.FromContext(ctx).Debug("summary not printed", "stage", stage, "error", err)
	}
}

// Print writes one line per step that changed a column.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Removed %d duplicate rows\n", r.DuplicatesRemoved)
	for _, f := range r.Fills {
		fmt.Fprintf(w, "Filled %d missing values in '%s' with %s: %s\n", f.Count, f.Column, f.Strategy, f.Value)
	}
	for _, c := range r.Conversions {
		fmt.Fprintf(w, "Converted '%s' to %s.\n", c.Column, c.To)
	}
}
