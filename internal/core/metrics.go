package core

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// NewReportRegistry exposes a cleaning report as Prometheus gauges on a
// private registry.
func NewReportRegistry(rep *Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jobclean_rows",
		Help: "Row count of the table at each stage of the run.",
	}, []string{"stage"})
	duplicates := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobclean_duplicates_removed",
		Help: "Exact duplicate rows removed.",
	})
	missing := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jobclean_missing_cells",
		Help: "Missing cells per column before and after imputation.",
	}, []string{"column", "stage"})
	filled := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jobclean_filled_cells",
		Help: "Cells filled per column and strategy.",
	}, []string{"column", "strategy"})
	converted := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "jobclean_columns_converted",
		Help: "Columns converted, by target type.",
	}, []string{"type"})

	reg.MustRegister(rows, duplicates, missing, filled, converted)

	rows.WithLabelValues("input").Set(float64(rep.RowsIn))
	rows.WithLabelValues("output").Set(float64(rep.RowsOut))
	duplicates.Set(float64(rep.DuplicatesRemoved))
	for col, n := range rep.MissingBefore {
		missing.WithLabelValues(col, "before").Set(float64(n))
	}
	for col, n := range rep.MissingAfter {
		missing.WithLabelValues(col, "after").Set(float64(n))
	}
	for _, f := range rep.Fills {
		filled.WithLabelValues(f.Column, f.Strategy).Set(float64(f.Count))
	}
	for _, c := range rep.Conversions {
		converted.WithLabelValues(c.To).Inc()
	}

	return reg
}

// WriteMetrics writes the report to path in the Prometheus text format used
// by the node exporter textfile collector.
func WriteMetrics(path string, rep *Report) error {
	if err := prometheus.WriteToTextfile(path, NewReportRegistry(rep)); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
