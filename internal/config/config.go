// Package config provides centralized configuration management for the cleaner.
// It loads settings from command-line overrides and an optional config file,
// applies defaults and validates everything up front to fail fast on
// misconfiguration. The process environment is never consulted.
package config

// Config holds all application configuration.
type Config struct {
	Paths    PathsConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// PathsConfig holds input and output locations.
type PathsConfig struct {
	// Input is the raw CSV to clean (default: data/ai_job_dataset.csv)
	Input string `key:"INPUT_PATH" default:"data/ai_job_dataset.csv"`

	// Output is where the cleaned CSV is written (default: data/ai_job_dataset_clean.csv)
	Output string `key:"OUTPUT_PATH" default:"data/ai_job_dataset_clean.csv"`

	// MetricsFile is an optional Prometheus textfile for the run report
	MetricsFile string `key:"METRICS_FILE"`
}

// PipelineConfig toggles individual cleaning steps.
type PipelineConfig struct {
	Dedup             bool   `key:"PIPELINE_DEDUP" default:"true"`
	ImputeNumeric     bool   `key:"PIPELINE_IMPUTE_NUMERIC" default:"true"`
	ImputeCategorical bool   `key:"PIPELINE_IMPUTE_CATEGORICAL" default:"true"`
	Categorize        bool   `key:"PIPELINE_CATEGORIZE" default:"true"`
	ParseDates        bool   `key:"PIPELINE_PARSE_DATES" default:"true"`
	DateMarker        string `key:"PIPELINE_DATE_MARKER" default:"date"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `key:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `key:"LOG_FORMAT" default:"text"`
}
