package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Lookup returns the raw value for a config key, and whether it was set.
type Lookup func(key string) (string, bool)

// FromMap returns a Lookup backed by m. Empty values count as unset.
func FromMap(m map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok && v != ""
	}
}

// FromFile reads a dotenv-format file (KEY=value lines) into a Lookup.
// The file's values are returned directly; the process environment is not
// modified. A missing file yields an empty Lookup when optional is true.
func FromFile(path string, optional bool) (Lookup, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return FromMap(nil), nil
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return FromMap(m), nil
}

// Chain returns a Lookup that consults each lookup in order; the first one
// that has the key wins.
func Chain(lookups ...Lookup) Lookup {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Load builds the configuration from lookup.
// It applies defaults for unset values and validates the result.
func Load(lookup Lookup) (*Config, error) {
	if lookup == nil {
		lookup = FromMap(nil)
	}

	cfg := &Config{}
	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields tagged with `key`.
func loadStruct(v reflect.Value, lookup Lookup) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("key")
		if key == "" {
			continue
		}

		value, ok := lookup(key)
		if !ok {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", key, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(strings.TrimSpace(value))

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Paths.Input == "" {
		errs = append(errs, "INPUT_PATH is required")
	}
	if c.Paths.Output == "" {
		errs = append(errs, "OUTPUT_PATH is required")
	}
	if c.Paths.Input != "" && filepath.Clean(c.Paths.Input) == filepath.Clean(c.Paths.Output) {
		errs = append(errs, fmt.Sprintf("OUTPUT_PATH (%q) must differ from INPUT_PATH", c.Paths.Output))
	}
	if c.Paths.MetricsFile != "" && filepath.Clean(c.Paths.MetricsFile) == filepath.Clean(c.Paths.Output) {
		errs = append(errs, fmt.Sprintf("METRICS_FILE (%q) must differ from OUTPUT_PATH", c.Paths.MetricsFile))
	}

	if c.Pipeline.ParseDates && strings.TrimSpace(c.Pipeline.DateMarker) == "" {
		errs = append(errs, "PIPELINE_DATE_MARKER must be set when PIPELINE_PARSE_DATES is true")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Paths: {Input: %q, Output: %q, MetricsFile: %q}, ", c.Paths.Input, c.Paths.Output, c.Paths.MetricsFile)
	fmt.Fprintf(&b, "Pipeline: {Dedup: %v, ImputeNumeric: %v, ImputeCategorical: %v, Categorize: %v, ParseDates: %v, DateMarker: %q}, ",
		c.Pipeline.Dedup, c.Pipeline.ImputeNumeric, c.Pipeline.ImputeCategorical,
		c.Pipeline.Categorize, c.Pipeline.ParseDates, c.Pipeline.DateMarker)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
