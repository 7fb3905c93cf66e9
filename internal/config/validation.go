package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/goprofile/internal/dialect"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateSource()...)

	if c.Profiler.ThreadCount < 1 {
		errors = append(errors, ValidationError{
			Field:   "profiler.thread_count",
			Message: "must be at least 1",
		})
	}
	if c.Profiler.TimeoutSeconds < 1 {
		errors = append(errors, ValidationError{
			Field:   "profiler.timeout_seconds",
			Message: "must be at least 1",
		})
	}

	if len(c.Tables) == 0 {
		errors = append(errors, ValidationError{
			Field:   "tables",
			Message: "at least one table job must be defined",
		})
	}
	for name, table := range c.Tables {
		errors = append(errors, validateTable(name, &table)...)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateSource() ValidationErrors {
	var errors ValidationErrors

	d, ok := dialect.Parse(c.Source.Dialect)
	if !ok {
		errors = append(errors, ValidationError{
			Field:   "source.dialect",
			Message: fmt.Sprintf("unknown dialect %q", c.Source.Dialect),
		})
		return errors
	}

	switch d {
	case dialect.SQLite, dialect.DuckDB:
		if c.Source.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "source.path",
				Message: fmt.Sprintf("file path is required for %s", d),
			})
		}
	default:
		if c.Source.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "source.host",
				Message: "host is required",
			})
		}
		if c.Source.User == "" {
			errors = append(errors, ValidationError{
				Field:   "source.user",
				Message: "user is required",
			})
		}
	}

	return errors
}

func validateTable(name string, t *TableConfig) ValidationErrors {
	var errors ValidationErrors
	field := func(sub string) string { return fmt.Sprintf("tables.%s.%s", name, sub) }

	if t.Table == "" {
		errors = append(errors, ValidationError{
			Field:   field("table"),
			Message: "table name is required",
		})
	}

	if err := t.Sample.Validate(); err != nil {
		errors = append(errors, ValidationError{
			Field:   field("sample"),
			Message: err.Error(),
		})
	}

	if t.ProfileQuery != "" {
		// A user-supplied query bypasses sampling and partitioning entirely.
		if !t.Sample.IsZero() {
			errors = append(errors, ValidationError{
				Field:   field("profile_query"),
				Message: "profile_query and sample are mutually exclusive",
			})
		}
		if t.Partition != nil {
			errors = append(errors, ValidationError{
				Field:   field("profile_query"),
				Message: "profile_query and partition are mutually exclusive",
			})
		}
	}

	if len(t.IncludeColumns) > 0 && len(t.ExcludeColumns) > 0 {
		errors = append(errors, ValidationError{
			Field:   field("include_columns"),
			Message: "include_columns and exclude_columns are mutually exclusive",
		})
	}

	return errors
}
