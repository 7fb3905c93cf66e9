// Package config provides configuration structures and loading for goprofile.
package config

import "github.com/dbsmedya/goprofile/internal/types"

// Config represents the complete application configuration.
type Config struct {
	Source   DatabaseConfig         `yaml:"source" mapstructure:"source"`
	Profiler ProfilerConfig         `yaml:"profiler" mapstructure:"profiler"`
	Tables   map[string]TableConfig `yaml:"tables" mapstructure:"tables"`
	Logging  LoggingConfig          `yaml:"logging" mapstructure:"logging"`
}

// DatabaseConfig represents the database connection configuration.
// Dialect selects the driver and the SQL compilation strategy.
type DatabaseConfig struct {
	Dialect            string `yaml:"dialect" mapstructure:"dialect"`
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	Path               string `yaml:"path" mapstructure:"path"` // file path for sqlite/duckdb
	TLS                string `yaml:"tls" mapstructure:"tls"`   // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// ProfilerConfig represents the execution settings shared by all runs.
type ProfilerConfig struct {
	ThreadCount    int `yaml:"thread_count" mapstructure:"thread_count"`
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// TableConfig represents one table profiling job.
type TableConfig struct {
	Schema         string                 `yaml:"schema" mapstructure:"schema"`
	Table          string                 `yaml:"table" mapstructure:"table"`
	IncludeColumns []string               `yaml:"include_columns" mapstructure:"include_columns"`
	ExcludeColumns []string               `yaml:"exclude_columns" mapstructure:"exclude_columns"`
	Metrics        []string               `yaml:"metrics" mapstructure:"metrics"` // empty means all registered metrics
	Sample         types.SampleConfig     `yaml:"sample" mapstructure:"sample"`
	Partition      *types.PartitionConfig `yaml:"partition" mapstructure:"partition"`
	ProfileQuery   string                 `yaml:"profile_query" mapstructure:"profile_query"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Source: DatabaseConfig{
			TLS:                "preferred",
			MaxConnections:     10,
			MaxIdleConnections: 5,
		},
		Profiler: ProfilerConfig{
			ThreadCount:    5,
			TimeoutSeconds: 43200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the global configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string, threadCount, timeoutSeconds int) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if threadCount > 0 {
		c.Profiler.ThreadCount = threadCount
	}
	if timeoutSeconds > 0 {
		c.Profiler.TimeoutSeconds = timeoutSeconds
	}
}
