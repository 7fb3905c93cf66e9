package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile        string
	logLevel       string
	logFormat      string
	threadCount    int
	timeoutSeconds int
)

var rootCmd = &cobra.Command{
	Use:   "goprofile",
	Short: "Concurrent SQL data profiler",
	Long: `A CLI tool that computes statistical profiles of relational tables:
row counts, null ratios, distributions, histograms and more, across
multiple SQL engines.

Features:
  - Dialect-aware SQL compilation (MySQL, PostgreSQL, SQLite, SQL Server,
    DuckDB, Snowflake, BigQuery, ClickHouse, Trino, Redshift)
  - Random sampling by exact row count or percentage
  - Partition-scoped profiling (value sets, integer ranges, time windows)
  - Bounded worker pool with per-worker sessions
  - Graceful degradation on numeric overflow`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "goprofile.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Execution overrides
	rootCmd.PersistentFlags().IntVar(&threadCount, "threads", 0,
		"Override worker count for metric computation")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0,
		"Override pool-wide run timeout in seconds")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel       string
	LogFormat      string
	ThreadCount    int
	TimeoutSeconds int
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		ThreadCount:    threadCount,
		TimeoutSeconds: timeoutSeconds,
	}
}
