package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goprofile/internal/config"
	"github.com/dbsmedya/goprofile/internal/database"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/profiler"
	"github.com/dbsmedya/goprofile/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and run preflight checks",
	Long: `Validate checks the configuration file and runs preflight checks
against the source database to ensure table jobs can be profiled.

Checks performed:
  - Configuration syntax and required fields
  - Database connectivity
  - Table existence in the engine catalog
  - Include/exclude column resolution
  - Partition column and sampling settings

Example:
  goprofile validate --config goprofile.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply CLI overrides
	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.ThreadCount, overrides.TimeoutSeconds)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Initialize logger
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Info("Starting validation checks...")

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return err
	}

	// Setup context with graceful shutdown on SIGINT/SIGTERM
	ctx := database.SetupSignalHandler()

	// Connect to the source database
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbManager.Close()

	// Test connection
	if err := dbManager.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	fmt.Printf("\n=== Configuration Validation ===\n")
	fmt.Printf("Config file: %s\n", configFile)
	fmt.Printf("Dialect: %s\n", cfg.Source.Dialect)
	fmt.Printf("Table jobs found: %d\n\n", len(cfg.Tables))

	mapper := profiler.NewMapper(dbManager.Session(), dbManager.Dialect(), log)

	names := cfg.ListTables()
	sort.Strings(names)

	// Validate each table job against the engine catalog
	hasErrors := false
	for _, name := range names {
		jobCfg, err := cfg.GetTable(name)
		if err != nil {
			fmt.Printf("❌ %v\n\n", err)
			hasErrors = true
			continue
		}

		fmt.Printf("--- Table job: %s ---\n", name)
		fmt.Printf("Table: %s\n", jobCfg.Table)

		status := &types.ProcessorStatus{}
		table, err := mapper.MapTable(ctx, jobCfg, status)
		if err != nil {
			fmt.Printf("❌ Catalog mapping failed: %v\n\n", err)
			hasErrors = true
			continue
		}

		fmt.Printf("Columns resolved: %d\n", len(table.Columns))
		for _, w := range status.Warnings() {
			fmt.Printf("⚠️  %s\n", w)
		}
		fmt.Printf("✅ All checks passed\n\n")
	}

	if hasErrors {
		return fmt.Errorf("validation failed for one or more table jobs")
	}

	fmt.Println("=== Validation Complete ===")
	fmt.Println("✅ All table jobs validated successfully")
	return nil
}
