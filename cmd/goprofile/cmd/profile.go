package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goprofile/internal/config"
	"github.com/dbsmedya/goprofile/internal/database"
	"github.com/dbsmedya/goprofile/internal/lock"
	"github.com/dbsmedya/goprofile/internal/logger"
	"github.com/dbsmedya/goprofile/internal/profiler"
	"github.com/dbsmedya/goprofile/internal/report"
)

var (
	profileJob   string
	profileForce bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Compute statistical profiles for configured tables",
	Long: `Profile connects to the source database and computes the configured
metrics for each table job: table aggregates, per-column statistics,
distributions and engine-reported system metrics.

The run finishes successfully even when individual columns fail; only a
pool-wide timeout or a table-level metric failure aborts it.

Example:
  goprofile profile --config goprofile.yaml --table orders`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVarP(&profileJob, "table", "t", "",
		"Table job name from configuration file (default: all jobs)")

	profileCmd.Flags().BoolVar(&profileForce, "force", false,
		"Skip the advisory run lock (use with caution)")

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
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
	defer log.Sync()

	jobs, err := selectJobs(cfg)
	if err != nil {
		return err
	}

	log.Infow("Starting profiling run",
		"config", configFile,
		"dialect", cfg.Source.Dialect,
		"jobs", len(jobs),
	)

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return err
	}

	// Setup context with graceful shutdown on SIGINT/SIGTERM
	ctx := database.SetupSignalHandlerWithCallback(func(sig os.Signal) {
		log.Warnw("Received shutdown signal, aborting run", "signal", sig.String())
	})

	// Connect to the source database
	if err := dbManager.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	p := profiler.New(dbManager.Session(), dbManager.Dialect(), profiler.Options{
		ThreadCount: cfg.Profiler.ThreadCount,
		Timeout:     time.Duration(cfg.Profiler.TimeoutSeconds) * time.Second,
		Logger:      log,
	})
	renderer := report.New(cmd.OutOrStdout())

	for _, name := range jobs {
		jobCfg, err := cfg.GetTable(name)
		if err != nil {
			return err
		}

		if err := profileOneTable(ctx, p, dbManager, renderer, log, name, jobCfg); err != nil {
			return err
		}
	}

	if ok := renderer.Summary(p.Status()); !ok {
		return fmt.Errorf("profiling completed with failures")
	}
	return nil
}

// profileOneTable runs one table job under the advisory run lock.
// Per-column failures are already recorded in the processor status; only
// timeouts and table-level failures propagate.
func profileOneTable(ctx context.Context, p *profiler.Profiler, dbManager *database.Manager, renderer *report.Renderer, log *logger.Logger, name string, jobCfg *config.TableConfig) error {
	if !profileForce {
		runLock := lock.NewRunLock(dbManager.Session(), dbManager.Dialect(), name)
		if err := runLock.AcquireOrFail(ctx); err != nil {
			if errors.Is(err, lock.ErrLockHeld) {
				return fmt.Errorf("table job '%s' is already being profiled by another instance (use --force to override)", name)
			}
			return fmt.Errorf("failed to acquire run lock: %w", err)
		}
		defer runLock.Release(context.Background())
	} else {
		log.Warnw("Skipping advisory run lock (--force flag used)", "job", name)
	}

	result, data, err := p.ProfileTable(ctx, jobCfg)
	if err != nil {
		if errors.Is(err, profiler.ErrTimeout) || ctx.Err() != nil {
			return fmt.Errorf("profiling %s: %w", name, err)
		}
		// A mapping or table-metric failure voids this job but not the
		// whole run.
		log.Errorw("Table job failed", "job", name, "error", err)
		p.Status().Failed(name, err.Error(), "")
		return nil
	}

	renderer.Profile(result)
	if data != nil {
		log.Infow("Fetched sample rows for sink",
			"job", name, "rows", len(data.Rows), "columns", len(data.Columns))
	}
	return nil
}

// selectJobs resolves the --table flag against the configuration; empty
// selects every configured job in stable order.
func selectJobs(cfg *config.Config) ([]string, error) {
	if profileJob != "" {
		if _, err := cfg.GetTable(profileJob); err != nil {
			return nil, err
		}
		return []string{profileJob}, nil
	}
	jobs := cfg.ListTables()
	sort.Strings(jobs)
	return jobs, nil
}
