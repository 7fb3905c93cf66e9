package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/goprofile/internal/types"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source.Dialect = "mysql"
	cfg.Source.Host = "localhost"
	cfg.Source.Port = 3306
	cfg.Source.User = "profiler"
	cfg.Source.Database = "shop"
	cfg.Tables = map[string]TableConfig{
		"orders": {Schema: "shop", Table: "orders"},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5, cfg.Profiler.ThreadCount)
	assert.Equal(t, 43200, cfg.Profiler.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "preferred", cfg.Source.TLS)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "unknown dialect",
			mutate: func(c *Config) { c.Source.Dialect = "db2" },
			field:  "source.dialect",
		},
		{
			name:   "missing host",
			mutate: func(c *Config) { c.Source.Host = "" },
			field:  "source.host",
		},
		{
			name: "sqlite requires path",
			mutate: func(c *Config) {
				c.Source.Dialect = "sqlite"
				c.Source.Path = ""
			},
			field: "source.path",
		},
		{
			name:   "no tables",
			mutate: func(c *Config) { c.Tables = nil },
			field:  "tables",
		},
		{
			name:   "zero threads",
			mutate: func(c *Config) { c.Profiler.ThreadCount = 0 },
			field:  "profiler.thread_count",
		},
		{
			name: "sample both modes",
			mutate: func(c *Config) {
				c.Tables["orders"] = TableConfig{
					Table:  "orders",
					Sample: types.SampleConfig{Percentage: 10, RowCount: 100},
				}
			},
			field: "tables.orders.sample",
		},
		{
			name: "profile query excludes sample",
			mutate: func(c *Config) {
				c.Tables["orders"] = TableConfig{
					Table:        "orders",
					ProfileQuery: "SELECT * FROM orders WHERE region = 'eu'",
					Sample:       types.SampleConfig{RowCount: 10},
				}
			},
			field: "tables.orders.profile_query",
		},
		{
			name: "include and exclude are exclusive",
			mutate: func(c *Config) {
				c.Tables["orders"] = TableConfig{
					Table:          "orders",
					IncludeColumns: []string{"id"},
					ExcludeColumns: []string{"notes"},
				}
			},
			field: "tables.orders.include_columns",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			field:  "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			verrs, ok := err.(ValidationErrors)
			require.True(t, ok)
			found := false
			for _, ve := range verrs {
				if ve.Field == tt.field {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %s, got %v", tt.field, verrs)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyOverrides("debug", "json", 8, 600)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.Profiler.ThreadCount)
	assert.Equal(t, 600, cfg.Profiler.TimeoutSeconds)

	// Zero values leave the config untouched.
	cfg.ApplyOverrides("", "", 0, 0)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Profiler.ThreadCount)
}

func TestLoad(t *testing.T) {
	yaml := `
source:
  dialect: postgres
  host: db.internal
  port: 5432
  user: profiler
  password: ${GOPROFILE_TEST_PASSWORD}
  database: shop

profiler:
  thread_count: 3

tables:
  orders:
    schema: shop
    table: orders
    exclude_columns: [internal_notes]
    sample:
      row_count: 500
  events:
    table: events
    partition:
      kind: time-window
      column: created_at
      interval: 7
      unit: day
`
	t.Setenv("GOPROFILE_TEST_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "goprofile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Source.Dialect)
	assert.Equal(t, "s3cret", cfg.Source.Password, "env vars are substituted")
	assert.Equal(t, 3, cfg.Profiler.ThreadCount)
	assert.Equal(t, 43200, cfg.Profiler.TimeoutSeconds, "defaults survive partial config")

	orders, err := cfg.GetTable("orders")
	require.NoError(t, err)
	assert.Equal(t, int64(500), orders.Sample.RowCount)
	assert.Equal(t, []string{"internal_notes"}, orders.ExcludeColumns)

	events, err := cfg.GetTable("events")
	require.NoError(t, err)
	require.NotNil(t, events.Partition)
	assert.Equal(t, types.PartitionTimeWindow, events.Partition.Kind)
	assert.Equal(t, "created_at", events.Partition.Column)

	_, err = cfg.GetTable("missing")
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"orders", "events"}, cfg.ListTables())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/goprofile.yaml")
	assert.Error(t, err)
}
