package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/store"
	"github.com/cellplot/cellplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sqlitePath returns the SQLite database file in use.
func sqlitePath() string {
	if cfg.DBConnect != "" {
		return cfg.DBConnect
	}
	return contract.GetDBFilePath()
}

// dbCmd focuses on record store management.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the battery record store",
	Long: `Manage the relational store holding cells, cycle summaries and timeseries readings.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (no store)

Subcommands:
  migrate - Apply or roll back schema migrations
  status  - Show row counts and connection info
  clear   - Remove all records
  import  - Load records from a CSV file`,
}

// dbMigrateCmd runs schema migrations.
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back record store migrations",
	Long: `Run the embedded schema migrations against the configured backend.

Examples:
  # Migrate to the latest version
  cellplot db migrate

  # Roll back everything
  cellplot db migrate --target-version 0

  # Migrate a PostgreSQL store (set connection string via env variable)
  CELLPLOT_DB_BACKEND=postgresql CELLPLOT_DB_CONNECT="host=... dbname=..." cellplot db migrate`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.DBConnect
		if cfg.Backend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		if err := store.MigrateRecords(cfg.Backend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate record store", err)
		}
	},
}

// dbStatusCmd shows store status.
var dbStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display record counts and connection details",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		status, err := rs.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(status)
	},
}

// dbClearCmd removes every record.
var dbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all records from the store",
	Long: `Delete all records from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the record tables and the migration history`,
	Args:    cobra.NoArgs,
	PreRunE: configOnlySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearStore(cfg.Backend, sqlitePath(), cfg.DBConnect); err != nil {
			contract.LogFatal("Failed to clear record store", err)
		}
		fmt.Println("Record store cleared successfully.")
	},
}

// dbImportCmd loads records from CSV.
var dbImportCmd = &cobra.Command{
	Use:   "import <cells|summaries|timeseries> <file.csv>",
	Short: "Import records from a CSV file",
	Long: `Load records from a CSV file with a header row. Columns are matched by name.

Cells need cell_id and may have charge_policy and cycle_life.
Summaries need cell_id and cycle_index and may have ir, q_charge, q_discharge, tavg, tmin,
tmax and chargetime. Timeseries need cell_id and cycle_index and may have time, current,
voltage, q_charge, q_discharge and temperature.

Examples:
  cellplot db import cells cells.csv
  cellplot db import summaries b1_summaries.csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		kind := store.ImportKind(strings.ToLower(args[0]))
		if _, ok := store.ValidImportKinds[kind]; !ok {
			contract.LogFatal("Invalid import kind", fmt.Errorf("%q must be cells, summaries or timeseries", args[0]))
		}
		rs, err := recordStore()
		if err != nil {
			contract.LogFatal("Failed to import records", err)
		}

		file, err := os.Open(args[1])
		if err != nil {
			contract.LogFatal("Failed to open import file", err)
		}
		defer func() { _ = file.Close() }()

		n, err := store.ImportCSV(rootCtx, rs, kind, file)
		if err != nil {
			contract.LogFatal("Failed to import records", err)
		}
		fmt.Printf("Imported %d %s rows from %s.\n", n, kind, args[1])
	},
}
