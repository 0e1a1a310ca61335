// Package cmd defines the command-line interface for cellplot.
package cmd

import (
	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(cellsCmd)
	rootCmd.AddCommand(summariesCmd)
	rootCmd.AddCommand(timeseriesCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(imagesCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the db subcommands to the parent db command
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbClearCmd)
	dbCmd.AddCommand(dbImportCmd)

	// Add the images subcommands to the parent images command
	imagesCmd.AddCommand(imagesPruneCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored table headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.LogFormatConsole, "Log format: console or json")
	rootCmd.PersistentFlags().Int("chart-width", contract.DefaultChartWidth, "Chart canvas width in pixels")
	rootCmd.PersistentFlags().Int("chart-height", contract.DefaultChartHeight, "Chart canvas height in pixels")
	rootCmd.PersistentFlags().Float64("chart-dpi", contract.DefaultChartDPI, "Chart canvas DPI")
	rootCmd.PersistentFlags().Int("render-workers", contract.DefaultRenderWorkers, "Number of charts rendered concurrently")
	rootCmd.PersistentFlags().String("static-dir", contract.DefaultStaticDir, "Directory holding stored chart images")
	rootCmd.PersistentFlags().String("base-url", contract.DefaultBaseURL, "Public base URL used in image links")
	rootCmd.PersistentFlags().String("prune-max-age", contract.DefaultPruneMaxAge, "Age after which stored images are pruned (e.g. 12h, 7d)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cellsCmd to Viper
	cellsCmd.Flags().String("search", "", "Only list cells whose ID contains this text")
	if err := viper.BindPFlags(cellsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cells flags", err)
	}

	// Bind all flags of timeseriesCmd to Viper
	timeseriesCmd.Flags().String("cycle-index", "", "Restrict readings to one cycle")
	if err := viper.BindPFlags(timeseriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding timeseries flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListen, "Address the HTTP API listens on")
	serveCmd.Flags().String("prune-schedule", "", "Cron schedule for pruning stored images (empty disables)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of dbMigrateCmd to Viper
	dbMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(dbMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding db migrate flags", err)
	}
}
