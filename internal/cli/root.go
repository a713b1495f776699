package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"forex-journal/internal/config"
	"forex-journal/internal/logging"
	"forex-journal/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.Store
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	journalStore, err := store.NewSQLiteStore(cfg.Journal.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = journalStore
		logger.Debug().Str("path", cfg.Journal.DatabasePath).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "fxjournal",
		Short: "Forex Journal - trade ingestion and rule compliance CLI",
		Long: `Forex Journal is a trading journal CLI for forex traders.

It normalizes pasted or imported spreadsheet rows into canonical trade
records, checks every trade against your trading rules, and aggregates
performance statistics.

Use 'fxjournal help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/fxjournal)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newRulesCmd(app))
	rootCmd.AddCommand(newStatsCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Forex Journal v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal Configuration")
	output.Printf("  Database:        %s\n", cfg.Journal.DatabasePath)
	output.Printf("  Currency:        %s\n", cfg.Journal.Currency)
	output.Println()

	output.Bold("Import Configuration")
	output.Printf("  Header Rows:     %d\n", cfg.Import.HeaderRows)
	output.Printf("  Label Columns:   %d\n", cfg.Import.LabelColumns)
	output.Printf("  Default Sheet:   %s\n", cfg.Import.DefaultSheet)
	output.Println()

	output.Bold("Logging Configuration")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	output.Printf("  File Path:       %s\n", cfg.Logging.FilePath)
}
