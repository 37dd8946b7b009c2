package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollis/festival-crew/cmd/cli/commands"
	"github.com/mhollis/festival-crew/internal/config"
	"github.com/mhollis/festival-crew/pkg/postgres"
	"github.com/mhollis/festival-crew/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     *commands.AppContext
	pool    *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "festival-crew",
		Short: "Festival Crew - coordinate volunteer shifts for a multi-day event",
		Long:  `A CLI tool for managing volunteer shifts, signups and automated reminder emails.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pool != nil {
				pool.Close()
			}
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug output on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	addCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addCommands registers all subcommands with the shared app context. The
// context is populated later by initApp; commands only dereference it at run
// time.
func addCommands(rootCmd *cobra.Command) {
	app = &commands.AppContext{}

	rootCmd.AddCommand(commands.CreateShiftCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.SetShiftStatusCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.ConfirmSignupCmd(app))
	rootCmd.AddCommand(commands.AdvanceSignupCmd(app))
	rootCmd.AddCommand(commands.CancelSignupCmd(app))
	rootCmd.AddCommand(commands.ScheduleCmd(app))
	rootCmd.AddCommand(commands.RunSchedulerCmd(app))
	rootCmd.AddCommand(commands.ForceCheckCmd(app))
	rootCmd.AddCommand(commands.SchedulerStatsCmd(app))
}

// initApp sets up logger, config and database for every command.
func initApp() error {
	app.Ctx = context.Background()
	app.Env = env

	// Local overrides (DATABASE_URL etc.) come from a .env file when present.
	godotenv.Load()

	logger, err := logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger

	logger.Info("Starting application", zap.String("environment", env))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	app.Cfg = cfg
	logger.Debug("Configuration loaded successfully")

	logger.Info("Connecting to database")
	pool, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = pool
	logger.Info("Database initialized successfully")

	return nil
}
