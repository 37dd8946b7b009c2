package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhollis/festival-crew/pkg/scheduler"
)

// RunSchedulerCmd creates the runScheduler command
func RunSchedulerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runScheduler",
		Short: "Run the notification scheduler until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := app.MailSender()
			if err != nil {
				return err
			}

			sched := scheduler.New(app.Database, sender, app.Cfg, app.Logger)
			if err := sched.Start(); err != nil {
				return err
			}

			fmt.Println("Scheduler running. Press Ctrl+C to stop.")

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			fmt.Println("\nStopping...")
			sched.Stop()
			return nil
		},
	}
}

// ForceCheckCmd creates the forceCheck command
func ForceCheckCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forceCheck <cadence>",
		Short: "Run one scheduler tick now (hourly, daily or immediate)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := app.MailSender()
			if err != nil {
				return err
			}

			sched := scheduler.New(app.Database, sender, app.Cfg, app.Logger)
			if err := sched.ForceCheck(app.Ctx, scheduler.Cadence(args[0])); err != nil {
				return err
			}
			fmt.Printf("✓ %s check complete\n", args[0])
			return nil
		},
	}
}

// SchedulerStatsCmd creates the schedulerStats command
func SchedulerStatsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedulerStats",
		Short: "Show notification activity over the last 24 hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := app.Database.CountSentSince(app.Ctx, time.Now().Add(-24*time.Hour))
			if err != nil {
				return fmt.Errorf("failed to count notifications: %w", err)
			}
			fmt.Printf("Emails sent in the last 24h: %d\n", count)
			return nil
		},
	}
}
