package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhollis/festival-crew/pkg/core/services"
	"github.com/mhollis/festival-crew/pkg/db"
)

// SignupCmd creates the signup command, including the interactive advisory
// confirmation for conflicts and quota overruns.
func SignupCmd(app *AppContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "signup <volunteer_id> <shift_id>",
		Short: "Sign a volunteer up for a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteerID, shiftID := args[0], args[1]

			result, err := services.RequestSignup(app.Ctx, app.Database, app.Logger,
				volunteerID, shiftID, app.Cfg.QuotaCeilingHours)
			if err != nil {
				return err
			}

			if result.Outcome == services.OutcomeCommitted {
				printSignup(result.Signup)
				return nil
			}

			// Advisory stop: show what was found, then either confirm or walk
			// away leaving nothing committed.
			switch result.Outcome {
			case services.OutcomeConflictFound:
				fmt.Printf("\n⚠️  This shift overlaps %d existing commitment(s):\n", len(result.Conflicts))
				for _, c := range result.Conflicts {
					fmt.Printf("  - %s (%s overlap)\n", c.Description, c.Kind)
				}
			case services.OutcomeQuotaExceeded:
				fmt.Printf("\n⚠️  Hour ceiling exceeded: %s\n", result.Quota.String())
			}

			if !yes && !confirm("Sign up anyway?") {
				fmt.Println("Nothing committed.")
				return nil
			}

			confirmed, err := services.ConfirmOverride(app.Ctx, app.Database, app.Logger, volunteerID, shiftID)
			if err != nil {
				return err
			}
			printSignup(confirmed.Signup)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Override advisory warnings without prompting")
	return cmd
}

// ConfirmSignupCmd creates the confirmSignup command
func ConfirmSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "confirmSignup <signup_id>",
		Short: "Mark a signup as confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.AdvanceSignup(app.Ctx, app.Database, app.Logger, args[0], db.SignupConfirmed); err != nil {
				return err
			}
			fmt.Printf("✓ Signup %s confirmed\n", args[0])
			return nil
		},
	}
}

// AdvanceSignupCmd creates the advanceSignup command
func AdvanceSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advanceSignup <signup_id> <status>",
		Short: "Advance a signup (confirmed, checked_in, no_show)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := db.SignupStatus(args[1])
			if err := services.AdvanceSignup(app.Ctx, app.Database, app.Logger, args[0], status); err != nil {
				return err
			}
			fmt.Printf("✓ Signup %s is now %s\n", args[0], status)
			return nil
		},
	}
}

// CancelSignupCmd creates the cancelSignup command
func CancelSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSignup <signup_id>",
		Short: "Cancel a signup and free its place on the shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signup, err := services.CancelSignup(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Signup %s cancelled, place on shift %s released\n", signup.ID, signup.ShiftID)
			return nil
		},
	}
}

// ScheduleCmd creates the schedule command
func ScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <volunteer_id>",
		Short: "Show a volunteer's active signups with their shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := services.ListVolunteerSchedule(app.Ctx, app.Database, args[0])
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No active signups.")
				return nil
			}

			fmt.Printf("\n%d active signup(s):\n\n", len(entries))
			for _, e := range entries {
				fmt.Printf("- %s %s-%s  %-10s %s (signup %s)\n",
					e.Shift.Date, e.Shift.StartTime, e.Shift.EndTime,
					e.Signup.Status, e.Shift.Title, e.Signup.ID)
			}
			fmt.Println()
			return nil
		},
	}
}

func printSignup(signup *db.Signup) {
	fmt.Printf("\n✓ Signed up!\n\n")
	fmt.Printf("Signup ID: %s\n", signup.ID)
	fmt.Printf("Shift:     %s\n", signup.ShiftID)
	fmt.Printf("Status:    %s\n\n", signup.Status)
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
