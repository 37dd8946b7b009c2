package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhollis/festival-crew/pkg/core/services"
	"github.com/mhollis/festival-crew/pkg/db"
)

// CreateShiftCmd creates the createShift command
func CreateShiftCmd(app *AppContext) *cobra.Command {
	var (
		roleType        string
		checkInRequired bool
		publish         bool
	)

	cmd := &cobra.Command{
		Use:   "createShift <title> <date> <start> <end> <max_volunteers>",
		Short: "Create a shift (draft unless --publish is set)",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			var maxVolunteers int
			if _, err := fmt.Sscanf(args[4], "%d", &maxVolunteers); err != nil {
				return fmt.Errorf("max_volunteers must be a number: %w", err)
			}

			shift, err := services.CreateShift(app.Ctx, app.Database, app.Logger, services.NewShiftParams{
				EventID:         app.Cfg.EventID,
				Title:           args[0],
				Date:            args[1],
				StartTime:       args[2],
				EndTime:         args[3],
				MaxVolunteers:   maxVolunteers,
				RoleType:        roleType,
				CheckInRequired: checkInRequired,
				Publish:         publish,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift created\n\n")
			fmt.Printf("ID:     %s\n", shift.ID)
			fmt.Printf("Title:  %s\n", shift.Title)
			fmt.Printf("When:   %s %s-%s\n", shift.Date, shift.StartTime, shift.EndTime)
			fmt.Printf("Places: %d\n", shift.MaxVolunteers)
			fmt.Printf("Status: %s\n\n", shift.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleType, "role", "", "Role type label (gate, bar, cleanup, ...)")
	cmd.Flags().BoolVar(&checkInRequired, "check-in", false, "Volunteers must check in on arrival")
	cmd.Flags().BoolVar(&publish, "publish", false, "Create the shift live instead of draft")
	return cmd
}

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listShifts",
		Short: "List all shifts for the configured event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shifts, err := app.Database.ListShiftsByEvent(app.Ctx, app.Cfg.EventID)
			if err != nil {
				return fmt.Errorf("failed to list shifts: %w", err)
			}

			fmt.Printf("\nFound %d shifts:\n\n", len(shifts))
			for _, s := range shifts {
				fmt.Printf("- %s  %s %s-%s  %-12s %d/%d  %s\n",
					s.ID, s.Date, s.StartTime, s.EndTime, s.Status,
					s.CurrentVolunteers, s.MaxVolunteers, s.Title)
			}
			fmt.Println()
			return nil
		},
	}
}

// SetShiftStatusCmd creates the setShiftStatus command
func SetShiftStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setShiftStatus <shift_id> <status>",
		Short: "Move a shift to draft, live, unpublished or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := db.ShiftStatus(args[1])
			if err := services.SetShiftStatus(app.Ctx, app.Database, app.Logger, args[0], status); err != nil {
				return err
			}
			fmt.Printf("✓ Shift %s is now %s\n", args[0], status)
			return nil
		},
	}
}
