// Package conflict detects scheduling collisions between a candidate shift
// and a volunteer's existing shifts.
package conflict

import (
	"fmt"

	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/timeutil"
)

// Conflict describes an existing shift that overlaps the candidate.
type Conflict struct {
	Shift       db.Shift
	Kind        timeutil.OverlapKind
	Description string
}

// Detect returns the existing shifts that overlap the candidate on the same
// calendar date, in the order they were given. An empty result means the
// candidate is clear. Detection is advisory; callers decide whether to
// proceed.
func Detect(candidate db.Shift, existing []db.Shift) ([]Conflict, error) {
	candidateInterval, err := timeutil.NewInterval(candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid candidate shift times: %w", err)
	}

	var conflicts []Conflict
	for _, shift := range existing {
		if shift.Date != candidate.Date {
			continue
		}

		interval, err := timeutil.NewInterval(shift.StartTime, shift.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid times on shift %s: %w", shift.ID, err)
		}

		if !timeutil.Overlaps(candidateInterval, interval) {
			continue
		}

		conflicts = append(conflicts, Conflict{
			Shift:       shift,
			Kind:        timeutil.Classify(candidateInterval, interval),
			Description: describe(shift),
		})
	}

	return conflicts, nil
}

func describe(shift db.Shift) string {
	title := shift.Title
	if title == "" {
		title = shift.RoleType
	}
	return fmt.Sprintf("%s (%s %s-%s)", title, shift.Date, shift.StartTime, shift.EndTime)
}
