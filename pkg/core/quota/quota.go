// Package quota evaluates a volunteer's accumulated shift hours against the
// event's hour ceiling.
package quota

import (
	"fmt"

	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/timeutil"
)

// DefaultCeilingHours is the default maximum cumulative hours a volunteer is
// expected to work across all active signups.
const DefaultCeilingHours = 9.0

// Assessment is the result of evaluating a candidate shift against the quota.
type Assessment struct {
	CurrentHours   float64
	AddedHours     float64
	ProjectedHours float64
	CeilingHours   float64
	Exceeds        bool
}

func (a Assessment) String() string {
	return fmt.Sprintf("%.1fh committed + %.1fh candidate = %.1fh of %.1fh allowed",
		a.CurrentHours, a.AddedHours, a.ProjectedHours, a.CeilingHours)
}

// Evaluate sums the hours of the volunteer's active shifts, adds the
// candidate, and flags whether the total would exceed the ceiling. Exceeding
// is advisory; callers decide whether to proceed.
func Evaluate(active []db.Shift, candidate db.Shift, ceiling float64) (Assessment, error) {
	var current float64
	for _, shift := range active {
		interval, err := timeutil.NewInterval(shift.StartTime, shift.EndTime)
		if err != nil {
			return Assessment{}, fmt.Errorf("invalid times on shift %s: %w", shift.ID, err)
		}
		current += interval.Hours()
	}

	candidateInterval, err := timeutil.NewInterval(candidate.StartTime, candidate.EndTime)
	if err != nil {
		return Assessment{}, fmt.Errorf("invalid candidate shift times: %w", err)
	}
	added := candidateInterval.Hours()

	projected := current + added
	return Assessment{
		CurrentHours:   current,
		AddedHours:     added,
		ProjectedHours: projected,
		CeilingHours:   ceiling,
		Exceeds:        projected > ceiling,
	}, nil
}
