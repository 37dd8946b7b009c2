package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError indicates a malformed wall-clock time or interval.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// ToMinutes parses an "HH:MM" wall-clock string into minutes since midnight.
func ToMinutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, &ParseError{Input: s, Reason: "expected HH:MM"}
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "hours not a number"}
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "minutes not a number"}
	}

	if hours < 0 || hours > 23 {
		return 0, &ParseError{Input: s, Reason: "hours out of range"}
	}
	if minutes < 0 || minutes > 59 {
		return 0, &ParseError{Input: s, Reason: "minutes out of range"}
	}

	return hours*60 + minutes, nil
}

// Interval is a half-open [Start, End) wall-clock interval in minutes since
// midnight, on a single calendar day.
type Interval struct {
	Start int
	End   int
}

// NewInterval parses a start/end "HH:MM" pair. Intervals must not cross
// midnight: end must be strictly after start.
func NewInterval(start, end string) (Interval, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, &ParseError{
			Input:  fmt.Sprintf("%s-%s", start, end),
			Reason: "end must be after start",
		}
	}
	return Interval{Start: s, End: e}, nil
}

// Hours returns the interval's duration in fractional hours.
func (i Interval) Hours() float64 {
	return float64(i.End-i.Start) / 60.0
}

// Overlaps reports whether two intervals on the same calendar date intersect.
// Intervals are half-open, so touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// OverlapKind classifies how a candidate interval relates to an existing one.
type OverlapKind string

const (
	// OverlapComplete means the candidate lies entirely within the existing
	// interval.
	OverlapComplete OverlapKind = "complete"
	// OverlapPartial means the intervals intersect without full containment.
	OverlapPartial OverlapKind = "partial"
)

// Classify returns the overlap kind for a candidate against an existing
// interval. It must only be called when Overlaps(candidate, existing) is true.
func Classify(candidate, existing Interval) OverlapKind {
	if candidate.Start >= existing.Start && candidate.End <= existing.End {
		return OverlapComplete
	}
	return OverlapPartial
}
