package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/festival-crew/pkg/db"
	"github.com/mhollis/festival-crew/pkg/timeutil"
)

func makeShift(id, date, start, end string) db.Shift {
	return db.Shift{
		ID:        id,
		Title:     "Shift " + id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    db.ShiftLive,
	}
}

func TestDetect_NoConflict(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-15", "09:00", "12:00")}
	candidate := makeShift("b", "2025-03-15", "13:00", "16:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetect_PartialOverlap(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-15", "09:00", "12:00")}
	candidate := makeShift("b", "2025-03-15", "11:00", "14:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, timeutil.OverlapPartial, conflicts[0].Kind)
	assert.Equal(t, "a", conflicts[0].Shift.ID)
	assert.Equal(t, "Shift a (2025-03-15 09:00-12:00)", conflicts[0].Description)
}

func TestDetect_CompleteOverlap(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-15", "09:00", "17:00")}
	candidate := makeShift("b", "2025-03-15", "10:00", "12:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, timeutil.OverlapComplete, conflicts[0].Kind)
}

func TestDetect_DifferentDateIgnored(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-16", "09:00", "12:00")}
	candidate := makeShift("b", "2025-03-15", "09:00", "12:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetect_TouchingEndpointsNoConflict(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-15", "09:00", "12:00")}
	candidate := makeShift("b", "2025-03-15", "12:00", "15:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestDetect_MultipleConflictsKeepOrder(t *testing.T) {
	existing := []db.Shift{
		makeShift("a", "2025-03-15", "09:00", "11:00"),
		makeShift("b", "2025-03-15", "13:00", "15:00"),
		makeShift("c", "2025-03-15", "10:00", "14:00"),
	}
	candidate := makeShift("d", "2025-03-15", "10:00", "14:00")

	conflicts, err := Detect(candidate, existing)
	require.NoError(t, err)
	require.Len(t, conflicts, 3)
	assert.Equal(t, "a", conflicts[0].Shift.ID)
	assert.Equal(t, "b", conflicts[1].Shift.ID)
	assert.Equal(t, "c", conflicts[2].Shift.ID)
	assert.Equal(t, timeutil.OverlapComplete, conflicts[2].Kind)
}

func TestDetect_MalformedTimes(t *testing.T) {
	existing := []db.Shift{makeShift("a", "2025-03-15", "nine", "12:00")}
	candidate := makeShift("b", "2025-03-15", "09:00", "12:00")

	_, err := Detect(candidate, existing)
	require.Error(t, err)

	_, err = Detect(makeShift("c", "2025-03-15", "09:00", "bad"), nil)
	require.Error(t, err)
}
