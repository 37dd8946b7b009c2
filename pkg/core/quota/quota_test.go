package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/festival-crew/pkg/db"
)

func makeShift(id, start, end string) db.Shift {
	return db.Shift{ID: id, Date: "2025-03-15", StartTime: start, EndTime: end}
}

func TestEvaluate_Exceeds(t *testing.T) {
	// 8h committed, 2h candidate, 9h ceiling
	active := []db.Shift{
		makeShift("a", "08:00", "12:00"),
		makeShift("b", "13:00", "17:00"),
	}
	candidate := makeShift("c", "18:00", "20:00")

	assessment, err := Evaluate(active, candidate, 9.0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, assessment.CurrentHours)
	assert.Equal(t, 2.0, assessment.AddedHours)
	assert.Equal(t, 10.0, assessment.ProjectedHours)
	assert.True(t, assessment.Exceeds)
}

func TestEvaluate_AtCeilingDoesNotExceed(t *testing.T) {
	active := []db.Shift{makeShift("a", "08:00", "15:00")} // 7h
	candidate := makeShift("b", "16:00", "18:00")          // 2h

	assessment, err := Evaluate(active, candidate, 9.0)
	require.NoError(t, err)
	assert.Equal(t, 9.0, assessment.ProjectedHours)
	assert.False(t, assessment.Exceeds)
}

func TestEvaluate_NoActiveSignups(t *testing.T) {
	candidate := makeShift("a", "09:00", "12:30")

	assessment, err := Evaluate(nil, candidate, 9.0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, assessment.CurrentHours)
	assert.Equal(t, 3.5, assessment.AddedHours)
	assert.False(t, assessment.Exceeds)
}

func TestEvaluate_MalformedTimes(t *testing.T) {
	_, err := Evaluate([]db.Shift{makeShift("a", "late", "12:00")}, makeShift("b", "09:00", "12:00"), 9.0)
	require.Error(t, err)

	_, err = Evaluate(nil, makeShift("b", "09:00", "25:00"), 9.0)
	require.Error(t, err)
}
