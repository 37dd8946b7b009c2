package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SignupStatus
		to   SignupStatus
		want bool
	}{
		{"signed up to confirmed", SignupSignedUp, SignupConfirmed, true},
		{"confirmed to checked in", SignupConfirmed, SignupCheckedIn, true},
		{"signed up straight to checked in", SignupSignedUp, SignupCheckedIn, true},
		{"no going back to signed up", SignupConfirmed, SignupSignedUp, false},
		{"no going back from checked in", SignupCheckedIn, SignupConfirmed, false},
		{"same status is not a transition", SignupConfirmed, SignupConfirmed, false},
		{"cancel from signed up", SignupSignedUp, SignupCancelled, true},
		{"cancel from checked in", SignupCheckedIn, SignupCancelled, true},
		{"no show from confirmed", SignupConfirmed, SignupNoShow, true},
		{"cancelled is terminal", SignupCancelled, SignupSignedUp, false},
		{"no show is terminal", SignupNoShow, SignupConfirmed, false},
		{"cancelled cannot become no show", SignupCancelled, SignupNoShow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestSignupActive(t *testing.T) {
	assert.True(t, (&Signup{Status: SignupSignedUp}).Active())
	assert.True(t, (&Signup{Status: SignupNoShow}).Active())
	assert.False(t, (&Signup{Status: SignupCancelled}).Active())
}
