package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestEffectiveStatus_NilRecord(t *testing.T) {
	var a *SeatAvailability
	assert.Equal(t, SeatStatusAvailable, a.EffectiveStatus(time.Now()))
}

func TestEffectiveStatus_BookedAndBlocked(t *testing.T) {
	now := time.Now()

	booked := &SeatAvailability{Status: SeatStatusBooked}
	assert.Equal(t, SeatStatusBooked, booked.EffectiveStatus(now))

	blocked := &SeatAvailability{Status: SeatStatusBlocked}
	assert.Equal(t, SeatStatusBlocked, blocked.EffectiveStatus(now))
}

func TestEffectiveStatus_ActiveLock(t *testing.T) {
	now := time.Now()
	a := &SeatAvailability{
		Status:      SeatStatusLocked,
		LockedBy:    strPtr("user-1"),
		LockedUntil: timePtr(now.Add(5 * time.Minute)),
	}

	assert.Equal(t, SeatStatusLocked, a.EffectiveStatus(now))
}

func TestEffectiveStatus_ExpiredLockIsAvailable(t *testing.T) {
	now := time.Now()
	a := &SeatAvailability{
		Status:      SeatStatusLocked,
		LockedBy:    strPtr("user-1"),
		LockedUntil: timePtr(now.Add(-time.Second)),
	}

	assert.Equal(t, SeatStatusAvailable, a.EffectiveStatus(now))
}

func TestEffectiveStatus_LockExpiryBoundary(t *testing.T) {
	now := time.Now()

	// A lock is exclusive strictly before its expiry instant
	a := &SeatAvailability{
		Status:      SeatStatusLocked,
		LockedUntil: timePtr(now),
	}
	assert.Equal(t, SeatStatusAvailable, a.EffectiveStatus(now))

	a.LockedUntil = timePtr(now.Add(time.Nanosecond))
	assert.Equal(t, SeatStatusLocked, a.EffectiveStatus(now))
}

func TestEffectiveStatus_LockedWithoutExpiry(t *testing.T) {
	a := &SeatAvailability{Status: SeatStatusLocked}
	assert.Equal(t, SeatStatusAvailable, a.EffectiveStatus(time.Now()))
}

func TestHeldBy(t *testing.T) {
	now := time.Now()
	a := &SeatAvailability{
		Status:      SeatStatusLocked,
		LockedBy:    strPtr("user-1"),
		LockedUntil: timePtr(now.Add(time.Minute)),
	}

	assert.True(t, a.HeldBy("user-1", now))
	assert.False(t, a.HeldBy("user-2", now))

	// An expired hold is nobody's hold
	a.LockedUntil = timePtr(now.Add(-time.Minute))
	assert.False(t, a.HeldBy("user-1", now))
}

func TestLockable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		record *SeatAvailability
		userID string
		want   bool
	}{
		{
			name:   "no record",
			record: nil,
			userID: "user-1",
			want:   true,
		},
		{
			name: "locked by same user extends",
			record: &SeatAvailability{
				Status:      SeatStatusLocked,
				LockedBy:    strPtr("user-1"),
				LockedUntil: timePtr(now.Add(time.Minute)),
			},
			userID: "user-1",
			want:   true,
		},
		{
			name: "locked by other user",
			record: &SeatAvailability{
				Status:      SeatStatusLocked,
				LockedBy:    strPtr("user-2"),
				LockedUntil: timePtr(now.Add(time.Minute)),
			},
			userID: "user-1",
			want:   false,
		},
		{
			name: "expired lock of other user",
			record: &SeatAvailability{
				Status:      SeatStatusLocked,
				LockedBy:    strPtr("user-2"),
				LockedUntil: timePtr(now.Add(-time.Minute)),
			},
			userID: "user-1",
			want:   true,
		},
		{
			name:   "booked",
			record: &SeatAvailability{Status: SeatStatusBooked},
			userID: "user-1",
			want:   false,
		},
		{
			name:   "blocked",
			record: &SeatAvailability{Status: SeatStatusBlocked},
			userID: "user-1",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Lockable(tt.userID, now))
		})
	}
}
