package capsule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	unlockAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want State
	}{
		{"well before unlock", unlockAt.Add(-24 * time.Hour), StateLocked},
		{"one second before unlock", unlockAt.Add(-time.Second), StateLocked},
		{"exactly at unlock", unlockAt, StateUnlocked},
		{"one second after unlock", unlockAt.Add(time.Second), StateUnlocked},
		{"within the grace window", unlockAt.Add(29 * 24 * time.Hour), StateUnlocked},
		{"exactly at the grace boundary", unlockAt.Add(GraceWindow), StateUnlocked},
		{"one second past the grace boundary", unlockAt.Add(GraceWindow + time.Second), StateExpired},
		{"long after expiry", unlockAt.Add(365 * 24 * time.Hour), StateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(unlockAt, tt.now))
		})
	}
}

// Every instant maps to exactly one state: the three predicates partition the
// timeline around unlockAt.
func TestClassifyIsExclusive(t *testing.T) {
	t.Parallel()

	unlockAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	offsets := []time.Duration{
		-GraceWindow, -time.Hour, -time.Nanosecond, 0, time.Nanosecond,
		time.Hour, GraceWindow - time.Nanosecond, GraceWindow,
		GraceWindow + time.Nanosecond, 2 * GraceWindow,
	}

	for _, off := range offsets {
		now := unlockAt.Add(off)
		got := Classify(unlockAt, now)

		locked := now.Before(unlockAt)
		expired := now.After(unlockAt.Add(GraceWindow))
		unlocked := !locked && !expired

		matches := 0
		if locked && got == StateLocked {
			matches++
		}
		if unlocked && got == StateUnlocked {
			matches++
		}
		if expired && got == StateExpired {
			matches++
		}
		assert.Equal(t, 1, matches, "offset %v classified as %v", off, got)
	}
}

func TestMutable(t *testing.T) {
	t.Parallel()

	unlockAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, Mutable(unlockAt, unlockAt.Add(-time.Second)))
	// From the unlock instant on, the capsule is frozen, even once expired.
	assert.False(t, Mutable(unlockAt, unlockAt))
	assert.False(t, Mutable(unlockAt, unlockAt.Add(time.Hour)))
	assert.False(t, Mutable(unlockAt, unlockAt.Add(GraceWindow+time.Hour)))
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "locked", StateLocked.String())
	assert.Equal(t, "unlocked", StateUnlocked.String())
	assert.Equal(t, "expired", StateExpired.String())
}
