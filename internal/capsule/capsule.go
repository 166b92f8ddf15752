// Package capsule implements the capsule lifecycle rules: a pure
// classification of a capsule into locked, unlocked or expired based on its
// unlock time and the current time. Nothing here touches I/O, so handlers may
// call it concurrently without synchronization.
package capsule

import "time"

// GraceWindow is how long a capsule stays readable after its unlock time.
// Past this window the capsule is gone for good.
const GraceWindow = 30 * 24 * time.Hour

// State is the derived visibility state of a capsule.
type State int

const (
	// StateLocked means the unlock time has not been reached yet.
	StateLocked State = iota
	// StateUnlocked means the capsule is within its readable window.
	StateUnlocked
	// StateExpired means the grace window has passed.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Classify returns the state of a capsule with the given unlock time as of
// now. Exactly one state holds for any pair of instants: locked while
// now < unlockAt, unlocked from unlockAt up to and including
// unlockAt + GraceWindow, expired after that.
func Classify(unlockAt, now time.Time) State {
	if now.Before(unlockAt) {
		return StateLocked
	}
	if now.After(unlockAt.Add(GraceWindow)) {
		return StateExpired
	}
	return StateUnlocked
}

// Mutable reports whether a capsule may still be updated or deleted. Only
// strictly locked capsules are mutable; once the unlock time passes the
// contents are frozen, including after expiry.
func Mutable(unlockAt, now time.Time) bool {
	return Classify(unlockAt, now) == StateLocked
}
