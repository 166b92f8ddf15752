package service

import "errors"

// Typed outcomes of the business layer. Handlers map these onto HTTP status
// codes with errors.Is; anything not in this list is treated as an internal
// error (logged, generic response).
var (
	// ErrValidation signals missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrUserExists signals a registration with a taken username.
	ErrUserExists = errors.New("username already exists")
	// ErrUserNotFound signals a login for an unknown username.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadCredentials signals a login with a wrong password.
	ErrBadCredentials = errors.New("invalid credentials")
	// ErrCodeRequired signals a capsule request without an unlock code.
	ErrCodeRequired = errors.New("unlock code is required")
	// ErrInvalidCode signals an unlock code that does not match the capsule.
	ErrInvalidCode = errors.New("invalid unlock code")
	// ErrLocked signals a read of a capsule before its unlock time.
	ErrLocked = errors.New("capsule is locked")
	// ErrAlreadyUnlocked signals a mutation of a capsule at or past its
	// unlock time. Expired capsules are covered too: once the unlock time
	// passes, the capsule is immutable forever.
	ErrAlreadyUnlocked = errors.New("capsule already unlocked")
	// ErrNotFound signals an absent capsule, or one owned by someone else
	// where ownership is masked as absence.
	ErrNotFound = errors.New("capsule not found")
	// ErrGone signals a capsule past its 30-day readable window.
	ErrGone = errors.New("capsule expired and no longer available")
)
