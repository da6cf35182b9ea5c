package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrAttemptNotFound     = errors.New("attempt not found")
	ErrChallengeCompleted  = errors.New("challenge already completed")
	ErrSaveInFlight        = errors.New("a save is already in flight")
	ErrSessionAlreadyOpen  = errors.New("a session is already open for this exercise")
	ErrSessionNotFound     = errors.New("no open session for this exercise")
	ErrSessionClosed       = errors.New("session is closed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrLanguageUnsupported = errors.New("language not supported by the execution sandbox")
)
