package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTestNotFound        = errors.New("test not found")
	ErrTestNotPublished    = errors.New("test not published or not accessible")
	ErrMissingIdentity     = errors.New("missing user identity")
	ErrPersistenceFailure  = errors.New("failed to persist test result")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
	ErrAlreadySubmitted    = errors.New("test already submitted")
	ErrRaceSessionNotFound = errors.New("race session not found")
	ErrResultNotFound      = errors.New("result not found")
)
