package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates the persistence API is unreachable
	ErrServerOffline = errors.New("persistence server is unreachable")

	// ErrAuthFailed indicates the session token was rejected
	ErrAuthFailed = errors.New("session token is invalid")

	// ErrProfileForbidden indicates the profile does not belong to the
	// authenticated session
	ErrProfileForbidden = errors.New("profile does not belong to this session")

	// ErrNoProfile indicates an operation that requires a bound profile was
	// attempted without one
	ErrNoProfile = errors.New("no viewing profile selected")
)
