package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSyncInProgress indicates a run is already in progress.
	ErrSyncInProgress = errors.New("sync in progress")

	// Configuration Errors.

	// ErrConfigInvalid indicates the configuration failed validation.
	ErrConfigInvalid = errors.New("configuration invalid")

	// ErrMissingCredential indicates a required credential is not configured.
	// It is fatal at startup, before any remote call is made.
	ErrMissingCredential = errors.New("missing required credential")

	// Remote Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrBatchTimeout indicates an index attach batch did not reach a
	// terminal state before the poll timeout elapsed.
	ErrBatchTimeout = errors.New("batch poll timed out")

	// ErrBatchFailed indicates an index attach batch reached a terminal
	// state other than completed.
	ErrBatchFailed = errors.New("batch did not complete")

	// ErrNothingUploaded indicates every upload of a non-empty set failed.
	ErrNothingUploaded = errors.New("no files uploaded")

	// ErrNoIndex indicates no remote index could be resolved or created.
	ErrNoIndex = errors.New("no index available")
)
