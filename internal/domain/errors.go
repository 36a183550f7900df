package domain

import "errors"

// Operation outcomes. Services wrap these with context via fmt.Errorf("%w")
// and the HTTP layer maps them to status codes; nothing is retried.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNoTeamAssigned  = errors.New("no team assigned")
	ErrAlreadyHasProof = errors.New("entry already has a proof")
	ErrNotFound        = errors.New("not found")
	ErrRemoteFailure   = errors.New("remote call failed")

	// ErrPartialFailure marks a multi-step operation that stopped partway,
	// leaving state as of the last completed step (e.g. a stored proof
	// object whose row update failed). Cleanup is the reconciler's job.
	ErrPartialFailure = errors.New("operation partially completed")
)
