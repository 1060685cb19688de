package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle authorization and state checks. Services
// return these (optionally wrapped) so the HTTP edge can translate them into
// status codes with errors.Is.
var (
	// ErrNotFound: no request exists with the given id.
	ErrNotFound = errors.New("request not found")
	// ErrNotRequester: the caller is not the request's creator.
	ErrNotRequester = errors.New("caller is not the requester")
	// ErrNotAssignedDonor: the caller is not the donor assigned to the request.
	ErrNotAssignedDonor = errors.New("caller is not the assigned donor")
	// ErrNoDonorProfile: the caller has no profile in the donor directory.
	ErrNoDonorProfile = errors.New("caller has no donor profile")
	// ErrIneligibleDonor: the caller's blood group cannot donate to the patient.
	ErrIneligibleDonor = errors.New("donor blood group is not compatible")
	// ErrNotPending: the request left the pending state before the transition committed.
	ErrNotPending = errors.New("request is no longer pending")
	// ErrAlreadyFinalized: the request is in a terminal state.
	ErrAlreadyFinalized = errors.New("request is already finalized")
	// ErrInvalidTransition: the target status is not reachable from the current one.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDirectoryUnavailable: the donor directory could not be reached while it
	// was required for an authorization decision.
	ErrDirectoryUnavailable = errors.New("donor directory unavailable")
)

// ValidationError rejects a request payload before persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
