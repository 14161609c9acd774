package loteam

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced team or membership doesn't exist, or
	// the membership belongs to a different team than the request named.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the acting user lacks the role the mutation needs.
	ErrForbidden = errors.New("forbidden")

	// ErrInvitationExpired means the invitation's expiry has passed. A resend
	// revives it.
	ErrInvitationExpired = errors.New("invitation has expired")
)

// InvalidStateError means the operation isn't valid for the record's current
// status, such as resending an invitation that was already accepted. Posting
// an already posted team is not this; that normalizes to success.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// InvalidOperationError means the mutation is structurally disallowed, such
// as removing the team creator or dropping the active roster below the floor.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string {
	return e.Reason
}

// PreconditionFailedError is returned when a post attempt fails its readiness
// check. It always carries the full requirement list so the caller can show
// every gap at once.
type PreconditionFailedError struct {
	Requirements []RequirementResult
}

func (e *PreconditionFailedError) Error() string {
	unmet := 0
	for _, r := range e.Requirements {
		if !r.Met {
			unmet = unmet + 1
		}
	}
	return fmt.Sprintf("team does not meet posting requirements (%d unmet)", unmet)
}

// Unmet returns just the requirements that failed.
func (e *PreconditionFailedError) Unmet() []RequirementResult {
	var unmet []RequirementResult
	for _, r := range e.Requirements {
		if !r.Met {
			unmet = append(unmet, r)
		}
	}
	return unmet
}
