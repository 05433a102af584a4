package services

import "errors"

// Sentinel errors controllers map onto HTTP statuses.
var (
	// ErrForbidden: the actor is not allowed to touch this record (403).
	ErrForbidden = errors.New("operation not permitted for this user")

	// ErrInvitationExpired: the invitation deadline passed before the
	// response arrived (410-style conflict, reported as 400).
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationClosed: the invitation was already accepted or declined (409).
	ErrInvitationClosed = errors.New("invitation already responded to")

	// ErrDuplicateAssignment: the reviewer already holds an assignment for
	// this paper (409).
	ErrDuplicateAssignment = errors.New("reviewer is already assigned to this paper")

	// ErrValidation: request payload failed a business validation (400).
	ErrValidation = errors.New("validation failed")
)
