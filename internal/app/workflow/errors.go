// Package workflow implements the membership lifecycle: role and club
// resolution, application state transitions with member-count upkeep, agenda
// status classification, and the daily attendance guard.
package workflow

import "errors"

var (
	// ErrNotFound is returned when a referenced user, club, or membership
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStateTransition is returned when an application is not in
	// the state the requested transition requires.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrValidation is returned when submitted fields fail validation.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateSubmission is returned when a user already submitted
	// attendance for the club on the same day.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrAmbiguousAffiliation is returned by strict resolution when an
	// officer is referenced by more than one club.
	ErrAmbiguousAffiliation = errors.New("officer is referenced by multiple clubs")
)
