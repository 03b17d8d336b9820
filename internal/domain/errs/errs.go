// Package errs holds the error kinds shared by the matching engine. Stores
// and services wrap these with %w so callers can classify with errors.Is.
package errs

import "errors"

var (
	// ErrNoProfile means the requesting user has no profile.
	ErrNoProfile = errors.New("profile not found")
	// ErrInvalidSubject covers self-judgment and references to unknown users.
	ErrInvalidSubject = errors.New("invalid subject")
	// ErrUnauthorized means the requester is not a participant of the target.
	ErrUnauthorized = errors.New("not a participant")
	ErrNotFound     = errors.New("not found")
	// ErrConflict is a duplicate match creation. It never leaves the matches service.
	ErrConflict = errors.New("conflict")
	// ErrTransient marks store unavailability or timeouts; the same call may be retried.
	ErrTransient = errors.New("temporarily unavailable")
)

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
