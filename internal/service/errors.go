package service

import "errors"

var (
	// ErrValidation marks input rejected before any remote call was made.
	ErrValidation = errors.New("validation failed")

	// ErrNoSession is returned when an operation arrives for a user with no
	// open session.
	ErrNoSession = errors.New("no active session")

	// ErrSessionClosed marks a result discarded because the session was
	// closed while the remote call was in flight.
	ErrSessionClosed = errors.New("session closed")
)
