package draw

import "errors"

// Error taxonomy surfaced by the draw engine. Callers match with errors.Is;
// the gateway maps these onto HTTP status codes.
var (
	// ErrInvalidInput is returned when a draw is requested for a group with
	// no eligible members.
	ErrInvalidInput = errors.New("draw: invalid input")

	// ErrSessionAlreadyActive is returned when a group already has an
	// IN_PROGRESS session.
	ErrSessionAlreadyActive = errors.New("draw: session already active for group")

	// ErrGroupNotEligible is returned when the group's membership is not yet
	// final.
	ErrGroupNotEligible = errors.New("draw: group not eligible for draw")

	// ErrUnauthorized is returned when the requester is not a member of the
	// group.
	ErrUnauthorized = errors.New("draw: requester is not a group member")

	// ErrNoSession is returned by status queries for groups with no draw
	// history.
	ErrNoSession = errors.New("draw: no session for group")

	// ErrStoreUnavailable wraps persistence failures. It is fatal to the
	// in-flight operation; the scheduler retries ticks a bounded number of
	// times before marking the session FAILED.
	ErrStoreUnavailable = errors.New("draw: session store unavailable")
)
