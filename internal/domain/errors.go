package domain

import "errors"

// Sentinel errors for the error taxonomy. Callers classify failures with
// errors.Is; the transport layer maps each to an HTTP status and a stable
// kind string. Anything that matches none of these is reported as a
// server error without internal detail.
var (
	// ErrInvalidID indicates a malformed identifier, rejected before any
	// store access.
	ErrInvalidID = errors.New("invalid id")

	// ErrUnauthorized indicates the caller supplied no valid identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the session is absent or not owned by the
	// caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates an empty or otherwise unusable submission.
	ErrValidation = errors.New("validation failed")

	// ErrBackend indicates the generation backend was unreachable or
	// returned output unusable as text.
	ErrBackend = errors.New("generation backend error")

	// ErrConflict indicates a replace lost an optimistic-concurrency race:
	// the session version advanced between read and write.
	ErrConflict = errors.New("session version conflict")
)

// Kind strings reported on the wire for each taxonomy member.
const (
	KindInvalidID    = "InvalidId"
	KindUnauthorized = "Unauthorized"
	KindNotFound     = "NotFound"
	KindValidation   = "ValidationError"
	KindBackend      = "BackendError"
	KindConflict     = "Conflict"
	KindServer       = "ServerError"
)

// Kind classifies err into its wire kind. Unrecognized errors are server
// errors.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidID):
		return KindInvalidID
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrBackend):
		return KindBackend
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindServer
	}
}
