package common

import "errors"

// Error classes surfaced by storage and ingestion. Callers match them with
// errors.Is; the concrete driver error stays wrapped underneath.
var (
	// ErrStorageUnavailable is fatal: the store cannot be reached at all.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraintViolation covers unique and foreign key failures.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrMalformedPayload means the message could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
	ErrRateLimited      = errors.New("rate limit exceeded")
)

// IsFatal reports whether err must stop the process.
func IsFatal(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
