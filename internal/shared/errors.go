package shared

import "errors"

// Sentinel errors shared across chancery modules. Repositories translate
// missing rows to ErrNotFound; handlers map these onto problem responses.
var (
	// ErrNotFound marks a record that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials covers every login failure: unknown email, bad
	// password or a deactivated account. Deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing is returned when a mutating request carries no
	// token, or the session never had one issued.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch is returned when the supplied token does not
	// match the one bound to the session.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
