package sessionauth

import (
	"errors"

	"github.com/MrEthical07/sessionauth/jwt"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for missing, malformed, expired, forged or
	// superseded tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is returned when registering an email that already exists.
	ErrConflict = errors.New("user already exists")
	// ErrInternalConfig is returned when security-relevant configuration is
	// missing or invalid.
	ErrInternalConfig = errors.New("invalid configuration")
	// ErrUserNotFound is returned by Profile for a subject with no account.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionStoreUnavailable wraps refresh store I/O failures.
	ErrSessionStoreUnavailable = errors.New("session store unavailable")
	// ErrDirectoryUnavailable wraps user directory I/O failures.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	// ErrInternal wraps failures that are neither the caller's nor configuration's
	// fault, such as a corrupt stored hash or a signing error.
	ErrInternal = errors.New("internal error")
	// ErrEngineNotReady is returned when an Engine method is called on a nil or
	// unbuilt Engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrTokenMalformed is the token issuer's unparseable-token error. It is always
	// wrapped together with ErrUnauthorized before leaving the Engine.
	ErrTokenMalformed = jwt.ErrTokenMalformed
)
