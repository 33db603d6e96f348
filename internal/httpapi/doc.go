// Package httpapi is the gin transport in front of the engine.
//
// Routes live under /api: POST /api/user registers, GET /api/user returns the
// caller's profile behind the access guard, POST /api/auth/login issues an
// access token in the body and the refresh token in an HttpOnly cookie, and
// POST /api/auth/refresh trades that cookie for a new access token. /healthz and
// /metrics sit outside the prefix.
//
// Request bodies must be JSON objects. Every string in them except password
// fields is trimmed before validation; unknown fields are ignored.
package httpapi
