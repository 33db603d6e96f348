// Package middleware puts the engine's access check in front of HTTP handlers.
//
// [Guard] wraps a net/http handler and [GinGuard] is the same check as gin
// middleware. Both read the Authorization header, hand it to
// Engine.AuthenticateHeader and on success attach the principal to the request
// context with sessionauth.WithPrincipal. Every failure is a 401 that does not
// say which check failed.
package middleware
