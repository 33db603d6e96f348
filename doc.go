// Package sessionauth authenticates users with short-lived JWT access tokens and
// a single Redis-held refresh token per subject.
//
// Login verifies an email/password pair against a [UserDirectory], issues an
// access token (60s) and a refresh token (3600s), and stores the refresh token
// under refresh:<email>, replacing whatever was there. Refresh accepts a refresh
// token only while it is the one stored for its subject. Protected calls present
// the access token as a bearer credential and are fully verified.
//
// Engine methods are safe for concurrent use once [Builder.Build] returns.
//
// # Architecture boundaries
//
// sessionauth is the public surface: [Engine], [Builder], [Config] and value
// types. Orchestration lives in internal/flows. Token signing lives in jwt,
// refresh custody in session, hashing in password and account storage in
// directory.
//
// # Refresh authenticity
//
// The refresh path decodes the presented token without checking its signature
// or expiry and relies on exact equality with the stored token. A token that was
// never stored, or has been replaced by a later login, or whose record has
// expired in Redis, is rejected. The access guard is stricter and always checks
// signature and expiry.
//
// # What this package must NOT do
//
//   - Log or audit plaintext passwords, hashes or token strings.
//   - Expose Redis clients or database handles in its public API.
//   - Import a sub-package that imports sessionauth.
package sessionauth
