// Package jwt issues and checks the HS256 bearer tokens used by sessionauth.
//
// Access and refresh tokens share one claim shape ({sub, jti, iat, exp}) and one
// shared secret; they differ only in lifetime.
//
// # Architecture boundaries
//
// Two read paths exist on purpose. [Manager.Verify] performs full signature and
// expiry checks and is what the access guard uses. [Manager.Decode] only parses
// the payload; the refresh flow pairs it with an exact match against the stored
// refresh token, which is the sole authenticity check on that path.
//
// # What this package must NOT do
//
//   - Touch Redis or any other store.
//   - Log token strings.
package jwt
