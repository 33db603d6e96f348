// Package session keeps the server-side copy of each subject's refresh token in Redis.
//
// # Key scheme
//
// One string key per subject, <prefix>:<subject>, holding the refresh token that is
// currently valid for that subject. Writes are a single SET with EX so the value
// and its TTL always change together; expiry is left to Redis.
//
// # Architecture boundaries
//
// The store does not parse tokens or compare them. Deciding whether a presented
// refresh token matches is the caller's job.
//
// # What this package must NOT do
//
//   - Import sessionauth or jwt (no upward imports).
//   - Write more than one key per operation.
package session
