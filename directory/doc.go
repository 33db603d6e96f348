// Package directory stores user accounts for sessionauth.
//
// [Postgres] is the production implementation, backed by database/sql with the
// pgx driver and an embedded goose migration for the users table. [Memory] is a
// map-backed implementation for tests and local runs.
//
// Emails are compared exactly as stored. Uniqueness is enforced by the backing
// store and reported as [ErrDuplicateEmail].
package directory
