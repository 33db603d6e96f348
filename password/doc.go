// Package password hashes and verifies user passwords.
//
// Two algorithms are available behind the [Hasher] interface: bcrypt, tuned by a
// single integer work factor (the default), and argon2id encoded in PHC format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// # Architecture boundaries
//
// This package owns hashing and comparison only. Password strength rules are
// enforced at the transport boundary before a plaintext ever reaches a Hasher.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords.
//   - Import any other sessionauth package.
//   - Log plaintext passwords or hashes.
package password
