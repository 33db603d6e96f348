// Package flows contains the orchestration behind each Engine operation.
//
// Each Run function takes a typed dependency struct and returns a result whose
// Failure field classifies what went wrong. The Engine maps those kinds onto its
// public errors, metrics and audit events, which keeps this package free of any
// root-package import.
//
// # What this package must NOT do
//
//   - Hold state between calls.
//   - Import sessionauth.
//   - Perform I/O except through its dependency functions.
package flows
