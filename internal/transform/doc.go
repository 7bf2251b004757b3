// Package transform implements the session transformation engine: turn
// boundary detection, the removal/truncation policy engine, parent-link
// chain repair after deletion, and assembly of the derivative log.
//
// All stages are synchronous, pure transforms over an in-memory entry
// sequence. The source sequence is never mutated; every stage returns a
// new slice, and entry mutations go through the session package's
// raw-preserving edit helpers.
package transform
