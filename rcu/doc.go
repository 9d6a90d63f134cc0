// Package rcu provides a generic Read-Copy-Update container: a concurrent
// cell that publishes a single immutable snapshot of a value of type T and
// lets many goroutines read it with wait-free progress while writers
// propose replacements asynchronously.
//
// A reader calls Read (or ReadWith, holding a pinned Participant) to obtain
// a Guard, reads the snapshot through Guard.Value, and releases the guard
// when done. A writer calls Update with a closure that derives the next
// value from the current one; the closure runs later, on the engine's own
// reclaimer goroutine, and its result is swapped in. Old snapshots are
// freed only after a grace period during which no reader can still be
// holding them — tracked with a three-epoch scheme so relaxed orderings
// inside a single read don't risk an early free.
//
// The package is dependency-free: epoch tracking and retirement for
// concurrent object reuse is exactly the class of primitive that has no
// natural home in a third-party library, so it stays on the standard
// library alone.
package rcu
