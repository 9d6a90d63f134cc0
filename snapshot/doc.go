// Package snapshot persists and restores the matching engine's order
// book to disk as a point-in-time checkpoint.
//
// Consistency while reading the live book no longer comes from a
// dedicated epoch reader here: the caller obtains a consistent view via
// rcu.Engine.Read and passes the guarded value straight to Write.
package snapshot
