package rcu

import "errors"

// ErrNotActive is returned by Read, ReadWith, and Update when the engine
// is not in the Active lifecycle state — either not yet constructed or
// already shutting down.
var ErrNotActive = errors.New("rcu: engine is not active")

// ErrQueueFull is returned by Update when the modification queue has no
// free slot left for the new entry. The caller decides whether to retry.
var ErrQueueFull = errors.New("rcu: modification queue is full")
