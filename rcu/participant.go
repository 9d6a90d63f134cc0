package rcu

import (
	"sync/atomic"
)

// Participant is one thread's (goroutine's) bookkeeping record for a
// single Engine. It is created by Register, by BindParticipant, or by
// every Read whose context carries no bound participant, lives for the lifetime of the
// Engine, and is never freed early — only the Engine's shutdown drops the
// whole registry. Stale-but-inactive records are tolerated rather than
// garbage-collected mid-lifetime; this type never attempts to shrink the
// registry.
type Participant struct {
	// active is true while a Guard obtained through this participant is
	// live. Release ordering on store, acquire on the reclaimer's scan.
	active atomic.Bool

	// localEpoch is the global epoch observed at the most recent guard
	// acquisition. Stored with release ordering (rather than relaxed and
	// piggybacked on the `active` release) for a simpler proof.
	localEpoch atomic.Uint64

	// id is informational only, assigned at registration for diagnostics
	// and debugging; it plays no part in correctness.
	id uint64

	// next links participants into the registry's append-only list.
	next atomic.Pointer[Participant]
}

func newParticipant(id uint64) *Participant {
	p := &Participant{id: id}
	p.localEpoch.Store(inactiveEpoch)
	return p
}

// ID returns the participant's informational identifier.
func (p *Participant) ID() uint64 { return p.id }

// enter advertises epoch into localEpoch and then publishes the
// participant as active, in that order: the active release is what makes
// localEpoch visible to the reclaimer.
func (p *Participant) enter(epoch uint64) {
	p.localEpoch.Store(epoch)
	p.active.Store(true)
}

// exit clears the active flag with release ordering: after this, the
// reclaimer may legally advance past any epoch this participant last
// observed.
func (p *Participant) exit() {
	p.active.Store(false)
}
