package rcu

import "sync/atomic"

// Diagnostics is a point-in-time snapshot of an Engine's monotonic
// counters. It is always tracked unconditionally, the same way
// infra/sequence.Sequencer.Current is always available rather than
// gated behind a build tag. The cost is a handful of atomic adds on
// otherwise-hot paths, which is cheap next to the work those paths
// already do.
type Diagnostics struct {
	Reads          uint64
	Updates        uint64
	Reclamations   uint64
	EpochAdvances  uint64
}

// counters holds the live atomics an Engine updates as it runs.
type counters struct {
	reads         atomic.Uint64
	updates       atomic.Uint64
	reclamations  atomic.Uint64
	epochAdvances atomic.Uint64
}

func (c *counters) snapshot() Diagnostics {
	return Diagnostics{
		Reads:         c.reads.Load(),
		Updates:       c.updates.Load(),
		Reclamations:  c.reclamations.Load(),
		EpochAdvances: c.epochAdvances.Load(),
	}
}
