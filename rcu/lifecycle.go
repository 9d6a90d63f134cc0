package rcu

import "sync/atomic"

// lifecycleState is the Initializing -> Active -> ShuttingDown ->
// Terminated state machine governing an Engine's life.
type lifecycleState int32

const (
	stateInitializing lifecycleState = iota
	stateActive
	stateShuttingDown
	stateTerminated
)

// lifecycle wraps the state as an atomic so Read/Update can check it
// without any lock, and Close can transition it with a single CAS.
type lifecycle struct {
	state atomic.Int32
}

func newLifecycle() *lifecycle {
	l := &lifecycle{}
	l.state.Store(int32(stateInitializing))
	return l
}

func (l *lifecycle) current() lifecycleState {
	return lifecycleState(l.state.Load())
}

func (l *lifecycle) activate() {
	l.state.Store(int32(stateActive))
}

// beginShutdown transitions Active -> ShuttingDown and reports whether
// this call won the race. If it observes a non-Active state, the
// caller's Close becomes a no-op.
func (l *lifecycle) beginShutdown() bool {
	return l.state.CompareAndSwap(int32(stateActive), int32(stateShuttingDown))
}

func (l *lifecycle) terminate() {
	l.state.Store(int32(stateTerminated))
}
