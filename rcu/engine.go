package rcu

import (
	"context"
	"sync/atomic"
)

// Engine is a generic RCU container publishing a single immutable
// snapshot of T. Construct one with New; it owns a background reclaimer
// goroutine for its entire lifetime, stopped by Close.
type Engine[T any] struct {
	cfg Config

	shared atomic.Pointer[T]
	epoch  epochClock

	reg   *registry
	queue *modQueue[T]
	bags  *bags[T]
	life  *lifecycle
	diag  counters

	wake     chan struct{}
	shutdown chan struct{}
	stopped  chan struct{}
}

// New constructs an Engine publishing initial as its first snapshot and
// starts its reclaimer goroutine. destroy is invoked exactly once per
// retired value, including the value displaced by every successful
// Update and the one still published at Close; it may be nil if T needs
// no cleanup.
func New[T any](initial T, destroy func(T), cfg Config) *Engine[T] {
	cfg = cfg.withDefaults()

	e := &Engine[T]{
		cfg:      cfg,
		reg:      newRegistry(),
		queue:    newModQueue[T](cfg.MaxPendingMods),
		bags:     newBags[T](cfg.MaxRetiredPerEpoch, destroy),
		life:     newLifecycle(),
		wake:     make(chan struct{}, 1),
		shutdown: make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	boxed := new(T)
	*boxed = initial
	e.shared.Store(boxed)

	e.life.activate()
	go e.runReclaimer()

	return e
}

// Register creates and returns a new Participant record for this Engine.
// Callers that intend to read repeatedly should hold onto the returned
// handle and pass it to ReadWith instead of calling Read, which
// registers a fresh, permanent participant on every ad hoc call.
func (e *Engine[T]) Register() *Participant {
	return e.reg.create()
}

type participantCtxKey[T any] struct{ engine *Engine[T] }

// BindParticipant registers a participant and returns a context carrying
// it, so a later Read(ctx) call on the same Engine reuses it instead of
// registering a new one. Bind once per long-lived goroutine or request,
// then thread the context through.
func (e *Engine[T]) BindParticipant(ctx context.Context) (context.Context, *Participant) {
	p := e.Register()
	return context.WithValue(ctx, participantCtxKey[T]{engine: e}, p), p
}

// Read obtains a Guard for the calling goroutine. If ctx carries a
// Participant bound by BindParticipant for this Engine, it is reused;
// otherwise a new, permanently-registered Participant is created for
// this single read, tolerating the stale-but-inactive registry growth
// that costs ad hoc callers.
func (e *Engine[T]) Read(ctx context.Context) (*Guard[T], error) {
	if ctx != nil {
		if p, ok := ctx.Value(participantCtxKey[T]{engine: e}).(*Participant); ok && p != nil {
			return e.ReadWith(p)
		}
	}
	return e.ReadWith(e.Register())
}

// ReadWith is the fast-path read: it performs no registry mutation and no
// allocation beyond the returned Guard.
func (e *Engine[T]) ReadWith(p *Participant) (*Guard[T], error) {
	if e.life.current() != stateActive {
		return nil, ErrNotActive
	}

	epoch := e.epoch.load()
	p.enter(epoch)

	ptr := e.shared.Load()
	e.diag.reads.Add(1)

	return &Guard[T]{engine: e, p: p, value: *ptr}, nil
}

// Update enqueues fn to run on the reclaimer goroutine against whatever
// value is published when its turn comes, and wakes the reclaimer. It
// never waits for the reclaimer or for queue space (it only holds the
// queue's short producer mutex): it either succeeds, or returns
// ErrQueueFull / ErrNotActive immediately.
func (e *Engine[T]) Update(ctx context.Context, fn UpdateFunc[T]) error {
	if e.life.current() != stateActive {
		return ErrNotActive
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if !e.queue.push(modEntry[T]{fn: fn}) {
		return ErrQueueFull
	}

	select {
	case e.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close performs a blocking shutdown: it moves the engine from Active to
// ShuttingDown, wakes the reclaimer for its final drain, and waits for it
// to terminate. If the engine was already not Active, Close is a no-op.
// Calling Close while readers still hold guards is a caller precondition
// violation, not something this method defends against.
func (e *Engine[T]) Close(ctx context.Context) error {
	if !e.life.beginShutdown() {
		return nil
	}
	close(e.shutdown)

	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-e.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Diagnostics returns a snapshot of the engine's monotonic counters.
func (e *Engine[T]) Diagnostics() Diagnostics {
	return e.diag.snapshot()
}

func (e *Engine[T]) currentValue() T {
	return *e.shared.Load()
}

func (e *Engine[T]) swapPublish(next T) (old T) {
	boxed := new(T)
	*boxed = next
	oldPtr := e.shared.Swap(boxed)
	return *oldPtr
}
