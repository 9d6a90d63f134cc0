package rcu

import (
	"fmt"
	"log"
	"time"
)

// runReclaimer is the single background goroutine an Engine owns for its
// whole lifetime. Each cycle applies queued updates, advances the epoch
// and reclaims what is now safe, then waits for either a new submission,
// its timeout, or shutdown. After the main loop exits it performs one
// last drain and three additional reclaim passes: a conservative fixed
// count rather than a proven-minimal one, chosen over loop-until-empty
// for a simpler termination argument. It then destroys the value that
// is still published.
func (e *Engine[T]) runReclaimer() {
	timer := time.NewTimer(e.cfg.ReclaimInterval)
	defer timer.Stop()

	for e.life.current() == stateActive {
		e.applyPending()
		e.advanceAndReclaim()

		if e.life.current() != stateActive {
			break
		}

		resetTimer(timer, e.cfg.ReclaimInterval)
		select {
		case <-e.wake:
		case <-timer.C:
		case <-e.shutdown:
		}
	}

	// Shutdown drain.
	e.applyPending()
	for i := 0; i < 3; i++ {
		e.advanceAndReclaim()
	}

	// The value still published is retired last: no reader can reach it
	// once the engine has left Active and all guards are released.
	if e.bags.destroy != nil {
		e.bags.destroy(e.currentValue())
	}

	e.life.terminate()
	close(e.stopped)
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// applyPending drains the modification queue, applying each update in
// enqueue order so that later entries in the same drain observe the
// effect of earlier ones.
func (e *Engine[T]) applyPending() {
	for {
		entry, ok := e.queue.pop()
		if !ok {
			return
		}

		cur := e.currentValue()
		next, err := callUpdate(entry.fn, cur)
		if err != nil {
			// Update-function errors are logged and swallowed: the
			// shared pointer is left unchanged and the queue has
			// already advanced past this entry.
			log.Printf("rcu: update function returned an error, skipping: %v", err)
			continue
		}

		old := e.swapPublish(next)
		retireEpoch := e.epoch.load()
		e.bags.retire(old, retireEpoch)
		e.diag.updates.Add(1)
	}
}

// callUpdate runs fn and converts a panic into an error, so a single
// broken UpdateFunc is logged and skipped like any other failing update
// instead of taking down the reclaimer goroutine — and with it, every
// future Read and Update on this Engine.
func callUpdate[T any](fn UpdateFunc[T], cur T) (next T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("update function panicked: %v", r)
		}
	}()
	return fn(cur)
}

// advanceAndReclaim advances the epoch only if every active participant
// has already observed at least the current epoch; a successful advance
// to E+1 >= 2 makes bag (E+1-2) mod 3 safe to free.
func (e *Engine[T]) advanceAndReclaim() {
	epoch := e.epoch.load()

	canAdvance := true
	e.reg.forEach(func(p *Participant) {
		if !canAdvance {
			return
		}
		if p.active.Load() && p.localEpoch.Load() < epoch {
			canAdvance = false
		}
	})
	if !canAdvance {
		return
	}

	next, ok := e.epoch.tryAdvance(epoch)
	if !ok {
		return
	}
	e.diag.epochAdvances.Add(1)

	if next < 2 {
		return
	}
	reclaimed := e.bags.reclaim(next - 2)
	if reclaimed > 0 {
		e.diag.reclamations.Add(uint64(reclaimed))
	}
}
