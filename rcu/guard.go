package rcu

// Guard is a scoped handle representing an in-progress read critical
// section, returned by Engine.Read / Engine.ReadWith. Callers must call
// Release when done; the value returned by Value must not be retained
// past that call.
type Guard[T any] struct {
	engine *Engine[T]
	p      *Participant
	value  T
	done   bool
}

// Value returns the payload that was published at some moment during the
// guard's lifetime. The borrow is only valid until Release.
func (g *Guard[T]) Value() T {
	return g.value
}

// Release ends the read critical section. Calling it twice is harmless:
// a second call does nothing.
func (g *Guard[T]) Release() {
	if g.done {
		return
	}
	g.done = true
	g.p.exit()
}
