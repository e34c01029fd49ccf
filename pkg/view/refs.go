package view

import (
	"sync"
	"sync/atomic"
)

// ViewRefs is the invalidation signal of one application state root.
//
// Raise may be called from any goroutine, any number of times. TakeAndClear
// must only be called from the render goroutine.
type ViewRefs struct {
	dirty  atomic.Bool
	raises atomic.Uint64

	wakeOnce sync.Once
	wake     chan struct{}
}

// NewViewRefs creates a clean ViewRefs.
func NewViewRefs() *ViewRefs {
	r := &ViewRefs{}
	r.wakeCh()
	return r
}

func (r *ViewRefs) wakeCh() chan struct{} {
	r.wakeOnce.Do(func() {
		r.wake = make(chan struct{}, 1)
	})
	return r.wake
}

// Raise marks a render as owed and wakes a blocked render loop.
// The flag is set before the wake token is offered, so a loop that wakes
// always observes it.
func (r *ViewRefs) Raise() {
	r.raises.Add(1)
	r.dirty.Store(true)

	select {
	case r.wakeCh() <- struct{}{}:
	default:
		// Already scheduled
	}
}

// Update is an alias for Raise.
func (r *ViewRefs) Update() {
	r.Raise()
}

// TakeAndClear atomically reads and resets the dirty flag, reporting
// whether a render is owed.
func (r *ViewRefs) TakeAndClear() bool {
	return r.dirty.Swap(false)
}

// Dirty reports whether a render is owed without clearing the flag.
func (r *ViewRefs) Dirty() bool {
	return r.dirty.Load()
}

// Wake returns the channel the render loop blocks on between frames.
// A receive may be spurious; always confirm with TakeAndClear.
func (r *ViewRefs) Wake() <-chan struct{} {
	return r.wakeCh()
}

// Raises returns the number of Raise calls so far.
func (r *ViewRefs) Raises() uint64 {
	return r.raises.Load()
}
