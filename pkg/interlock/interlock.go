// Package interlock implements the safety interlock for the hand.
//
// The interlock is a single latched flag with two states, ARMED and
// TRIPPED. It is the only piece of state shared between the hardware
// trip path (which may fire from any goroutine at any instruction
// boundary) and the control loop, so it is built on sync/atomic rather
// than a mutex: Trip must be callable from an interrupt-style context
// and may do nothing beyond a flag store.
package interlock

import "sync/atomic"

// Interlock is the trip latch. The zero value is armed and ready.
type Interlock struct {
	tripped atomic.Bool

	// trips counts ARMED -> TRIPPED transitions, for diagnostics and
	// for the scheduler's once-per-trip notice.
	trips atomic.Uint64
}

// New returns an armed interlock.
func New() *Interlock {
	return &Interlock{}
}

// Trip latches the interlock. Safe to call from any goroutine,
// non-blocking, allocation-free, idempotent. Calling Trip while
// already tripped has no effect.
func (i *Interlock) Trip() {
	if i.tripped.CompareAndSwap(false, true) {
		i.trips.Add(1)
	}
}

// Tripped reports whether the interlock is latched.
func (i *Interlock) Tripped() bool {
	return i.tripped.Load()
}

// Resume re-arms the interlock. Only the synchronous command path may
// call this; it is the single transition out of TRIPPED.
func (i *Interlock) Resume() {
	i.tripped.Store(false)
}

// Trips returns the number of trips since boot.
func (i *Interlock) Trips() uint64 {
	return i.trips.Load()
}
