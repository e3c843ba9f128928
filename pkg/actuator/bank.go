package actuator

import (
	"context"
	"log/slog"
)

// Channel is one finger actuator. Angles are integer degrees [0,180].
// An unbound channel is unpowered: it cannot move and ignores commands.
type Channel struct {
	ID      int
	Name    string
	Current int
	Target  int
	Bound   bool
}

// Bank is the set of five actuator channels. It is owned by the
// control loop; only the loop context touches it.
type Bank struct {
	channels [NumChannels]Channel
	bus      ServoBus
	logger   *slog.Logger
}

// NewBank creates a bank with all channels at angle 0, bound to bus.
func NewBank(bus ServoBus, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bank{bus: bus, logger: logger}
	for i := range b.channels {
		b.channels[i] = Channel{ID: i, Name: FingerNames[i], Bound: true}
	}
	return b
}

// BindAll powers up every channel. Called at startup and on resume
// after a trip. Returns the bus error, if any; channels are marked
// bound regardless so open-loop stepping resumes.
func (b *Bank) BindAll(ctx context.Context) error {
	for i := range b.channels {
		b.channels[i].Bound = true
	}
	if err := b.bus.EngageAll(ctx); err != nil {
		b.logger.Warn("servo engage failed", "error", err)
		return err
	}
	return nil
}

// UnbindAll cuts torque on every channel. Idempotent: already-unbound
// banks skip the bus call.
func (b *Bank) UnbindAll(ctx context.Context) {
	already := true
	for i := range b.channels {
		if b.channels[i].Bound {
			already = false
		}
		b.channels[i].Bound = false
	}
	if already {
		return
	}
	if err := b.bus.ReleaseAll(ctx); err != nil {
		b.logger.Warn("servo release failed", "error", err)
	}
}

// SetTargets updates the target angle of every channel. Out-of-range
// values are clamped to [0,180], not rejected. No motion happens here;
// Step moves the channels on the servo cadence.
func (b *Bank) SetTargets(angles [NumChannels]int) {
	for i := range b.channels {
		b.channels[i].Target = clamp(angles[i], 0, MaxAngle)
	}
}

// Step advances every bound channel at most maxStep degrees toward its
// target and writes the new position to the bus. If tripped, it unbinds
// everything and returns false without touching angles. Returns true
// iff any channel moved this tick.
//
// Convergence: for step size S and distance D, a channel reaches its
// target in exactly ceil(D/S) ticks, the last step being the remainder.
func (b *Bank) Step(ctx context.Context, maxStep int, tripped bool) bool {
	if tripped {
		b.UnbindAll(ctx)
		return false
	}

	moved := false
	for i := range b.channels {
		ch := &b.channels[i]
		if !ch.Bound || ch.Current == ch.Target {
			continue
		}
		step := clamp(ch.Target-ch.Current, -maxStep, maxStep)
		ch.Current += step
		moved = true
		if err := b.bus.WriteAngle(ctx, ch.ID, ch.Current); err != nil {
			// Open-loop drive: a failed write is logged and the
			// interpolation carries on from the in-memory angle.
			b.logger.Warn("servo write failed", "channel", ch.Name, "error", err)
		}
	}
	return moved
}

// Angles returns the current angle of each channel in wire order.
func (b *Bank) Angles() [NumChannels]int {
	var out [NumChannels]int
	for i, ch := range b.channels {
		out[i] = ch.Current
	}
	return out
}

// Targets returns the target angle of each channel in wire order.
func (b *Bank) Targets() [NumChannels]int {
	var out [NumChannels]int
	for i, ch := range b.channels {
		out[i] = ch.Target
	}
	return out
}

// Bound reports whether all channels are powered.
func (b *Bank) Bound() bool {
	for _, ch := range b.channels {
		if !ch.Bound {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
