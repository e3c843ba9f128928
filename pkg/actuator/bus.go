// Package actuator drives the five finger servos of the hand.
//
// The Bank owns per-channel current/target angles and realizes
// bounded-rate interpolation toward the commanded pose. Hardware sits
// behind the ServoBus capability interface so the bank is testable
// without a serial bus attached.
package actuator

import "context"

// NumChannels is the number of finger actuators.
const NumChannels = 5

// MaxAngle is the upper bound of a channel angle in degrees.
const MaxAngle = 180

// FingerNames lists the channels in wire order. Telemetry and pose
// vectors use this order everywhere.
var FingerNames = [NumChannels]string{"thumb", "index", "middle", "ring", "pinky"}

// ServoBus is the hardware capability the bank needs: position one
// channel, or cut torque on all of them. Implementations must treat
// ReleaseAll as idempotent.
type ServoBus interface {
	// WriteAngle positions one channel, angle in degrees [0,180].
	WriteAngle(ctx context.Context, channel int, angle int) error

	// EngageAll powers and holds all channels (torque on).
	EngageAll(ctx context.Context) error

	// ReleaseAll cuts torque on all channels.
	ReleaseAll(ctx context.Context) error
}

// NopBus is a ServoBus that does nothing. Used in -sim mode.
type NopBus struct{}

func (NopBus) WriteAngle(context.Context, int, int) error { return nil }
func (NopBus) EngageAll(context.Context) error            { return nil }
func (NopBus) ReleaseAll(context.Context) error           { return nil }
