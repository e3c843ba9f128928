package actuator

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"
)

// ServoCalibration maps a channel's degree range onto raw servo counts.
// STS-series servos use 4096 counts per revolution, so 180 degrees of
// finger travel spans 2048 counts around center.
type ServoCalibration struct {
	ID       int  // servo bus ID
	MinCount int  // raw count at 0 degrees
	MaxCount int  // raw count at 180 degrees
	Invert   bool // reversed horn
}

// DefaultCalibration returns the stock mapping for servo IDs 1-5 with
// travel centered in the count range.
func DefaultCalibration() [NumChannels]ServoCalibration {
	var cal [NumChannels]ServoCalibration
	for i := range cal {
		cal[i] = ServoCalibration{ID: i + 1, MinCount: 1024, MaxCount: 3072}
	}
	return cal
}

// counts converts an angle in degrees to raw servo counts.
func (c ServoCalibration) counts(angle int) int {
	span := c.MaxCount - c.MinCount
	raw := c.MinCount + angle*span/MaxAngle
	if c.Invert {
		raw = c.MaxCount - (raw - c.MinCount)
	}
	return raw
}

// Ensure FeetechBus implements ServoBus.
var _ ServoBus = (*FeetechBus)(nil)

// FeetechBus drives the five finger servos over a Feetech STS serial
// bus.
type FeetechBus struct {
	bus   *feetech.Bus
	group *feetech.ServoGroup
	cal   [NumChannels]ServoCalibration
}

// NewFeetechBus opens the serial bus on port and builds a servo group
// from the calibration IDs.
func NewFeetechBus(port string, cal [NumChannels]ServoCalibration) (*FeetechBus, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open servo bus: %w", err)
	}

	ids := make([]int, NumChannels)
	for i, c := range cal {
		ids[i] = c.ID
	}
	return &FeetechBus{
		bus:   bus,
		group: feetech.NewServoGroupByIDs(bus, ids...),
		cal:   cal,
	}, nil
}

// WriteAngle positions one channel.
func (f *FeetechBus) WriteAngle(ctx context.Context, channel int, angle int) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("channel %d out of range", channel)
	}
	cal := f.cal[channel]
	positions := feetech.PositionMap{cal.ID: cal.counts(angle)}
	if err := f.group.SetPositions(ctx, positions); err != nil {
		return fmt.Errorf("write channel %d: %w", channel, err)
	}
	return nil
}

// EngageAll enables torque on all servos.
func (f *FeetechBus) EngageAll(ctx context.Context) error {
	return f.group.EnableAll(ctx)
}

// ReleaseAll disables torque on all servos. This is the hardware
// power-cutoff behind the interlock's fail-safe path.
func (f *FeetechBus) ReleaseAll(ctx context.Context) error {
	return f.group.DisableAll(ctx)
}

// Close closes the serial bus.
func (f *FeetechBus) Close() error {
	return f.bus.Close()
}
