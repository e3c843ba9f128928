package sensors

import (
	"context"
	"math"
	"time"
)

// SimFrontend generates synthetic sensor waveforms for -sim mode and
// demos: a slow GSR drift, an EMG burst pattern, and a pulse channel
// that always reports contact with a gently wandering heart rate.
type SimFrontend struct {
	start time.Time
	// Intensity reported on the optical channel. Set below the
	// presence threshold to simulate a lifted finger.
	Intensity int
}

// NewSimFrontend returns a frontend reporting contact (intensity well
// above the default presence threshold).
func NewSimFrontend() *SimFrontend {
	return &SimFrontend{start: time.Now(), Intensity: 60000}
}

func (s *SimFrontend) elapsed() float64 {
	return time.Since(s.start).Seconds()
}

// ReadAnalog returns synthetic GSR/EMG values.
func (s *SimFrontend) ReadAnalog(context.Context) (float64, float64, error) {
	t := s.elapsed()
	gsr := 512 + 40*math.Sin(t/7)
	emg := 300 + 120*math.Abs(math.Sin(t*3))
	return gsr, emg, nil
}

// ReadOptical returns a synthetic pulse reading.
func (s *SimFrontend) ReadOptical(context.Context) (OpticalReading, error) {
	t := s.elapsed()
	return OpticalReading{
		Intensity: s.Intensity,
		HeartRate: 72 + int(4*math.Sin(t/11)),
		SpO2:      98,
	}, nil
}
