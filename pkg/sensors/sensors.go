// Package sensors acquires the physiological channels of the hand:
// the fast analog pair (GSR, EMG) read every sensor tick, and the
// presence-gated optical pulse channel (heart rate, SpO2) read at a
// slower cadence.
//
// Hardware sits behind two capability interfaces so the sampler runs
// against a serial co-processor, synthetic waveforms, or test mocks
// interchangeably.
package sensors

import (
	"context"
	"log/slog"
	"time"
)

// Sample is the current sensor state. HeartRate and SpO2 hold the last
// valid reading when no finger is on the pulse sensor; a stale vital
// beats a false zero.
type Sample struct {
	GSR       float64
	EMG       float64
	HeartRate int
	SpO2      int
	Presence  bool
	Timestamp time.Time
}

// AnalogFrontend reads the two continuous analog channels.
type AnalogFrontend interface {
	ReadAnalog(ctx context.Context) (gsr, emg float64, err error)
}

// OpticalReading is one read of the pulse oximetry frontend. Intensity
// is the raw IR level used for presence detection; HeartRate and SpO2
// are the frontend's current estimates, meaningful only with contact.
type OpticalReading struct {
	Intensity int
	HeartRate int
	SpO2      int
}

// OpticalFrontend reads the optical biosignal channel.
type OpticalFrontend interface {
	ReadOptical(ctx context.Context) (OpticalReading, error)
}

// Sampler owns the current Sample. It is driven by the control loop;
// only the loop context touches it.
type Sampler struct {
	analog    AnalogFrontend
	optical   OpticalFrontend
	threshold int
	logger    *slog.Logger

	sample Sample

	now func() time.Time
}

// NewSampler creates a sampler. threshold is the raw optical intensity
// above which a finger counts as present.
func NewSampler(analog AnalogFrontend, optical OpticalFrontend, threshold int, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sampler{
		analog:    analog,
		optical:   optical,
		threshold: threshold,
		logger:    logger,
		now:       time.Now,
	}
}

// SampleFast reads the analog pair unconditionally and updates the
// current sample. Read errors keep the previous values.
func (s *Sampler) SampleFast(ctx context.Context) {
	gsr, emg, err := s.analog.ReadAnalog(ctx)
	if err != nil {
		s.logger.Debug("analog read failed", "error", err)
		return
	}
	s.sample.GSR = gsr
	s.sample.EMG = emg
	s.sample.Timestamp = s.now()
}

// SampleVitals reads the optical channel. Heart rate and SpO2 are only
// updated when the raw intensity clears the presence threshold;
// otherwise the prior values are retained and only the presence flag
// drops.
func (s *Sampler) SampleVitals(ctx context.Context) {
	r, err := s.optical.ReadOptical(ctx)
	if err != nil {
		s.logger.Debug("optical read failed", "error", err)
		return
	}

	s.sample.Presence = r.Intensity >= s.threshold
	if !s.sample.Presence {
		return
	}
	s.sample.HeartRate = r.HeartRate
	s.sample.SpO2 = r.SpO2
}

// Sample returns the current sensor state.
func (s *Sampler) Sample() Sample {
	return s.sample
}
