// Package telemetry assembles and ships the periodic telemetry record.
//
// The Snapshot is a point-in-time view of session, motion and sensor
// state, built synchronously from the control loop's in-memory state so
// it never mixes values from different passes. Egress is best-effort:
// a failed emit is logged and dropped, never retried or queued.
package telemetry

import (
	"time"

	"github.com/neurograsp/handd/pkg/actuator"
	"github.com/neurograsp/handd/pkg/sensors"
)

// Snapshot is the wire record sent to the collector once per reporting
// tick. Field order is part of the contract with the collector.
type Snapshot struct {
	SessionID string                    `json:"session_id"`
	UptimeMS  int64                     `json:"uptime_ms"`
	Pose      string                    `json:"pose"`
	Angles    [actuator.NumChannels]int `json:"angles"` // [thumb, index, middle, ring, pinky]
	GSR       float64                   `json:"gsr"`
	EMG       float64                   `json:"emg"`
	HeartRate int                       `json:"heart_rate"`
	SpO2      int                       `json:"spo2"`
	DurationS int64                     `json:"duration_s"`
}

// Build assembles a snapshot. Pure; no failure mode.
func Build(sessionID, poseName string, uptime, sessionDuration time.Duration, angles [actuator.NumChannels]int, sample sensors.Sample) Snapshot {
	return Snapshot{
		SessionID: sessionID,
		UptimeMS:  uptime.Milliseconds(),
		Pose:      poseName,
		Angles:    angles,
		GSR:       sample.GSR,
		EMG:       sample.EMG,
		HeartRate: sample.HeartRate,
		SpO2:      sample.SpO2,
		DurationS: int64(sessionDuration.Seconds()),
	}
}
