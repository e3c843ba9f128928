package hand

import (
	"time"

	"github.com/google/uuid"
)

// Session is the per-power-cycle session context. It is created once
// at boot and ends implicitly at power-off; only the current pose name
// mutates, and only from the control loop.
type Session struct {
	ID    string
	Start time.Time
	Pose  string
}

// NewSession creates a session starting now with the given initial
// pose name.
func NewSession(now time.Time, initialPose string) Session {
	return Session{
		ID:    uuid.NewString(),
		Start: now,
		Pose:  initialPose,
	}
}
