// Package hand is the control core: a cooperative multi-rate scheduler
// coordinating motion interpolation, sensor acquisition and telemetry,
// under an interlock that halts all actuation within one pass.
//
// Everything except the interlock flag is touched only by the loop
// goroutine. External callers (HTTP handlers, the console) reach the
// core through the command interface, which enqueues work onto a
// channel drained at the command-poll gate. The one exception is Stop:
// it trips the interlock directly, exactly like the hardware safety line.
package hand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neurograsp/handd/pkg/actuator"
	"github.com/neurograsp/handd/pkg/interlock"
	"github.com/neurograsp/handd/pkg/pose"
	"github.com/neurograsp/handd/pkg/sensors"
	"github.com/neurograsp/handd/pkg/telemetry"
)

var (
	// ErrUnknownPose is returned for a pose name not in the catalog.
	ErrUnknownPose = errors.New("unknown pose")

	// ErrBusy is returned when the command queue is full.
	ErrBusy = errors.New("command queue full")
)

// Config holds the scheduler cadences and motion limits.
type Config struct {
	ServoInterval     time.Duration
	SensorInterval    time.Duration
	VitalsInterval    time.Duration
	TelemetryInterval time.Duration
	CommandInterval   time.Duration
	TripCooldown      time.Duration
	MaxStepPerTick    int
}

// Status is the operator-facing view of the controller.
type Status struct {
	Snapshot telemetry.Snapshot        `json:"snapshot"`
	Targets  [actuator.NumChannels]int `json:"targets"`
	Bound    bool                      `json:"bound"`
	Tripped  bool                      `json:"tripped"`
	Trips    uint64                    `json:"trips"`
}

// command is one unit of deferred work executed on the loop goroutine.
type command struct {
	name string
	run  func(ctx context.Context, c *Controller)
}

// Controller owns all mutable control state and runs the loop.
type Controller struct {
	cfg      Config
	bank     *actuator.Bank
	catalog  *pose.Catalog
	sampler  *sensors.Sampler
	lock     *interlock.Interlock
	reporter *telemetry.Reporter
	logger   *slog.Logger

	session Session
	boot    time.Time

	commands chan command

	// Gate reference instants. Level semantics: a gate fires when
	// elapsed >= interval and then re-bases to the current instant,
	// so a delayed pass fires once with no backlog.
	lastServo     time.Time
	lastSensor    time.Time
	lastVitals    time.Time
	lastTelemetry time.Time
	lastCommand   time.Time

	// notedTrips is the trip generation already announced, for the
	// once-per-trip notice.
	notedTrips uint64

	// Published copy of Status for concurrent readers.
	statusMu sync.RWMutex
	status   Status

	// Injectable time for hardware-free tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a controller with a fresh session. No pose is commanded
// yet; the caller submits the initial pose once Run starts.
func New(cfg Config, bank *actuator.Bank, catalog *pose.Catalog, sampler *sensors.Sampler, lock *interlock.Interlock, reporter *telemetry.Reporter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	c := &Controller{
		cfg:      cfg,
		bank:     bank,
		catalog:  catalog,
		sampler:  sampler,
		lock:     lock,
		reporter: reporter,
		logger:   logger,
		boot:     now,
		session:  NewSession(now, ""),
		commands: make(chan command, 16),
		now:      time.Now,
		sleep:    time.Sleep,
	}
	c.lastServo = now
	c.lastSensor = now
	c.lastVitals = now
	c.lastTelemetry = now
	c.lastCommand = now
	return c
}

// Interlock exposes the trip latch for hardware bindings (the e-stop
// line converges on the same transition as Stop).
func (c *Controller) Interlock() *interlock.Interlock {
	return c.lock
}

// SessionID returns the session identifier. It never changes after
// boot; the current pose travels in Status.
func (c *Controller) SessionID() string {
	return c.session.ID
}

// SubmitPose commands the hand toward a named pose. The name is
// resolved against the immutable catalog up front: an unknown name is
// rejected with no state change. Motion happens on the servo cadence.
func (c *Controller) SubmitPose(name string) error {
	angles, ok := c.catalog.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPose, name)
	}
	return c.enqueue(command{
		name: "pose " + name,
		run: func(_ context.Context, c *Controller) {
			c.bank.SetTargets(angles)
			c.session.Pose = name
			c.logger.Info("pose commanded", "pose", name, "targets", angles)
		},
	})
}

// Stop trips the safety interlock. Identical effect to the hardware
// e-stop edge; it does not wait for the loop.
func (c *Controller) Stop() {
	c.lock.Trip()
}

// Resume re-arms the interlock and re-binds the actuators. This is the
// only path out of the tripped state.
func (c *Controller) Resume() error {
	return c.enqueue(command{
		name: "resume",
		run: func(ctx context.Context, c *Controller) {
			if !c.lock.Tripped() {
				return
			}
			c.lock.Resume()
			if err := c.bank.BindAll(ctx); err != nil {
				c.logger.Warn("rebind after resume failed", "error", err)
			}
			c.logger.Info("interlock resumed; actuation re-enabled")
		},
	})
}

// Status returns the latest published controller state.
func (c *Controller) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

// Poses returns the catalog names in order.
func (c *Controller) Poses() []string {
	return c.catalog.Names()
}

func (c *Controller) enqueue(cmd command) error {
	select {
	case c.commands <- cmd:
		return nil
	default:
		return ErrBusy
	}
}

// Run executes the cooperative loop until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.logger.Info("control loop started",
		"servo_interval", c.cfg.ServoInterval,
		"max_step", c.cfg.MaxStepPerTick,
		"session", c.session.ID)

	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.bank.UnbindAll(context.Background())
			c.logger.Info("control loop stopped")
			return
		case <-ticker.C:
			c.pass(ctx)
		}
	}
}

// pass is one scheduler tick. Safety is evaluated before anything
// else; while tripped, only the fail-safe path and command intake run.
func (c *Controller) pass(ctx context.Context) {
	now := c.now()

	if c.lock.Tripped() {
		c.failSafe(ctx, now)
		return
	}

	if now.Sub(c.lastServo) >= c.cfg.ServoInterval {
		c.lastServo = now
		// Tripped is re-read here: a trip landing mid-pass still
		// cuts power before this write.
		c.bank.Step(ctx, c.cfg.MaxStepPerTick, c.lock.Tripped())
	}

	if now.Sub(c.lastSensor) >= c.cfg.SensorInterval {
		c.lastSensor = now
		c.sampler.SampleFast(ctx)
	}

	if now.Sub(c.lastVitals) >= c.cfg.VitalsInterval {
		c.lastVitals = now
		c.sampler.SampleVitals(ctx)
	}

	if now.Sub(c.lastTelemetry) >= c.cfg.TelemetryInterval {
		c.lastTelemetry = now
		c.reporter.Report(ctx, c.snapshot(now))
	}

	if now.Sub(c.lastCommand) >= c.cfg.CommandInterval {
		c.lastCommand = now
		c.drainCommands(ctx)
	}

	c.publishStatus(now)
}

// failSafe is the tripped path: unbind (idempotent), announce once per
// trip generation, keep servicing commands so Resume stays reachable,
// and rate-limit the whole path with a cooldown.
func (c *Controller) failSafe(ctx context.Context, now time.Time) {
	c.bank.UnbindAll(ctx)

	if trips := c.lock.Trips(); trips != c.notedTrips {
		c.notedTrips = trips
		c.logger.Error("safety interlock tripped; actuation halted", "trip", trips)
	}

	c.drainCommands(ctx)
	c.publishStatus(now)
	c.sleep(c.cfg.TripCooldown)
}

// drainCommands runs every queued command on the loop goroutine.
func (c *Controller) drainCommands(ctx context.Context) {
	for {
		select {
		case cmd := <-c.commands:
			c.logger.Debug("command", "name", cmd.name)
			cmd.run(ctx, c)
		default:
			return
		}
	}
}

// snapshot builds the telemetry record from current in-memory state.
// Built synchronously within the pass, so it never mixes state from
// different passes.
func (c *Controller) snapshot(now time.Time) telemetry.Snapshot {
	return telemetry.Build(
		c.session.ID,
		c.session.Pose,
		now.Sub(c.boot),
		now.Sub(c.session.Start),
		c.bank.Angles(),
		c.sampler.Sample(),
	)
}

func (c *Controller) publishStatus(now time.Time) {
	st := Status{
		Snapshot: c.snapshot(now),
		Targets:  c.bank.Targets(),
		Bound:    c.bank.Bound(),
		Tripped:  c.lock.Tripped(),
		Trips:    c.lock.Trips(),
	}
	c.statusMu.Lock()
	c.status = st
	c.statusMu.Unlock()
}
