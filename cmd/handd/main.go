// handd is the on-device controller daemon for the rehabilitation
// hand: it drives the finger servos toward commanded poses, samples the
// physiological sensors, reports telemetry to the collector, and
// enforces the safety interlock.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/neurograsp/handd/internal/config"
	"github.com/neurograsp/handd/internal/log"
	"github.com/neurograsp/handd/pkg/actuator"
	"github.com/neurograsp/handd/pkg/api"
	"github.com/neurograsp/handd/pkg/hand"
	"github.com/neurograsp/handd/pkg/interlock"
	"github.com/neurograsp/handd/pkg/pose"
	"github.com/neurograsp/handd/pkg/sensors"
	"github.com/neurograsp/handd/pkg/telemetry"
)

func main() {
	cfg := config.FromEnv()
	flag.BoolVar(&cfg.Sim, "sim", cfg.Sim, "mock hardware (no serial devices)")
	flag.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "command API listen address")
	flag.StringVar(&cfg.ServoPort, "servo-port", cfg.ServoPort, "feetech servo bus port")
	flag.StringVar(&cfg.SensorPort, "sensor-port", cfg.SensorPort, "sensor co-processor port")
	flag.StringVar(&cfg.Transport, "transport", cfg.Transport, "telemetry transport: http, ws, mqtt, none")
	flag.StringVar(&cfg.CollectorURL, "collector", cfg.CollectorURL, "collector endpoint or broker URI")
	flag.StringVar(&cfg.PoseFile, "pose-file", cfg.PoseFile, "optional JSON pose table")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, error")
	flag.Parse()

	log.Init(cfg.LogLevel)
	logger := log.L()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("handd exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", "signal", sig.String())
		cancel()
	}()

	// Pose catalog: defaults, optionally overlaid by a pose file.
	poses := pose.Defaults()
	if cfg.PoseFile != "" {
		extra, err := pose.LoadFile(cfg.PoseFile)
		if err != nil {
			return fmt.Errorf("load pose file: %w", err)
		}
		poses = pose.Merge(poses, extra)
		log.Info("pose file loaded", "path", cfg.PoseFile)
	}
	catalog, err := pose.NewCatalog(poses)
	if err != nil {
		return fmt.Errorf("build pose catalog: %w", err)
	}

	lock := interlock.New()

	// Actuators.
	var bus actuator.ServoBus
	if cfg.Sim {
		bus = actuator.NopBus{}
		log.Info("simulated servo bus")
	} else {
		fb, err := actuator.NewFeetechBus(cfg.ServoPort, actuator.DefaultCalibration())
		if err != nil {
			return fmt.Errorf("servo bus: %w", err)
		}
		defer fb.Close()
		bus = fb
		log.Info("servo bus open", "port", cfg.ServoPort)
	}
	bank := actuator.NewBank(bus, log.For("actuator"))
	if err := bank.BindAll(ctx); err != nil {
		log.Warn("initial servo engage failed, continuing open-loop", "error", err)
	}

	// Sensors. The serial frontend also carries the hardware e-stop
	// line, which converges on the same interlock transition as the
	// stop command.
	var (
		analog  sensors.AnalogFrontend
		optical sensors.OpticalFrontend
	)
	if cfg.Sim {
		sim := sensors.NewSimFrontend()
		analog, optical = sim, sim
		log.Info("simulated sensor frontend")
	} else {
		sf, err := sensors.NewSerialFrontend(cfg.SensorPort, log.For("sensors"))
		if err != nil {
			return fmt.Errorf("sensor frontend: %w", err)
		}
		defer sf.Close()
		sf.OnTrip(lock.Trip)
		go sf.Run(ctx)
		analog, optical = sf, sf
		log.Info("sensor frontend open", "port", cfg.SensorPort)
	}
	sampler := sensors.NewSampler(analog, optical, cfg.PresenceThreshold, log.For("sensors"))

	// Telemetry egress.
	col, err := buildCollector(cfg)
	if err != nil {
		return fmt.Errorf("telemetry collector: %w", err)
	}
	reporter := telemetry.NewReporter(col, log.For("telemetry"))
	defer reporter.Close()

	ctrl := hand.New(hand.Config{
		ServoInterval:     cfg.ServoInterval,
		SensorInterval:    cfg.SensorInterval,
		VitalsInterval:    cfg.VitalsInterval,
		TelemetryInterval: cfg.TelemetryInterval,
		CommandInterval:   cfg.CommandInterval,
		TripCooldown:      cfg.TripCooldown,
		MaxStepPerTick:    cfg.MaxStepPerTick,
	}, bank, catalog, sampler, lock, reporter, log.For("hand"))

	// Command API.
	server := api.NewServer(cfg.ListenAddr, ctrl)
	go func() {
		if err := server.Listen(); err != nil {
			log.Error("command API stopped", "error", err)
			cancel()
		}
	}()
	defer server.Shutdown()
	log.Info("command API listening", "addr", cfg.ListenAddr)

	// Operator console on stdin.
	go runConsole(ctx, ctrl, cancel)

	if err := ctrl.SubmitPose("rest"); err != nil {
		log.Warn("initial pose not commanded", "error", err)
	}

	ctrl.Run(ctx)
	return nil
}

// buildCollector selects the telemetry transport.
func buildCollector(cfg config.Config) (telemetry.Collector, error) {
	switch cfg.Transport {
	case "http":
		return telemetry.NewHTTPCollector(cfg.CollectorURL), nil
	case "ws":
		return telemetry.NewWSCollector(cfg.CollectorURL), nil
	case "mqtt":
		clientID := "handd-" + uuid.NewString()[:8]
		return telemetry.NewMQTTCollector(cfg.CollectorURL, cfg.MQTTTopic, clientID)
	case "none":
		return telemetry.NopCollector{}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
