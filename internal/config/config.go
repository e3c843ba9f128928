// Package config provides configuration for the handd daemon.
// Precedence: built-in defaults < environment < command-line flags
// (flags are bound by cmd/handd).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default task cadences for the cooperative scheduler.
const (
	DefaultServoInterval     = 20 * time.Millisecond
	DefaultSensorInterval    = 10 * time.Millisecond
	DefaultVitalsInterval    = 100 * time.Millisecond
	DefaultTelemetryInterval = 1 * time.Second
	DefaultCommandInterval   = 50 * time.Millisecond
	DefaultTripCooldown      = 1 * time.Second
)

// DefaultMaxStep is the per-tick actuator step limit in degrees.
const DefaultMaxStep = 5

// DefaultPresenceThreshold is the raw optical intensity above which a
// finger is considered present on the pulse sensor.
const DefaultPresenceThreshold = 50000

// Config holds the full daemon configuration.
type Config struct {
	// Scheduler cadences.
	ServoInterval     time.Duration
	SensorInterval    time.Duration
	VitalsInterval    time.Duration
	TelemetryInterval time.Duration
	CommandInterval   time.Duration
	TripCooldown      time.Duration

	// Motion.
	MaxStepPerTick int

	// Sensors.
	PresenceThreshold int

	// Hardware.
	ServoPort  string // Feetech serial bus, e.g. /dev/ttyACM0
	SensorPort string // sensor co-processor UART, e.g. /dev/ttyUSB0
	Sim        bool   // mock hardware instead of serial devices

	// Command API.
	ListenAddr string

	// Telemetry egress. Transport is one of "http", "ws", "mqtt", "none".
	Transport    string
	CollectorURL string // http(s):// or ws:// endpoint, or mqtt broker URI
	MQTTTopic    string

	// Poses.
	PoseFile string // optional JSON pose table merged over the defaults

	LogLevel string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServoInterval:     DefaultServoInterval,
		SensorInterval:    DefaultSensorInterval,
		VitalsInterval:    DefaultVitalsInterval,
		TelemetryInterval: DefaultTelemetryInterval,
		CommandInterval:   DefaultCommandInterval,
		TripCooldown:      DefaultTripCooldown,
		MaxStepPerTick:    DefaultMaxStep,
		PresenceThreshold: DefaultPresenceThreshold,
		ServoPort:         "/dev/ttyACM0",
		SensorPort:        "/dev/ttyUSB0",
		ListenAddr:        ":8090",
		Transport:         "http",
		CollectorURL:      "http://localhost:9090/api/telemetry",
		MQTTTopic:         "handd/telemetry",
		LogLevel:          "info",
	}
}

// FromEnv returns the default configuration with environment overrides
// applied. Unset variables leave defaults untouched.
func FromEnv() Config {
	c := Default()
	envStr(&c.ServoPort, "HANDD_SERVO_PORT")
	envStr(&c.SensorPort, "HANDD_SENSOR_PORT")
	envStr(&c.ListenAddr, "HANDD_LISTEN")
	envStr(&c.Transport, "HANDD_TRANSPORT")
	envStr(&c.CollectorURL, "HANDD_COLLECTOR_URL")
	envStr(&c.MQTTTopic, "HANDD_MQTT_TOPIC")
	envStr(&c.PoseFile, "HANDD_POSE_FILE")
	envStr(&c.LogLevel, "HANDD_LOG_LEVEL")
	envInt(&c.MaxStepPerTick, "HANDD_MAX_STEP")
	envInt(&c.PresenceThreshold, "HANDD_PRESENCE_THRESHOLD")
	envDur(&c.ServoInterval, "HANDD_SERVO_INTERVAL")
	envDur(&c.SensorInterval, "HANDD_SENSOR_INTERVAL")
	envDur(&c.VitalsInterval, "HANDD_VITALS_INTERVAL")
	envDur(&c.TelemetryInterval, "HANDD_TELEMETRY_INTERVAL")
	envBool(&c.Sim, "HANDD_SIM")
	return c
}

// Validate rejects configurations the scheduler cannot run with.
func (c Config) Validate() error {
	if c.MaxStepPerTick < 1 {
		return fmt.Errorf("max step per tick must be >= 1, got %d", c.MaxStepPerTick)
	}
	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"servo", c.ServoInterval},
		{"sensor", c.SensorInterval},
		{"vitals", c.VitalsInterval},
		{"telemetry", c.TelemetryInterval},
		{"command", c.CommandInterval},
	} {
		if iv.d <= 0 {
			return fmt.Errorf("%s interval must be positive, got %v", iv.name, iv.d)
		}
	}
	switch c.Transport {
	case "http", "ws", "mqtt", "none":
	default:
		return fmt.Errorf("unknown telemetry transport %q", c.Transport)
	}
	return nil
}

func envStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envDur(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
