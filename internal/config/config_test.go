package config

import (
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.MaxStepPerTick = 0 }},
		{"negative servo interval", func(c *Config) { c.ServoInterval = -time.Millisecond }},
		{"zero telemetry interval", func(c *Config) { c.TelemetryInterval = 0 }},
		{"unknown transport", func(c *Config) { c.Transport = "carrier-pigeon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HANDD_MAX_STEP", "3")
	t.Setenv("HANDD_TRANSPORT", "mqtt")
	t.Setenv("HANDD_SERVO_INTERVAL", "40ms")
	t.Setenv("HANDD_SIM", "true")

	c := FromEnv()
	if c.MaxStepPerTick != 3 {
		t.Errorf("max step: got %d, want 3", c.MaxStepPerTick)
	}
	if c.Transport != "mqtt" {
		t.Errorf("transport: got %q", c.Transport)
	}
	if c.ServoInterval != 40*time.Millisecond {
		t.Errorf("servo interval: got %v", c.ServoInterval)
	}
	if !c.Sim {
		t.Error("sim should be true")
	}
}

func TestFromEnvIgnoresMalformed(t *testing.T) {
	t.Setenv("HANDD_MAX_STEP", "banana")
	c := FromEnv()
	if c.MaxStepPerTick != DefaultMaxStep {
		t.Errorf("malformed env applied: %d", c.MaxStepPerTick)
	}
}
