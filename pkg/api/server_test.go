package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/neurograsp/handd/pkg/actuator"
	"github.com/neurograsp/handd/pkg/hand"
	"github.com/neurograsp/handd/pkg/interlock"
	"github.com/neurograsp/handd/pkg/pose"
	"github.com/neurograsp/handd/pkg/sensors"
	"github.com/neurograsp/handd/pkg/telemetry"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bank := actuator.NewBank(actuator.NopBus{}, logger)
	cat, err := pose.NewCatalog(pose.Defaults())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	sampler := sensors.NewSampler(sensors.NewSimFrontend(), sensors.NewSimFrontend(), 50000, logger)
	reporter := telemetry.NewReporter(telemetry.NopCollector{}, logger)

	cfg := hand.Config{
		ServoInterval:     20 * time.Millisecond,
		SensorInterval:    10 * time.Millisecond,
		VitalsInterval:    100 * time.Millisecond,
		TelemetryInterval: time.Second,
		CommandInterval:   50 * time.Millisecond,
		TripCooldown:      time.Second,
		MaxStepPerTick:    5,
	}
	ctrl := hand.New(cfg, bank, cat, sampler, interlock.New(), reporter, logger)
	return NewServer(":0", ctrl)
}

func request(t *testing.T, s *Server, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	resp := request(t, s, http.MethodGet, "/api/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var body struct {
		OK        bool   `json:"ok"`
		SessionID string `json:"session_id"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if !body.OK || body.SessionID == "" {
		t.Errorf("body: %+v", body)
	}
}

func TestPoseEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, http.MethodPost, "/api/pose/fist")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("known pose: status %d", resp.StatusCode)
	}

	resp = request(t, s, http.MethodPost, "/api/pose/karate_chop")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown pose: status %d, want 404", resp.StatusCode)
	}
}

func TestStopAndResume(t *testing.T) {
	s := newTestServer(t)

	resp := request(t, s, http.MethodPost, "/api/stop")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop: status %d", resp.StatusCode)
	}
	if !s.ctrl.Interlock().Tripped() {
		t.Fatal("stop endpoint did not trip the interlock")
	}

	resp = request(t, s, http.MethodPost, "/api/resume")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resume: status %d", resp.StatusCode)
	}
}

func TestPosesList(t *testing.T) {
	s := newTestServer(t)
	resp := request(t, s, http.MethodGet, "/api/poses")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}

	var body struct {
		Poses []string `json:"poses"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if len(body.Poses) == 0 {
		t.Error("poses list empty")
	}
}
