package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neurograsp/handd/pkg/sensors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildSnapshot(t *testing.T) {
	sample := sensors.Sample{GSR: 512, EMG: 300, HeartRate: 72, SpO2: 98}
	snap := Build("sess-1", "OPEN", 12500*time.Millisecond, 12*time.Second,
		[5]int{45, 0, 0, 0, 0}, sample)

	if snap.SessionID != "sess-1" || snap.Pose != "OPEN" {
		t.Errorf("identity fields wrong: %+v", snap)
	}
	if snap.UptimeMS != 12500 || snap.DurationS != 12 {
		t.Errorf("time fields wrong: uptime=%d duration=%d", snap.UptimeMS, snap.DurationS)
	}
	if snap.Angles != ([5]int{45, 0, 0, 0, 0}) {
		t.Errorf("angles wrong: %v", snap.Angles)
	}
	if snap.GSR != 512 || snap.EMG != 300 || snap.HeartRate != 72 || snap.SpO2 != 98 {
		t.Errorf("sensor fields wrong: %+v", snap)
	}
}

func TestSnapshotSerializesAllNineFields(t *testing.T) {
	snap := Build("s", "open", time.Second, time.Second, [5]int{}, sensors.Sample{})
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	text := string(data)
	fields := []string{
		"session_id", "uptime_ms", "pose", "angles",
		"gsr", "emg", "heart_rate", "spo2", "duration_s",
	}
	last := -1
	for _, f := range fields {
		i := strings.Index(text, `"`+f+`"`)
		if i < 0 {
			t.Fatalf("field %q missing from %s", f, text)
		}
		if i < last {
			t.Errorf("field %q out of order in %s", f, text)
		}
		last = i
	}
}

func TestHTTPCollectorEmit(t *testing.T) {
	var received Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %s", ct)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPCollector(srv.URL)
	snap := Build("s1", "fist", time.Second, time.Second, [5]int{1, 2, 3, 4, 5}, sensors.Sample{HeartRate: 70})
	if err := c.Emit(context.Background(), snap); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if received.SessionID != "s1" || received.Angles != snap.Angles {
		t.Errorf("collector received %+v", received)
	}
}

func TestHTTPCollectorRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPCollector(srv.URL)
	if err := c.Emit(context.Background(), Snapshot{}); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestWSCollectorEmitAndRecover(t *testing.T) {
	frames := make(chan Snapshot, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var snap Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				return
			}
			frames <- snap
		}
	}))
	defer srv.Close()

	c := NewWSCollector("ws" + strings.TrimPrefix(srv.URL, "http"))
	defer c.Close()

	snap := Build("s1", "open", time.Second, time.Second, [5]int{}, sensors.Sample{})
	if err := c.Emit(context.Background(), snap); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	select {
	case got := <-frames:
		if got.SessionID != "s1" {
			t.Errorf("frame: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}

	// Kill the transport underneath the collector. The next emit must
	// fail fast, including when setting the write deadline fails, and
	// must leave the connection reset so a later emit re-dials.
	c.conn.Close()
	if err := c.Emit(context.Background(), snap); err == nil {
		t.Fatal("expected error on dead connection")
	}
	if c.conn != nil {
		t.Fatal("connection not reset after failed emit")
	}

	if err := c.Emit(context.Background(), snap); err != nil {
		t.Fatalf("Emit after re-dial: %v", err)
	}
}

// flakyCollector fails a fixed number of times, counting attempts.
type flakyCollector struct {
	failures int
	attempts int
}

func (f *flakyCollector) Emit(context.Context, Snapshot) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("transport down")
	}
	return nil
}

func (f *flakyCollector) Close() error { return nil }

func TestReporterDoesNotRetry(t *testing.T) {
	fc := &flakyCollector{failures: 1}
	r := NewReporter(fc, testLogger())

	if r.Report(context.Background(), Snapshot{}) {
		t.Fatal("first report should fail")
	}
	if fc.attempts != 1 {
		t.Fatalf("attempts: got %d, want 1 (no retry within a window)", fc.attempts)
	}

	if !r.Report(context.Background(), Snapshot{}) {
		t.Fatal("second report should succeed")
	}
	sent, failed := r.Stats()
	if sent != 1 || failed != 1 {
		t.Errorf("stats: sent=%d failed=%d", sent, failed)
	}
}
