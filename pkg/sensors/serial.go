package sensors

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tarm/serial"
)

// SerialFrontend reads the sensor co-processor over UART. The
// co-processor streams one reading per line as space-separated
// key=value pairs:
//
//	GSR=512.0 EMG=300.5 IR=52000 BPM=72 SPO2=98
//
// and forwards the hardware e-stop edge as a bare "ESTOP" line. The
// frontend caches the latest reading; ReadAnalog and ReadOptical
// return from the cache so the control loop never blocks on the port.
type SerialFrontend struct {
	port   *serial.Port
	logger *slog.Logger

	mu      sync.Mutex
	gsr     float64
	emg     float64
	optical OpticalReading

	// onTrip fires on an ESTOP line, from the reader goroutine. It
	// must be async-safe; the interlock's Trip qualifies.
	onTrip func()
}

// NewSerialFrontend opens the sensor UART at 115200 baud.
func NewSerialFrontend(portName string, logger *slog.Logger) (*SerialFrontend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	port, err := serial.OpenPort(&serial.Config{Name: portName, Baud: 115200})
	if err != nil {
		return nil, fmt.Errorf("open sensor port %s: %w", portName, err)
	}
	return &SerialFrontend{port: port, logger: logger}, nil
}

// OnTrip registers the e-stop callback. Must be set before Run.
func (f *SerialFrontend) OnTrip(fn func()) {
	f.onTrip = fn
}

// Run consumes the UART line stream until ctx is cancelled or the port
// closes. Call in its own goroutine.
func (f *SerialFrontend) Run(ctx context.Context) {
	scanner := bufio.NewScanner(f.port)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		f.consume(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		f.logger.Warn("sensor stream ended", "error", err)
	}
}

// consume applies one protocol line. Malformed lines and unknown keys
// are skipped; the last good reading stands.
func (f *SerialFrontend) consume(line string) {
	if line == "" {
		return
	}
	if line == "ESTOP" {
		f.logger.Warn("hardware e-stop line asserted")
		if f.onTrip != nil {
			f.onTrip()
		}
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range strings.Fields(line) {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "GSR":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				f.gsr = v
			}
		case "EMG":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				f.emg = v
			}
		case "IR":
			if v, err := strconv.Atoi(value); err == nil {
				f.optical.Intensity = v
			}
		case "BPM":
			if v, err := strconv.Atoi(value); err == nil {
				f.optical.HeartRate = v
			}
		case "SPO2":
			if v, err := strconv.Atoi(value); err == nil {
				f.optical.SpO2 = v
			}
		}
	}
}

// ReadAnalog returns the latest cached GSR/EMG pair.
func (f *SerialFrontend) ReadAnalog(context.Context) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gsr, f.emg, nil
}

// ReadOptical returns the latest cached optical reading.
func (f *SerialFrontend) ReadOptical(context.Context) (OpticalReading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.optical, nil
}

// Close closes the UART.
func (f *SerialFrontend) Close() error {
	return f.port.Close()
}
