package interlock

import (
	"sync"
	"testing"
)

func TestTripAndResume(t *testing.T) {
	il := New()

	if il.Tripped() {
		t.Fatal("new interlock should be armed")
	}

	il.Trip()
	if !il.Tripped() {
		t.Fatal("interlock should be tripped after Trip")
	}

	il.Resume()
	if il.Tripped() {
		t.Fatal("interlock should be armed after Resume")
	}
}

func TestTripIsIdempotent(t *testing.T) {
	il := New()

	il.Trip()
	il.Trip()
	il.Trip()

	if !il.Tripped() {
		t.Fatal("interlock should remain tripped")
	}
	if got := il.Trips(); got != 1 {
		t.Errorf("trips: got %d, want 1 (re-trips while latched don't count)", got)
	}
}

func TestTripCountsGenerations(t *testing.T) {
	il := New()

	for i := 0; i < 3; i++ {
		il.Trip()
		il.Resume()
	}

	if got := il.Trips(); got != 3 {
		t.Errorf("trips: got %d, want 3", got)
	}
}

func TestConcurrentTrip(t *testing.T) {
	il := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			il.Trip()
		}()
	}
	wg.Wait()

	if !il.Tripped() {
		t.Fatal("interlock should be tripped")
	}
	if got := il.Trips(); got != 1 {
		t.Errorf("trips: got %d, want 1", got)
	}
}
