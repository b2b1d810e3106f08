package slo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTracker_Flush(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantAvail float64
		wantErr   float64
	}{
		{"empty window", nil, 1, 0},
		{"all ok", []int{200, 201, 204, 404}, 1, 0},
		{"one in four fails", []int{200, 500, 201, 422}, 0.75, 0.25},
		{"all fail", []int{502, 503}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			for _, s := range tt.statuses {
				tr.Observe(s)
			}

			avail, errRate := tr.Flush()
			if avail != tt.wantAvail || errRate != tt.wantErr {
				t.Fatalf("Flush() = (%v, %v), want (%v, %v)", avail, errRate, tt.wantAvail, tt.wantErr)
			}
			if got := testutil.ToFloat64(SLOAvailability); got != tt.wantAvail {
				t.Errorf("SLOAvailability = %v, want %v", got, tt.wantAvail)
			}
			if got := testutil.ToFloat64(SLOErrorRate); got != tt.wantErr {
				t.Errorf("SLOErrorRate = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestTracker_FlushResetsWindow(t *testing.T) {
	tr := NewTracker()
	tr.Observe(500)
	tr.Flush()

	if avail, _ := tr.Flush(); avail != 1 {
		t.Fatalf("second window availability = %v, want 1", avail)
	}
}

func TestTracker_ConcurrentObserve(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%10 == 0 {
				tr.Observe(500)
			} else {
				tr.Observe(200)
			}
		}(i)
	}
	wg.Wait()

	if _, errRate := tr.Flush(); errRate != 0.1 {
		t.Fatalf("error rate = %v, want 0.1", errRate)
	}
}

func TestTracker_RunStopsOnCancel(t *testing.T) {
	tr := NewTracker()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
