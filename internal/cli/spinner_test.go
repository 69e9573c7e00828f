package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsAndStops(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Fetching image list...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Fetching image list...") {
		t.Errorf("output %q does not contain the message", out.String())
	}
	if s.Cancelled() {
		t.Error("explicit Stop reported as cancellation")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinner(ctx, &syncBuffer{}, "working")
			s.Start()
			cancel()
			<-s.stopped

			if !s.Cancelled() {
				t.Error("Cancelled() = false after parent context ended")
			}
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "working")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	done := make(chan struct{})
	go func() {
		newSpinner(context.Background(), &syncBuffer{}, "never started").Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "working")
	s.Start()
	s.StopWithSuccess("Done")

	s = newSpinner(context.Background(), &syncBuffer{}, "working")
	s.Start()
	s.StopWithError("Failed")
}
