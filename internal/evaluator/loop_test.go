package evaluator

import (
	"context"
	"sync"
	"testing"
	"time"

	"duewatch/internal/ledger"
	"duewatch/internal/model"
)

type signalSource struct {
	mu    sync.Mutex
	count int
	ping  chan struct{}
}

func newSignalSource() *signalSource {
	return &signalSource{ping: make(chan struct{}, 64)}
}

func (s *signalSource) Snapshot(context.Context) ([]model.Task, error) {
	s.mu.Lock()
	s.count++
	s.mu.Unlock()
	select {
	case s.ping <- struct{}{}:
	default:
	}
	return nil, nil
}

func (s *signalSource) EscalatePriority(context.Context, string) error {
	return nil
}

func (s *signalSource) scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func newTestLoop(interval time.Duration) (*Loop, *signalSource) {
	source := newSignalSource()
	eval := New(source, ledger.NewMemory(), &captureNotifier{available: true}, nil, discardLogger(), Config{})
	return NewLoop(eval, interval, discardLogger()), source
}

func waitScan(t *testing.T, ch <-chan struct{}, timeout time.Duration) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for a scan pass")
	}
}

func TestLoopScansImmediatelyAndOnTicks(t *testing.T) {
	loop, source := newTestLoop(20 * time.Millisecond)
	loop.Start(context.Background())
	defer loop.Stop()

	for i := 0; i < 3; i++ {
		waitScan(t, source.ping, time.Second)
	}
}

func TestLoopPokeTriggersExtraScan(t *testing.T) {
	loop, source := newTestLoop(time.Hour)
	loop.Start(context.Background())
	defer loop.Stop()

	waitScan(t, source.ping, time.Second)
	loop.Poke()
	waitScan(t, source.ping, time.Second)

	if got := source.scans(); got != 2 {
		t.Fatalf("scans = %d, want 2", got)
	}
}

func TestLoopPokesCoalesce(t *testing.T) {
	loop, source := newTestLoop(time.Hour)
	for i := 0; i < 5; i++ {
		loop.Poke()
	}
	loop.Start(context.Background())
	defer loop.Stop()

	waitScan(t, source.ping, time.Second)
	waitScan(t, source.ping, time.Second)
	time.Sleep(50 * time.Millisecond)
	if got := source.scans(); got != 2 {
		t.Fatalf("scans = %d, want 2 (startup pass plus one coalesced poke)", got)
	}
}

func TestLoopStopIsIdempotentAndFinal(t *testing.T) {
	loop, source := newTestLoop(20 * time.Millisecond)
	loop.Start(context.Background())
	waitScan(t, source.ping, time.Second)

	loop.Stop()
	loop.Stop()

	settled := source.scans()
	time.Sleep(80 * time.Millisecond)
	if got := source.scans(); got != settled {
		t.Fatalf("scans after stop = %d, want %d", got, settled)
	}

	// The lifecycle is one-shot, as a teardown guard.
	loop.Start(context.Background())
	time.Sleep(80 * time.Millisecond)
	if got := source.scans(); got != settled {
		t.Fatalf("scans after restart attempt = %d, want %d", got, settled)
	}
}

func TestLoopContextCancelStopsScanning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop, source := newTestLoop(20 * time.Millisecond)
	loop.Start(ctx)
	waitScan(t, source.ping, time.Second)

	cancel()
	time.Sleep(60 * time.Millisecond)
	settled := source.scans()
	time.Sleep(80 * time.Millisecond)
	if got := source.scans(); got != settled {
		t.Fatalf("scans after cancel = %d, want %d", got, settled)
	}

	// Stop returns promptly because the goroutine already exited.
	loop.Stop()
}
