package evaluator

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const DefaultInterval = 10 * time.Second

type Loop struct {
	eval     *Evaluator
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewLoop(eval *Evaluator, interval time.Duration, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		eval:     eval,
		interval: interval,
		logger:   logger,
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	go l.run(ctx)
}

func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.stopCh)
	l.mu.Unlock()
	<-l.doneCh
}

func (l *Loop) Poke() {
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.doneCh)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.eval.Scan(ctx)
	for {
		select {
		case <-ticker.C:
			l.eval.Scan(ctx)
		case <-l.wakeup:
			l.eval.Scan(ctx)
		case <-ctx.Done():
			l.logger.Debug("evaluator loop context done")
			return
		case <-l.stopCh:
			return
		}
	}
}
