package render

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Scheduler runs render callbacks on a dedicated goroutine.
//
// RequestRender never blocks: requests land in a channel of capacity one and
// a request arriving while one is already pending is merged into it. The
// callback reads the latest state when it runs, so one render per burst is
// enough.
type Scheduler struct {
	mu       sync.Mutex
	onRender func()
	stopped  bool

	requests chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}

	rendered  atomic.Uint64
	coalesced atomic.Uint64

	log *slog.Logger
}

func NewScheduler(onRender func(), log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		onRender: onRender,
		requests: make(chan struct{}, 1),
		done:     make(chan struct{}),
		log:      log,
	}
}

// Start launches the render goroutine. It must be called once.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.requests:
			s.mu.Lock()
			fn := s.onRender
			s.mu.Unlock()
			if fn == nil {
				continue
			}
			fn()
			s.rendered.Add(1)
		}
	}
}

// RequestRender asks for a frame. It reports whether a new request was
// queued; false means it was merged into a pending one or the scheduler is
// shut down.
func (s *Scheduler) RequestRender() bool {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return false
	}
	select {
	case s.requests <- struct{}{}:
		return true
	default:
		s.coalesced.Add(1)
		return false
	}
}

// Shutdown stops rendering. In order it drops the render callback so no new
// frame starts, discards a pending request, stops the goroutine and waits for
// any frame in flight, then calls release. release may free what the
// callback used to read.
func (s *Scheduler) Shutdown(release func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.onRender = nil
	cancel := s.cancel
	s.mu.Unlock()

	select {
	case <-s.requests:
	default:
	}

	if cancel != nil {
		cancel()
		<-s.done
	}

	if release != nil {
		release()
	}
	s.log.Debug("render scheduler stopped",
		"rendered", s.rendered.Load(), "coalesced", s.coalesced.Load())
}

// Rendered counts completed render callbacks.
func (s *Scheduler) Rendered() uint64 {
	return s.rendered.Load()
}

// Coalesced counts requests merged into an already pending one.
func (s *Scheduler) Coalesced() uint64 {
	return s.coalesced.Load()
}
