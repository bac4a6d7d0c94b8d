package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
)

// Scheduler runs ingestion periodically, in addition to externally triggered polls
type Scheduler struct {
	orchestrator *Orchestrator
	interval     time.Duration
	wg           sync.WaitGroup
	cancel       context.CancelFunc
}

// NewScheduler makes a scheduler running orchestrator every interval
func NewScheduler(orchestrator *Orchestrator, interval time.Duration) *Scheduler {
	return &Scheduler{orchestrator: orchestrator, interval: interval}
}

// Start begins periodic polling, the first run happens immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.worker(ctx)
	lgr.Printf("[INFO] scheduler started with poll interval %v", s.interval)
}

// Stop cancels polling and waits for the current run to finish
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *Scheduler) poll(ctx context.Context) {
	if _, err := s.orchestrator.Run(ctx); err != nil {
		lgr.Printf("[WARN] scheduled poll failed: %v", err)
	}
}
