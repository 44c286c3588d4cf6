// Package scheduler runs the recurring close-of-day job: refresh watchlist
// quotes, then record the daily net-worth point and, on quarter months, the
// fundamentals snapshot.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kabutools/kabu-ledger/internal/service"
)

const jobTimeout = 5 * time.Minute

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron      *cron.Cron
	history   *service.HistoryService
	watchlist *service.WatchlistService
	schedule  string
}

// NewScheduler creates a scheduler with the given cron expression. An empty
// schedule disables background recording entirely.
func NewScheduler(schedule string, history *service.HistoryService, watchlist *service.WatchlistService) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		history:   history,
		watchlist: watchlist,
		schedule:  schedule,
	}
}

// Start registers and starts the daily close job. Returns without starting
// anything when no schedule is configured.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		log.Println("scheduler: no schedule configured, daily close disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.runDailyClose); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("scheduler: daily close scheduled at %q", s.schedule)
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunNow executes the daily close job immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) {
	s.dailyClose(ctx)
}

func (s *Scheduler) runDailyClose() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.dailyClose(ctx)
}

func (s *Scheduler) dailyClose(ctx context.Context) {
	refreshed, err := s.watchlist.RefreshAll(ctx)
	if err != nil {
		log.Printf("scheduler: watchlist refresh failed: %v", err)
	} else {
		log.Printf("scheduler: refreshed %d watchlist entries", refreshed)
	}

	daily, quarterly, err := s.history.RecordToday(ctx, time.Now())
	if err != nil {
		log.Printf("scheduler: daily close failed: %v", err)
		return
	}
	log.Printf("scheduler: daily close done (history=%t snapshot=%t)", daily, quarterly)
}
