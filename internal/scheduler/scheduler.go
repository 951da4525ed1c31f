package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"giveaway-bot-backend/internal/common/logger"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

// Finalizer runs the draw for a giveaway whose timer fired.
type Finalizer interface {
	Finalize(ctx context.Context, giveawayID int64) error
}

// Scheduler keeps one in-memory timer per active giveaway. Timers are
// transient; the store is the source of truth and Restore rebuilds every
// timer from it after a restart.
type Scheduler struct {
	repo          repository.GiveawayRepository
	catchUpMissed bool

	mu        sync.Mutex
	timers    map[string]*time.Timer
	finalizer Finalizer
	stopped   bool
	wg        sync.WaitGroup
}

func New(repo repository.GiveawayRepository, catchUpMissed bool) *Scheduler {
	return &Scheduler{
		repo:          repo,
		catchUpMissed: catchUpMissed,
		timers:        make(map[string]*time.Timer),
	}
}

// SetFinalizer wires the lifecycle service in after construction; the service
// itself depends on the scheduler for arming timers.
func (s *Scheduler) SetFinalizer(f Finalizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalizer = f
}

// JobID derives the timer key for a giveaway.
func JobID(giveawayID int64) string {
	return fmt.Sprintf("giveaway_%d", giveawayID)
}

// Arm schedules the announcement for giveawayID at fireAt. Arming an id that
// already has a timer replaces it.
func (s *Scheduler) Arm(giveawayID int64, fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	jobID := JobID(giveawayID)
	if old, ok := s.timers[jobID]; ok {
		old.Stop()
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}
	s.timers[jobID] = time.AfterFunc(delay, func() {
		s.fire(giveawayID)
	})

	logger.Info().
		Str("job_id", jobID).
		Time("fire_at", fireAt).
		Msg("Announcement scheduled")
}

// Disarm removes the timer for giveawayID; unknown ids are ignored.
func (s *Scheduler) Disarm(giveawayID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobID := JobID(giveawayID)
	if t, ok := s.timers[jobID]; ok {
		t.Stop()
		delete(s.timers, jobID)
		logger.Debug().Str("job_id", jobID).Msg("Announcement timer removed")
	}
}

func (s *Scheduler) fire(giveawayID int64) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	delete(s.timers, JobID(giveawayID))
	finalizer := s.finalizer
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if finalizer == nil {
		logger.Error().Int64("giveaway_id", giveawayID).Msg("Timer fired without a finalizer")
		return
	}

	// Finalize appends to the winner set, so a failed run is logged and left
	// for the operator instead of being retried blindly.
	if err := finalizer.Finalize(context.Background(), giveawayID); err != nil {
		logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("Giveaway finalization failed")
	}
}

// Restore rebuilds timers from the store. Giveaways whose announcement time
// passed while the process was down are finalized immediately when catch-up
// is enabled, otherwise they are reported and left untouched.
func (s *Scheduler) Restore(ctx context.Context) error {
	giveaways, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	restored := 0
	missed := 0
	for _, g := range giveaways {
		if g.IsActive(now) {
			s.Arm(g.ID, g.AnnouncementAt)
			restored++
			continue
		}
		missed++
		if s.catchUpMissed {
			s.Arm(g.ID, now)
			continue
		}
		logger.Warn().
			Int64("giveaway_id", g.ID).
			Time("announcement_at", g.AnnouncementAt).
			Msg("Giveaway announcement was missed while the service was down")
	}

	logger.Info().
		Int("restored", restored).
		Int("missed", missed).
		Msg("Announcement timers restored")
	return nil
}

// Stop cancels all timers and waits for in-flight finalizations.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for jobID, t := range s.timers {
		t.Stop()
		delete(s.timers, jobID)
	}
	s.mu.Unlock()
	s.wg.Wait()
	logger.Info().Msg("Scheduler stopped")
}

// Armed reports whether a timer currently exists for giveawayID.
func (s *Scheduler) Armed(giveawayID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[JobID(giveawayID)]
	return ok
}
