package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/common/logger"
	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
	"giveaway-bot-backend/internal/platform/reporting"
)

// Jobs is the scheduler surface the lifecycle depends on. Arm replaces any
// existing timer for the same giveaway; Disarm of an unknown timer is a no-op.
type Jobs interface {
	Arm(giveawayID int64, fireAt time.Time)
	Disarm(giveawayID int64)
}

// Delivery posts giveaway messages to their destination channel.
type Delivery interface {
	AnnounceWinners(ctx context.Context, g *models.Giveaway, usernames map[int64]string) error
	AnnounceCreated(ctx context.Context, g *models.Giveaway) error
}

type GiveawayService struct {
	repo     repository.GiveawayRepository
	jobs     Jobs
	delivery Delivery
	notifier reporting.Notifier

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewGiveawayService(repo repository.GiveawayRepository, jobs Jobs, delivery Delivery, notifier reporting.Notifier) *GiveawayService {
	return &GiveawayService{
		repo:     repo,
		jobs:     jobs,
		delivery: delivery,
		notifier: notifier,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the randomness source used for winner selection.
func (s *GiveawayService) SetRand(rng *rand.Rand) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rng
}

func (s *GiveawayService) selectWinners(participants []int64, referralCounts map[int64]int, count int) []int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return SelectWinners(participants, referralCounts, count, s.rng)
}

// Create persists a giveaway and arms its announcement timer. The channel
// post is best-effort: a delivery failure is logged, the giveaway stays.
func (s *GiveawayService) Create(ctx context.Context, input models.GiveawayCreate) (*models.Giveaway, error) {
	if input.WinnersCount < 1 {
		return nil, apperrors.NewValidationError("winners_count", "must be at least 1")
	}
	announcementAt, err := models.ParseAnnouncementTime(input.AnnouncementDate)
	if err != nil {
		return nil, apperrors.NewValidationError("announcement_date", "expected format DD.MM.YYYY HH:MM")
	}

	g := &models.Giveaway{
		Name:           input.Name,
		WinnersCount:   input.WinnersCount,
		AnnouncementAt: announcementAt,
		ChannelID:      input.ChannelID,
		Winners:        []int64{},
	}
	if _, err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}

	s.jobs.Arm(g.ID, g.AnnouncementAt)

	if err := s.delivery.AnnounceCreated(ctx, g); err != nil {
		logger.Error().Err(err).Int64("giveaway_id", g.ID).Msg("Failed to post giveaway to channel")
	}
	s.notifier.StatsChanged(ctx)

	logger.Info().
		Int64("giveaway_id", g.ID).
		Int64("channel_id", g.ChannelID).
		Time("announcement_at", g.AnnouncementAt).
		Msg("Giveaway created")
	return g, nil
}

// Enroll registers a participant. Re-enrolling is a no-op; enrollment closes
// strictly at the announcement time.
func (s *GiveawayService) Enroll(ctx context.Context, giveawayID, userID int64) error {
	g, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		return err
	}
	if !g.IsActive(time.Now()) {
		return apperrors.NewExpiredError(giveawayID)
	}
	if err := s.repo.AddParticipant(ctx, giveawayID, userID); err != nil {
		return err
	}
	s.notifier.StatsChanged(ctx)
	return nil
}

// PreSelectWinner adds a participant to the winner set ahead of the draw.
func (s *GiveawayService) PreSelectWinner(ctx context.Context, giveawayID, userID int64) (*models.Giveaway, error) {
	return s.repo.UpdateWinners(ctx, giveawayID, func(g *models.Giveaway, participants []int64) ([]int64, error) {
		if g.HasWinner(userID) {
			return g.Winners, nil
		}
		enrolled := false
		for _, id := range participants {
			if id == userID {
				enrolled = true
				break
			}
		}
		if !enrolled {
			return nil, apperrors.NewValidationError("user_id", "not a participant of this giveaway")
		}
		if len(g.Winners) >= g.WinnersCount {
			return nil, apperrors.NewLimitReachedError(giveawayID, g.WinnersCount)
		}
		return append(g.Winners, userID), nil
	})
}

// UnselectWinner removes a manually selected winner; removing an id that is
// not in the set is a no-op.
func (s *GiveawayService) UnselectWinner(ctx context.Context, giveawayID, userID int64) (*models.Giveaway, error) {
	return s.repo.UpdateWinners(ctx, giveawayID, func(g *models.Giveaway, _ []int64) ([]int64, error) {
		winners := make([]int64, 0, len(g.Winners))
		for _, id := range g.Winners {
			if id != userID {
				winners = append(winners, id)
			}
		}
		return winners, nil
	})
}

// Delete removes the giveaway with its participants and disarms the timer.
// The timer is only disarmed after the row is gone, so a failed delete never
// leaves a giveaway without its announcement.
func (s *GiveawayService) Delete(ctx context.Context, giveawayID int64) error {
	if err := s.repo.Delete(ctx, giveawayID); err != nil {
		return err
	}
	s.jobs.Disarm(giveawayID)
	s.notifier.StatsChanged(ctx)
	logger.Info().Int64("giveaway_id", giveawayID).Msg("Giveaway deleted")
	return nil
}

// Finalize runs the draw for a fired giveaway: it tops up the winner set to
// the quota, persists it, announces the result and archives the row. The
// winner merge happens in one write transaction; a giveaway deleted before
// the timer fired surfaces as a not-found error and nothing is mutated.
func (s *GiveawayService) Finalize(ctx context.Context, giveawayID int64) error {
	participants, err := s.repo.Participants(ctx, giveawayID)
	if err != nil {
		return err
	}
	referralCounts, err := s.repo.InvitedCounts(ctx, participants)
	if err != nil {
		return err
	}

	g, err := s.repo.UpdateWinners(ctx, giveawayID, func(g *models.Giveaway, current []int64) ([]int64, error) {
		if len(g.Winners) >= g.WinnersCount {
			return g.Winners, nil
		}
		remaining := g.WinnersCount - len(g.Winners)
		pool := make([]int64, 0, len(current))
		for _, id := range current {
			if !g.HasWinner(id) {
				pool = append(pool, id)
			}
		}
		selected := s.selectWinners(pool, referralCounts, remaining)
		return append(g.Winners, selected...), nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int64("giveaway_id", giveawayID).
		Int("participants", len(participants)).
		Int("winners", len(g.Winners)).
		Msg("Winners selected")

	usernames, err := s.repo.Usernames(ctx, g.Winners)
	if err != nil {
		logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("Failed to resolve winner usernames")
		usernames = map[int64]string{}
	}
	if err := s.delivery.AnnounceWinners(ctx, g, usernames); err != nil {
		// Winners are already durable; a failed announcement never blocks
		// archiving the giveaway.
		logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("Failed to announce winners")
	}

	if err := s.repo.Delete(ctx, giveawayID); err != nil {
		return err
	}
	s.jobs.Disarm(giveawayID)
	s.notifier.StatsChanged(ctx)

	logger.Info().Int64("giveaway_id", giveawayID).Msg("Giveaway finalized")
	return nil
}

func (s *GiveawayService) Get(ctx context.Context, giveawayID int64) (*models.Giveaway, error) {
	return s.repo.GetByID(ctx, giveawayID)
}

// ListActive returns giveaways whose announcement time is still ahead.
func (s *GiveawayService) ListActive(ctx context.Context) ([]*models.Giveaway, error) {
	return s.repo.ListActive(ctx, time.Now())
}

func (s *GiveawayService) ListAll(ctx context.Context) ([]*models.Giveaway, error) {
	return s.repo.ListAll(ctx)
}

func (s *GiveawayService) Participants(ctx context.Context, giveawayID int64) ([]int64, error) {
	if _, err := s.repo.GetByID(ctx, giveawayID); err != nil {
		return nil, err
	}
	return s.repo.Participants(ctx, giveawayID)
}

func (s *GiveawayService) IsParticipant(ctx context.Context, giveawayID, userID int64) (bool, error) {
	return s.repo.IsParticipant(ctx, giveawayID, userID)
}
