package service

import (
	"context"
	"fmt"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/common/logger"
	"giveaway-bot-backend/internal/features/user/models"
	"giveaway-bot-backend/internal/features/user/repository"
	"giveaway-bot-backend/internal/platform/reporting"
)

// ReferralDelivery notifies a referrer that someone joined via their link.
type ReferralDelivery interface {
	SendReferralJoined(ctx context.Context, referrerID int64, referredName string, invitedTotal int) error
}

type UserService struct {
	repo        repository.UserRepository
	delivery    ReferralDelivery
	notifier    reporting.Notifier
	botUsername string
}

func NewUserService(repo repository.UserRepository, delivery ReferralDelivery, notifier reporting.Notifier, botUsername string) *UserService {
	return &UserService{
		repo:        repo,
		delivery:    delivery,
		notifier:    notifier,
		botUsername: botUsername,
	}
}

// Register records a user on first contact. Re-registration only refreshes
// the profile fields: the referrer link is written once and never changes, so
// repeated starts with a referral link cannot credit the referrer twice.
func (s *UserService) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	if input.ReferrerID != nil && *input.ReferrerID == input.ID {
		return nil, apperrors.NewValidationError("referrer_id", "cannot use your own referral link")
	}

	existing, err := s.repo.GetByID(ctx, input.ID)
	if err == nil {
		if uerr := s.repo.UpdateProfile(ctx, input.ID, input.Username, input.Fullname); uerr != nil {
			return nil, uerr
		}
		existing.Username = input.Username
		existing.Fullname = input.Fullname
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if input.ReferrerID != nil {
		if _, rerr := s.repo.GetByID(ctx, *input.ReferrerID); rerr != nil {
			return nil, rerr
		}
	}

	user := &models.User{
		ID:         input.ID,
		Username:   input.Username,
		Fullname:   input.Fullname,
		Role:       models.RoleUser,
		ReferrerID: input.ReferrerID,
	}
	if err := s.repo.CreateWithReferrer(ctx, user); err != nil {
		return nil, err
	}
	s.notifier.StatsChanged(ctx)
	logger.Info().Int64("user_id", user.ID).Msg("User registered")

	if input.ReferrerID != nil {
		s.notifyReferrer(ctx, *input.ReferrerID, user)
	}
	return user, nil
}

func (s *UserService) notifyReferrer(ctx context.Context, referrerID int64, referred *models.User) {
	referrer, err := s.repo.GetByID(ctx, referrerID)
	if err != nil {
		logger.Error().Err(err).Int64("referrer_id", referrerID).Msg("Failed to load referrer")
		return
	}
	name := referred.Username
	if name == "" {
		name = referred.Fullname
	}
	if err := s.delivery.SendReferralJoined(ctx, referrerID, name, referrer.InvitedFriends); err != nil {
		logger.Error().Err(err).Int64("referrer_id", referrerID).Msg("Failed to send referral notification")
	}
}

func (s *UserService) Get(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

// ReferralLink builds the deep link a user shares to invite friends.
func (s *UserService) ReferralLink(userID int64) string {
	return fmt.Sprintf("t.me/%s?start=%d", s.botUsername, userID)
}

// ReferralStats returns the user together with the ids they invited.
func (s *UserService) ReferralStats(ctx context.Context, userID int64) (*models.User, []int64, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	invited, err := s.repo.Referrals(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, invited, nil
}
