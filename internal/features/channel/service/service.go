package service

import (
	"context"

	"giveaway-bot-backend/internal/common/logger"
	"giveaway-bot-backend/internal/features/channel/models"
	"giveaway-bot-backend/internal/features/channel/repository"
	"giveaway-bot-backend/internal/platform/reporting"
)

// WelcomeDelivery posts the connected message into a freshly linked channel.
type WelcomeDelivery interface {
	SendChannelConnected(ctx context.Context, channelID int64) error
}

type ChannelService struct {
	repo     repository.ChannelRepository
	delivery WelcomeDelivery
	notifier reporting.Notifier
}

func NewChannelService(repo repository.ChannelRepository, delivery WelcomeDelivery, notifier reporting.Notifier) *ChannelService {
	return &ChannelService{repo: repo, delivery: delivery, notifier: notifier}
}

// Connect registers a channel the bot was added to. Reconnecting the same
// channel refreshes its title.
func (s *ChannelService) Connect(ctx context.Context, channelID int64, title string) (*models.Channel, error) {
	channel := &models.Channel{ID: channelID, Title: title}
	if err := s.repo.Upsert(ctx, channel); err != nil {
		return nil, err
	}
	s.notifier.StatsChanged(ctx)
	logger.Info().Int64("channel_id", channelID).Str("title", title).Msg("Channel connected")

	if err := s.delivery.SendChannelConnected(ctx, channelID); err != nil {
		logger.Error().Err(err).Int64("channel_id", channelID).Msg("Failed to send channel welcome")
	}
	return channel, nil
}

func (s *ChannelService) Get(ctx context.Context, channelID int64) (*models.Channel, error) {
	return s.repo.GetByID(ctx, channelID)
}

func (s *ChannelService) List(ctx context.Context) ([]*models.Channel, error) {
	return s.repo.List(ctx)
}
