package repository

import (
	"context"

	"giveaway-bot-backend/internal/features/channel/models"
)

type ChannelRepository interface {
	// Upsert inserts or replaces the channel; reconnecting refreshes the title.
	Upsert(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	List(ctx context.Context) ([]*models.Channel, error)
}
