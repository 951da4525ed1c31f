package sqlite

import (
	"context"
	"database/sql"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/features/channel/models"
)

type ChannelRepository struct {
	db *sql.DB
}

func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) Upsert(ctx context.Context, channel *models.Channel) error {
	const q = `INSERT OR REPLACE INTO channels (channel_id, title) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, channel.ID, channel.Title); err != nil {
		return apperrors.NewStorageError("upsert channel", err)
	}
	return nil
}

func (r *ChannelRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	const q = `SELECT channel_id, title, added_date FROM channels WHERE channel_id = ?`
	var (
		ch    models.Channel
		added sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&ch.ID, &ch.Title, &added)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("channel", id)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get channel", err)
	}
	ch.AddedDate = added.String
	return &ch, nil
}

func (r *ChannelRepository) List(ctx context.Context) ([]*models.Channel, error) {
	const q = `SELECT channel_id, title, added_date FROM channels ORDER BY added_date`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperrors.NewStorageError("list channels", err)
	}
	defer rows.Close()
	var out []*models.Channel
	for rows.Next() {
		var (
			ch    models.Channel
			added sql.NullString
		)
		if err := rows.Scan(&ch.ID, &ch.Title, &added); err != nil {
			return nil, apperrors.NewStorageError("list channels", err)
		}
		ch.AddedDate = added.String
		out = append(out, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list channels", err)
	}
	return out, nil
}
