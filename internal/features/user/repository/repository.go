package repository

import (
	"context"

	"giveaway-bot-backend/internal/features/user/models"
)

type UserRepository interface {
	// CreateWithReferrer inserts a new user and, when a referrer is set,
	// credits the referrer's invited_friends in the same transaction.
	CreateWithReferrer(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// UpdateProfile refreshes username and fullname only; referrer_id and
	// invited_friends are never touched by re-registration.
	UpdateProfile(ctx context.Context, id int64, username, fullname string) error
	Referrals(ctx context.Context, referrerID int64) ([]int64, error)
	List(ctx context.Context) ([]*models.User, error)
}
