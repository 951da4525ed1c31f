package repository

import (
	"context"
	"time"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

// WinnersMutator receives the current giveaway row and its participant set
// inside a write transaction and returns the new winner list. Returning an
// error aborts the transaction with no mutation.
type WinnersMutator func(g *models.Giveaway, participants []int64) ([]int64, error)

type GiveawayRepository interface {
	Create(ctx context.Context, g *models.Giveaway) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Giveaway, error)
	ListActive(ctx context.Context, now time.Time) ([]*models.Giveaway, error)
	ListAll(ctx context.Context) ([]*models.Giveaway, error)

	// AddParticipant is idempotent: enrolling an existing participant is a no-op.
	AddParticipant(ctx context.Context, giveawayID, userID int64) error
	IsParticipant(ctx context.Context, giveawayID, userID int64) (bool, error)
	Participants(ctx context.Context, giveawayID int64) ([]int64, error)

	// UpdateWinners applies mutate to the winner set in a single write
	// transaction and returns the updated giveaway. Returns a not-found
	// error when the row no longer exists.
	UpdateWinners(ctx context.Context, id int64, mutate WinnersMutator) (*models.Giveaway, error)

	// Delete removes the giveaway and its participant rows in one transaction.
	Delete(ctx context.Context, id int64) error

	// InvitedCounts resolves fairness weights for the given users. Users
	// without a record are absent from the result.
	InvitedCounts(ctx context.Context, userIDs []int64) (map[int64]int, error)
	// Usernames resolves display labels for announcement formatting.
	Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error)
}
