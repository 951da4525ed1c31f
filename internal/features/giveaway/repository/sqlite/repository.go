package sqlite

import (
	"context"
	"database/sql"
	"time"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

// GiveawayRepository persists giveaways, participants and the winner set.
type GiveawayRepository struct {
	db *sql.DB
}

func NewGiveawayRepository(db *sql.DB) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func (r *GiveawayRepository) Create(ctx context.Context, g *models.Giveaway) (int64, error) {
	const q = `
	INSERT INTO giveaways (name, winners_count, announcement_date, channel_id, winners_ids)
	VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		g.Name, g.WinnersCount, g.AnnouncementAt.Format(models.StoredTimeLayout), g.ChannelID,
		models.EncodeWinners(g.Winners),
	)
	if err != nil {
		return 0, apperrors.NewStorageError("create giveaway", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.NewStorageError("create giveaway", err)
	}
	g.ID = id
	return id, nil
}

func scanGiveaway(row interface{ Scan(...interface{}) error }) (*models.Giveaway, error) {
	var (
		g       models.Giveaway
		date    string
		winners string
	)
	if err := row.Scan(&g.ID, &g.Name, &g.WinnersCount, &date, &g.ChannelID, &winners); err != nil {
		return nil, err
	}
	at, err := time.ParseInLocation(models.StoredTimeLayout, date, time.Local)
	if err != nil {
		return nil, err
	}
	g.AnnouncementAt = at
	g.Winners, err = models.DecodeWinners(winners)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiveawayRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	const q = `
	SELECT id, name, winners_count, announcement_date, channel_id, winners_ids
	FROM giveaways WHERE id = ?`
	g, err := scanGiveaway(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("giveaway", id)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get giveaway", err)
	}
	return g, nil
}

func (r *GiveawayRepository) list(ctx context.Context, q string, args ...interface{}) ([]*models.Giveaway, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperrors.NewStorageError("list giveaways", err)
	}
	defer rows.Close()
	var out []*models.Giveaway
	for rows.Next() {
		g, err := scanGiveaway(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("list giveaways", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list giveaways", err)
	}
	return out, nil
}

func (r *GiveawayRepository) ListActive(ctx context.Context, now time.Time) ([]*models.Giveaway, error) {
	const q = `
	SELECT id, name, winners_count, announcement_date, channel_id, winners_ids
	FROM giveaways
	WHERE datetime(announcement_date) > datetime(?)
	ORDER BY announcement_date`
	return r.list(ctx, q, now.Format(models.StoredTimeLayout))
}

func (r *GiveawayRepository) ListAll(ctx context.Context) ([]*models.Giveaway, error) {
	const q = `
	SELECT id, name, winners_count, announcement_date, channel_id, winners_ids
	FROM giveaways ORDER BY id`
	return r.list(ctx, q)
}

func (r *GiveawayRepository) AddParticipant(ctx context.Context, giveawayID, userID int64) error {
	const q = `INSERT OR IGNORE INTO participants (giveaway_id, user_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, q, giveawayID, userID); err != nil {
		return apperrors.NewStorageError("add participant", err)
	}
	return nil
}

func (r *GiveawayRepository) IsParticipant(ctx context.Context, giveawayID, userID int64) (bool, error) {
	const q = `SELECT 1 FROM participants WHERE giveaway_id = ? AND user_id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, giveawayID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewStorageError("check participant", err)
	}
	return true, nil
}

func (r *GiveawayRepository) Participants(ctx context.Context, giveawayID int64) ([]int64, error) {
	const q = `SELECT user_id FROM participants WHERE giveaway_id = ? ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, q, giveawayID)
	if err != nil {
		return nil, apperrors.NewStorageError("get participants", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewStorageError("get participants", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("get participants", err)
	}
	return out, nil
}

// UpdateWinners reads the row and its participants inside one write
// transaction, applies mutate and persists the result. Concurrent toggles
// therefore never lose updates to a cached copy of the winner set.
func (r *GiveawayRepository) UpdateWinners(ctx context.Context, id int64, mutate repository.WinnersMutator) (*models.Giveaway, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStorageError("update winners", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `
	SELECT id, name, winners_count, announcement_date, channel_id, winners_ids
	FROM giveaways WHERE id = ?`
	var g *models.Giveaway
	g, err = scanGiveaway(tx.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		err = apperrors.NewNotFoundError("giveaway", id)
		return nil, err
	}
	if err != nil {
		err = apperrors.NewStorageError("update winners", err)
		return nil, err
	}

	var participants []int64
	prows, perr := tx.QueryContext(ctx, `SELECT user_id FROM participants WHERE giveaway_id = ? ORDER BY user_id`, id)
	if perr != nil {
		err = apperrors.NewStorageError("update winners", perr)
		return nil, err
	}
	for prows.Next() {
		var uid int64
		if serr := prows.Scan(&uid); serr != nil {
			prows.Close()
			err = apperrors.NewStorageError("update winners", serr)
			return nil, err
		}
		participants = append(participants, uid)
	}
	if rerr := prows.Err(); rerr != nil {
		prows.Close()
		err = apperrors.NewStorageError("update winners", rerr)
		return nil, err
	}
	prows.Close()

	var winners []int64
	winners, err = mutate(g, participants)
	if err != nil {
		return nil, err
	}
	g.Winners = winners

	if _, err = tx.ExecContext(ctx, `UPDATE giveaways SET winners_ids = ? WHERE id = ?`,
		models.EncodeWinners(winners), id); err != nil {
		err = apperrors.NewStorageError("update winners", err)
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = apperrors.NewStorageError("update winners", err)
		return nil, err
	}
	return g, nil
}

// Delete removes the giveaway and its participant rows in one transaction.
func (r *GiveawayRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("delete giveaway", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM participants WHERE giveaway_id = ?`, id); err != nil {
		err = apperrors.NewStorageError("delete giveaway", err)
		return err
	}
	var res sql.Result
	res, err = tx.ExecContext(ctx, `DELETE FROM giveaways WHERE id = ?`, id)
	if err != nil {
		err = apperrors.NewStorageError("delete giveaway", err)
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		err = apperrors.NewNotFoundError("giveaway", id)
		return err
	}
	if err = tx.Commit(); err != nil {
		err = apperrors.NewStorageError("delete giveaway", err)
		return err
	}
	return nil
}

func (r *GiveawayRepository) InvitedCounts(ctx context.Context, userIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int, len(userIDs))
	const q = `SELECT invited_friends FROM users WHERE user_id = ?`
	for _, id := range userIDs {
		var invited int
		err := r.db.QueryRowContext(ctx, q, id).Scan(&invited)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperrors.NewStorageError("get invited counts", err)
		}
		out[id] = invited
	}
	return out, nil
}

func (r *GiveawayRepository) Usernames(ctx context.Context, userIDs []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(userIDs))
	const q = `SELECT username FROM users WHERE user_id = ?`
	for _, id := range userIDs {
		var username sql.NullString
		err := r.db.QueryRowContext(ctx, q, id).Scan(&username)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, apperrors.NewStorageError("get usernames", err)
		}
		if username.Valid {
			out[id] = username.String
		}
	}
	return out, nil
}
