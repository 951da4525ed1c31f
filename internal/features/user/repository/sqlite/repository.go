package sqlite

import (
	"context"
	"database/sql"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/features/user/models"
)

// UserRepository persists users and the referral ledger embedded in them.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateWithReferrer(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("create user", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	const q = `
	INSERT INTO users (user_id, username, fullname, role, referrer_id)
	VALUES (?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, q, user.ID, user.Username, user.Fullname, role, user.ReferrerID); err != nil {
		err = apperrors.NewStorageError("create user", err)
		return err
	}

	// One-time referral bonus: the referrer is credited exactly when the
	// referred row is first written, so replayed registrations can't
	// double-count.
	if user.ReferrerID != nil {
		if _, err = tx.ExecContext(ctx,
			`UPDATE users SET invited_friends = invited_friends + 1 WHERE user_id = ?`,
			*user.ReferrerID); err != nil {
			err = apperrors.NewStorageError("credit referrer", err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = apperrors.NewStorageError("create user", err)
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `
	SELECT user_id, username, fullname, role, invited_friends, referrer_id
	FROM users WHERE user_id = ?`
	var (
		u        models.User
		username sql.NullString
		fullname sql.NullString
		referrer sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &username, &fullname, &u.Role, &u.InvitedFriends, &referrer)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("user", id)
	}
	if err != nil {
		return nil, apperrors.NewStorageError("get user", err)
	}
	u.Username = username.String
	u.Fullname = fullname.String
	if referrer.Valid {
		v := referrer.Int64
		u.ReferrerID = &v
	}
	return &u, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, fullname string) error {
	const q = `UPDATE users SET username = ?, fullname = ? WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, q, username, fullname, id)
	if err != nil {
		return apperrors.NewStorageError("update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("user", id)
	}
	return nil
}

func (r *UserRepository) Referrals(ctx context.Context, referrerID int64) ([]int64, error) {
	const q = `SELECT user_id FROM users WHERE referrer_id = ? ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, q, referrerID)
	if err != nil {
		return nil, apperrors.NewStorageError("get referrals", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewStorageError("get referrals", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("get referrals", err)
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	const q = `
	SELECT user_id, username, fullname, role, invited_friends, referrer_id
	FROM users ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperrors.NewStorageError("list users", err)
	}
	defer rows.Close()
	var out []*models.User
	for rows.Next() {
		var (
			u        models.User
			username sql.NullString
			fullname sql.NullString
			referrer sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &username, &fullname, &u.Role, &u.InvitedFriends, &referrer); err != nil {
			return nil, apperrors.NewStorageError("list users", err)
		}
		u.Username = username.String
		u.Fullname = fullname.String
		if referrer.Valid {
			v := referrer.Int64
			u.ReferrerID = &v
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("list users", err)
	}
	return out, nil
}
