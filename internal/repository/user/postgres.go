package user

import (
	"context"
	"errors"

	"printshop/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const userColumns = `
id, email, phone, password_hash, first_name, last_name, role,
referral_code, referred_by, bonus_balance, is_active, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	const q = `
INSERT INTO users (email, phone, password_hash, first_name, last_name, role, referral_code, referred_by)
VALUES (lower($1), $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q,
		in.Email, in.Phone, in.PasswordHash, in.FirstName, in.LastName,
		in.Role, in.ReferralCode, in.ReferredBy))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.fetchOne(ctx, "WHERE id = $1", id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchOne(ctx, "WHERE email = lower($1)", email)
}

func (r *postgresRepo) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return r.fetchOne(ctx, "WHERE referral_code = $1", code)
}

func (r *postgresRepo) UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error) {
	const q = `
UPDATE users SET
	phone = COALESCE($2, phone),
	first_name = COALESCE($3, first_name),
	last_name = COALESCE($4, last_name)
WHERE id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, id, in.Phone, in.FirstName, in.LastName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresRepo) CountReferrals(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE referred_by = $1`, userID).Scan(&n)
	return n, err
}

func (r *postgresRepo) AdjustBonus(ctx context.Context, btx domain.BonusTransaction) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE users SET bonus_balance = bonus_balance + $2
WHERE id = $1 AND bonus_balance + $2 >= 0`, btx.UserID, btx.Amount)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, btx.UserID); getErr != nil {
			return getErr
		}
		return domain.ErrInsufficientBonus
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO bonus_transactions (user_id, order_id, amount, kind, comment)
VALUES ($1, $2, $3, $4, $5)`,
		btx.UserID, btx.OrderID, btx.Amount, btx.Kind, btx.Comment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) BonusHistory(ctx context.Context, userID int64) ([]domain.BonusTransaction, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, order_id, amount, kind, comment, created_at
FROM bonus_transactions
WHERE user_id = $1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BonusTransaction
	for rows.Next() {
		var t domain.BonusTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.OrderID, &t.Amount, &t.Kind, &t.Comment, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *postgresRepo) fetchOne(ctx context.Context, whereClause string, args ...interface{}) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users "+whereClause, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.ReferralCode, &u.ReferredBy, &u.BonusBalance, &u.IsActive, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
