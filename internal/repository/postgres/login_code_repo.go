package postgres

import (
	"context"
	"database/sql"
	"time"

	"ambassadorhub/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, email, codeHash, expiresAt)
	return err
}

func (r *loginCodeRepository) ListActive(ctx context.Context, email string, now time.Time) ([]*domain.LoginCode, error) {
	query := `
		SELECT id, email, code_hash, expires_at
		FROM login_codes
		WHERE email = $1 AND used = FALSE AND expires_at > $2
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, email, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	codes := make([]*domain.LoginCode, 0)
	for rows.Next() {
		c := &domain.LoginCode{}
		if err := rows.Scan(&c.ID, &c.Email, &c.CodeHash, &c.ExpiresAt); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *loginCodeRepository) MarkUsed(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE login_codes SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
