package postgres

import (
	"context"
	"database/sql"

	"ambassadorhub/internal/domain"
)

type whitelistRepository struct {
	DB *sql.DB
}

func NewWhitelistRepository(db *sql.DB) domain.WhitelistRepository {
	return &whitelistRepository{DB: db}
}

func (r *whitelistRepository) Create(ctx context.Context, email string) error {
	query := `
		INSERT INTO whitelist_emails (email, created_at)
		VALUES ($1, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, email)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *whitelistRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM whitelist_emails WHERE email = $1)`
	if err := r.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *whitelistRepository) Delete(ctx context.Context, email string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM whitelist_emails WHERE email = $1`, email)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *whitelistRepository) List(ctx context.Context) ([]*domain.WhitelistEntry, error) {
	query := `
		SELECT email, created_at
		FROM whitelist_emails
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.WhitelistEntry, 0)
	for rows.Next() {
		e := &domain.WhitelistEntry{}
		if err := rows.Scan(&e.Email, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
