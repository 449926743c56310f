package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ambassadorhub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{DB: db}
}

// CreateForEvent writes the per-event guard row and the slot registrations in
// one transaction. The UNIQUE (user_id, event_id) constraint on the guard table
// is what closes the check-then-act race between concurrent registrations.
func (r *registrationRepository) CreateForEvent(ctx context.Context, userID, eventID string, slotIDs []string, createdAt time.Time) ([]*domain.Registration, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	guardQuery := `
		INSERT INTO event_registrations (user_id, event_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	result, err := tx.ExecContext(ctx, guardQuery, userID, eventID, createdAt)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrAlreadyRegistered
	}

	slotQuery := `
		INSERT INTO slot_registrations (user_id, slot_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`
	regs := make([]*domain.Registration, 0, len(slotIDs))
	for _, slotID := range slotIDs {
		if _, err := tx.ExecContext(ctx, slotQuery, userID, slotID, domain.RegistrationWaiting, createdAt); err != nil {
			if isUniqueViolation(err) {
				return nil, domain.ErrAlreadyRegistered
			}
			return nil, err
		}
		regs = append(regs, &domain.Registration{
			UserID:    userID,
			SlotID:    slotID,
			Status:    domain.RegistrationWaiting,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		})
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, userID, slotID string, status domain.RegistrationStatus) (*domain.Registration, error) {
	query := `
		UPDATE slot_registrations SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND slot_id = $3
		RETURNING user_id, slot_id, status, created_at, updated_at
	`
	reg := &domain.Registration{}
	err := r.DB.QueryRowContext(ctx, query, status, userID, slotID).
		Scan(&reg.UserID, &reg.SlotID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RegistrationDetail, error) {
	query := `
		SELECT sr.user_id, sr.slot_id, sr.status, sr.created_at, sr.updated_at,
		       s.start_time, s.end_time, u.name, u.email
		FROM slot_registrations sr
		JOIN event_slots s ON s.id = sr.slot_id
		JOIN users u ON u.id = sr.user_id
		WHERE s.event_id = $1
		ORDER BY s.start_time ASC, sr.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		d := &domain.RegistrationDetail{}
		err := rows.Scan(
			&d.UserID, &d.SlotID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.SlotStartTime, &d.SlotEndTime, &d.UserName, &d.UserEmail,
		)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT user_id, slot_id, status, created_at, updated_at
		FROM slot_registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		if err := rows.Scan(&reg.UserID, &reg.SlotID, &reg.Status, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
