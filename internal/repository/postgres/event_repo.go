package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ambassadorhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, title, description, date, location, status, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func insertSlots(ctx context.Context, tx *sql.Tx, eventID string, slots []*domain.Slot) error {
	query := `
		INSERT INTO event_slots (event_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, s := range slots {
		s.EventID = eventID
		if err := tx.QueryRowContext(ctx, query, eventID, s.StartTime, s.EndTime).Scan(&s.ID); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event, slots []*domain.Slot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, date, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, e.Title, e.Description, e.Date, e.Location, e.Status, e.CreatedAt, e.UpdatedAt).Scan(&e.ID); err != nil {
		return err
	}
	if err := insertSlots(ctx, tx, e.ID, slots); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetWithSlots(ctx context.Context, id string) (*domain.Event, []*domain.Slot, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	query := `
		SELECT id, event_id, start_time, end_time
		FROM event_slots
		WHERE event_id = $1
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s := &domain.Slot{}
		if err := rows.Scan(&s.ID, &s.EventID, &s.StartTime, &s.EndTime); err != nil {
			return nil, nil, err
		}
		slots = append(slots, s)
	}
	return e, slots, rows.Err()
}

func (r *eventRepository) List(ctx context.Context, status *domain.EventStatus) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Replace(ctx context.Context, e *domain.Event, slots []*domain.Slot) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// Count registrations that the slot swap is about to drop, so the caller
	// can surface the loss instead of orphaning rows silently.
	var dropped int
	countQuery := `
		SELECT COUNT(*)
		FROM slot_registrations sr
		JOIN event_slots s ON s.id = sr.slot_id
		WHERE s.event_id = $1
	`
	if err := tx.QueryRowContext(ctx, countQuery, e.ID).Scan(&dropped); err != nil {
		return 0, err
	}

	// Slot rows cascade their registrations; the per-event guard rows must go
	// explicitly so affected users can register again.
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_slots WHERE event_id = $1`, e.ID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = $1`, e.ID); err != nil {
		return 0, err
	}

	updateQuery := `
		UPDATE events SET title = $1, description = $2, date = $3, location = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + eventColumns
	updated, err := scanEvent(tx.QueryRowContext(ctx, updateQuery, e.Title, e.Description, e.Date, e.Location, e.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	*e = *updated

	if err := insertSlots(ctx, tx, e.ID, slots); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return dropped, nil
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
