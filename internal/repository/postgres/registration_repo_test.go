package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"ambassadorhub/internal/domain"
)

func TestRegistrationRepository_CreateForEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("guard row then one registration per slot", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_registrations`).
			WithArgs("user-1", "ev-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO slot_registrations`).
			WithArgs("user-1", "slot-1", domain.RegistrationWaiting, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO slot_registrations`).
			WithArgs("user-1", "slot-2", domain.RegistrationWaiting, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewRegistrationRepository(db)
		regs, err := repo.CreateForEvent(ctx, "user-1", "ev-1", []string{"slot-1", "slot-2"}, now)
		require.NoError(t, err)
		require.Len(t, regs, 2)
		require.Equal(t, domain.RegistrationWaiting, regs[0].Status)
		require.Equal(t, "slot-1", regs[0].SlotID)
		require.Equal(t, "slot-2", regs[1].SlotID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard conflict means already registered", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		// ON CONFLICT DO NOTHING reports zero affected rows when the guard
		// row already exists; no slot rows are written.
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_registrations`).
			WithArgs("user-1", "ev-1", now).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		_, err = repo.CreateForEvent(ctx, "user-1", "ev-1", []string{"slot-1"}, now)
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slot unique violation maps to already registered", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_registrations`).
			WithArgs("user-1", "ev-1", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO slot_registrations`).
			WithArgs("user-1", "slot-1", domain.RegistrationWaiting, now).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		_, err = repo.CreateForEvent(ctx, "user-1", "ev-1", []string{"slot-1"}, now)
		require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_registrations`).
			WithArgs("user-1", "ev-1", now).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewRegistrationRepository(db)
		_, err = repo.CreateForEvent(ctx, "user-1", "ev-1", []string{"slot-1"}, now)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE slot_registrations SET status = \$1`).
			WithArgs(domain.RegistrationConfirmed, "user-1", "slot-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "slot_id", "status", "created_at", "updated_at"}).
				AddRow("user-1", "slot-1", "confirmed", now, now))

		repo := NewRegistrationRepository(db)
		reg, err := repo.UpdateStatus(ctx, "user-1", "slot-1", domain.RegistrationConfirmed)
		require.NoError(t, err)
		require.Equal(t, domain.RegistrationConfirmed, reg.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE slot_registrations SET status = \$1`).
			WithArgs(domain.RegistrationRejected, "user-1", "missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		_, err = repo.UpdateStatus(ctx, "user-1", "missing", domain.RegistrationRejected)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"user_id", "slot_id", "status", "created_at", "updated_at", "start_time", "end_time", "name", "email"}
	mock.ExpectQuery(`SELECT sr.user_id, sr.slot_id, sr.status`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("user-1", "slot-1", "waiting_list", now, now, now, now.Add(time.Hour), "Alice", "alice@next-u.fr").
			AddRow("user-2", "slot-1", "confirmed", now, now, now, now.Add(time.Hour), "Bob", "bob@next-u.fr"))

	repo := NewRegistrationRepository(db)
	details, err := repo.ListByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	require.Equal(t, "Alice", details[0].UserName)
	require.Equal(t, domain.RegistrationConfirmed, details[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"user_id", "slot_id", "status", "created_at", "updated_at"}
	mock.ExpectQuery(`SELECT user_id, slot_id, status`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("user-1", "slot-1", "waiting_list", now, now))

	repo := NewRegistrationRepository(db)
	regs, err := repo.ListByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
