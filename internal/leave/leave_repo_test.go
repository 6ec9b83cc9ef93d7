package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-workforce/internal/leave"
)

var leaveRows = []string{
	"id", "employee_id", "leave_type", "start_date", "end_date", "total_days", "reason",
	"status", "work_arrangement", "covering_employee_id",
	"emergency_contact_name", "emergency_contact_phone",
	"applied_at", "decided_at", "decided_by", "rejection_reason",
	"created_at", "updated_at",
}

func repoFixture(t *testing.T) (leave.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return leave.NewRepository(db), mock
}

func TestLeaveRepositoryFindByID(t *testing.T) {
	repo, mock := repoFixture(t)

	id := uuid.New()
	employeeID := uuid.New()
	now := time.Now().UTC()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	t.Run("success maps nullable columns", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)*FROM leave_requests WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(leaveRows).AddRow(
				id, employeeID, leave.TypeAnnual, start, end, 3, "family vacation abroad",
				leave.StatusPending, leave.ArrangementNoCoverage, nil,
				nil, nil,
				now, nil, nil, nil,
				now, now,
			))

		rec, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)

		assert.Equal(t, id, rec.ID)
		assert.Equal(t, 3, rec.TotalDays)
		assert.Nil(t, rec.CoveringEmployeeID)
		assert.Nil(t, rec.DecidedAt)
		assert.Nil(t, rec.RejectionReason)
	})

	t.Run("success decided request", func(t *testing.T) {
		deciderID := uuid.New()
		reason := "short staffed"
		mock.ExpectQuery("SELECT(.|\n)*FROM leave_requests WHERE id").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(leaveRows).AddRow(
				id, employeeID, leave.TypeAnnual, start, end, 3, "family vacation abroad",
				leave.StatusRejected, leave.ArrangementNoCoverage, nil,
				nil, nil,
				now, now, deciderID, reason,
				now, now,
			))

		rec, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)

		require.NotNil(t, rec.DecidedBy)
		assert.Equal(t, deciderID, *rec.DecidedBy)
		require.NotNil(t, rec.RejectionReason)
		assert.Equal(t, reason, *rec.RejectionReason)
	})

	t.Run("negative missing row", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)*FROM leave_requests WHERE id").
			WithArgs(id).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), id)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestLeaveRepositoryCreate(t *testing.T) {
	repo, mock := repoFixture(t)

	rec := &leave.LeaveRequest{
		ID:              uuid.New(),
		EmployeeID:      uuid.New(),
		LeaveType:       leave.TypeSick,
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		TotalDays:       1,
		Reason:          "doctor appointment follow up",
		Status:          leave.StatusPending,
		WorkArrangement: leave.ArrangementNoCoverage,
		AppliedAt:       time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO leave_requests").
		WithArgs(
			rec.ID, rec.EmployeeID, rec.LeaveType, rec.StartDate, rec.EndDate,
			rec.TotalDays, rec.Reason, rec.Status, rec.WorkArrangement,
			nil, nil, nil, rec.AppliedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryDelete(t *testing.T) {
	repo, mock := repoFixture(t)
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM leave_requests WHERE id").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("negative zero rows reported as no rows", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM leave_requests WHERE id").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestLeaveRepositoryFindAll(t *testing.T) {
	repo, mock := repoFixture(t)
	employeeID := uuid.New()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(employeeID.String(), leave.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT(.|\n)*FROM leave_requests WHERE(.|\n)*ORDER BY applied_at").
		WithArgs(employeeID.String(), leave.StatusPending, 10, 0).
		WillReturnRows(sqlmock.NewRows(leaveRows).AddRow(
			uuid.New(), employeeID, leave.TypeAnnual,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			3, "family vacation abroad",
			leave.StatusPending, leave.ArrangementNoCoverage, nil,
			nil, nil,
			now, nil, nil, nil,
			now, now,
		))

	out, total, err := repo.FindAll(context.Background(), leave.ListLeaveQuery{
		EmployeeID: employeeID.String(),
		Status:     leave.StatusPending,
		Page:       1,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, out, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryTransactionScoping(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := leave.NewRepository(db)

	t.Run("requester lock requires a transaction", func(t *testing.T) {
		err := repo.AcquireRequesterLock(context.Background(), uuid.New())
		require.Error(t, err)
	})

	t.Run("lock runs through the transaction", func(t *testing.T) {
		employeeID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").
			WithArgs(employeeID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		defer tx.Rollback()

		require.NoError(t, repo.WithTx(tx).AcquireRequesterLock(context.Background(), employeeID))
	})
}
