package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-workforce/internal/leave"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/rbac"
	"go-workforce/internal/shared/apperror"
)

// fakeLeaveRepo is an in-memory Repository. WithTx returns the same
// store so transactional and plain calls see one state.
type fakeLeaveRepo struct {
	records map[uuid.UUID]*leave.LeaveRequest
	lockErr error
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{records: make(map[uuid.UUID]*leave.LeaveRequest)}
}

func (f *fakeLeaveRepo) WithTx(_ *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepo) AcquireRequesterLock(_ context.Context, _ uuid.UUID) error {
	return f.lockErr
}

func (f *fakeLeaveRepo) Create(_ context.Context, l *leave.LeaveRequest) error {
	cp := *l
	f.records[l.ID] = &cp
	return nil
}

func (f *fakeLeaveRepo) FindByID(_ context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeLeaveRepo) FindActiveByEmployee(_ context.Context, employeeID uuid.UUID, excludeID *uuid.UUID) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, rec := range f.records {
		if rec.EmployeeID != employeeID || !rec.Active() {
			continue
		}
		if excludeID != nil && rec.ID == *excludeID {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeLeaveRepo) FindAll(_ context.Context, q leave.ListLeaveQuery) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, rec := range f.records {
		if q.EmployeeID != "" && rec.EmployeeID.String() != q.EmployeeID {
			continue
		}
		if q.Status != "" && rec.Status != q.Status {
			continue
		}
		if q.LeaveType != "" && rec.LeaveType != q.LeaveType {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) FindForStats(_ context.Context, employeeID *uuid.UUID, from, to *time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, rec := range f.records {
		if employeeID != nil && rec.EmployeeID != *employeeID {
			continue
		}
		if from != nil && rec.StartDate.Before(*from) {
			continue
		}
		if to != nil && rec.EndDate.After(*to) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeLeaveRepo) Update(_ context.Context, l *leave.LeaveRequest) error {
	if _, ok := f.records[l.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *l
	f.records[l.ID] = &cp
	return nil
}

func (f *fakeLeaveRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.records, id)
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(_ *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(_ context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListDue(_ context.Context, _ int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(_ context.Context, _ string) error           { return nil }
func (f *fakeOutbox) MarkFailed(_ context.Context, _, _ string) error      { return nil }

type leaveFixture struct {
	service leave.Service
	repo    *fakeLeaveRepo
	outbox  *fakeOutbox
	mock    sqlmock.Sqlmock
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeLeaveRepo()
	outbox := &fakeOutbox{}
	return &leaveFixture{
		service: leave.NewService(db, repo, outbox, zap.NewNop()),
		repo:    repo,
		outbox:  outbox,
		mock:    mock,
	}
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func validCreateReq() leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{
		LeaveType: leave.TypeAnnual,
		StartDate: "2024-03-01",
		EndDate:   "2024-03-03",
		Reason:    "family vacation abroad",
	}
}

func seedLeave(f *leaveFixture, employeeID uuid.UUID, status, start, end string) *leave.LeaveRequest {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	rec := &leave.LeaveRequest{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		LeaveType:       leave.TypeAnnual,
		StartDate:       s,
		EndDate:         e,
		TotalDays:       leave.InclusiveDays(s, e),
		Reason:          "previously filed request",
		Status:          status,
		WorkArrangement: leave.ArrangementNoCoverage,
		AppliedAt:       time.Now().UTC(),
	}
	f.repo.records[rec.ID] = rec
	return rec
}

func TestLeaveServiceCreate(t *testing.T) {
	employeeID := uuid.New()
	actor := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}

	t.Run("success", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		rec, err := f.service.Create(context.Background(), actor, validCreateReq())
		require.NoError(t, err)

		assert.Equal(t, leave.StatusPending, rec.Status)
		assert.Equal(t, 3, rec.TotalDays)
		assert.Equal(t, employeeID, rec.EmployeeID)
		assert.False(t, rec.AppliedAt.IsZero())
		require.Len(t, f.repo.records, 1)
		require.NoError(t, f.mock.ExpectationsWereMet())
	})

	t.Run("negative overlap with active request", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-03", "2024-03-05")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.Create(context.Background(), actor, validCreateReq())
		require.Error(t, err)
		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
		require.Len(t, f.repo.records, 1)
	})

	t.Run("rejected request does not block", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusRejected, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		_, err := f.service.Create(context.Background(), actor, validCreateReq())
		require.NoError(t, err)
	})

	t.Run("negative validation failure skips storage", func(t *testing.T) {
		f := newLeaveFixture(t)
		req := validCreateReq()
		req.Reason = "short"

		_, err := f.service.Create(context.Background(), actor, req)
		require.Error(t, err)
		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
		assert.Empty(t, f.repo.records)
	})

	t.Run("negative total days never taken from caller", func(t *testing.T) {
		f := newLeaveFixture(t)
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		req := validCreateReq()
		req.StartDate = "2024-07-01"
		req.EndDate = "2024-07-01"

		rec, err := f.service.Create(context.Background(), actor, req)
		require.NoError(t, err)
		assert.Equal(t, 1, rec.TotalDays)
	})
}

func TestLeaveServiceUpdate(t *testing.T) {
	employeeID := uuid.New()
	owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}

	t.Run("success recomputes span and excludes own record from overlap", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		newEnd := "2024-03-05"
		updated, err := f.service.Update(context.Background(), owner, rec.ID.String(), leave.UpdateLeaveRequest{
			EndDate: &newEnd,
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.TotalDays)
	})

	t.Run("negative overlap with a second request", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-10", "2024-03-12")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		newEnd := "2024-03-10"
		_, err := f.service.Update(context.Background(), owner, rec.ID.String(), leave.UpdateLeaveRequest{
			EndDate: &newEnd,
		})
		require.Error(t, err)
		assert.Equal(t, apperror.CodeConflict, appCode(t, err))
	})

	t.Run("negative non-owner cannot edit", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		stranger := leave.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleEmployee}
		reason := "a completely different reason"
		_, err := f.service.Update(context.Background(), stranger, rec.ID.String(), leave.UpdateLeaveRequest{
			Reason: &reason,
		})
		assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
	})

	t.Run("negative settled record is immutable", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		reason := "a completely different reason"
		_, err := f.service.Update(context.Background(), owner, rec.ID.String(), leave.UpdateLeaveRequest{
			Reason: &reason,
		})
		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	})

	t.Run("negative edit cannot break create invariants", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-05", "2024-03-07")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		badEnd := "2024-03-01"
		_, err := f.service.Update(context.Background(), owner, rec.ID.String(), leave.UpdateLeaveRequest{
			EndDate: &badEnd,
		})
		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})
}

func TestLeaveServiceDecisions(t *testing.T) {
	employeeID := uuid.New()
	hrID := uuid.New()
	hr := leave.Actor{EmployeeID: hrID.String(), Role: rbac.RoleHR}

	t.Run("approve success records decision and event", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		approved, err := f.service.Approve(context.Background(), hr, rec.ID.String())
		require.NoError(t, err)

		assert.Equal(t, leave.StatusApproved, approved.Status)
		require.NotNil(t, approved.DecidedAt)
		require.NotNil(t, approved.DecidedBy)
		assert.Equal(t, hrID, *approved.DecidedBy)

		require.Len(t, f.outbox.created, 1)
		assert.Equal(t, "leave_approved", f.outbox.created[0].EventType)
		assert.Equal(t, rec.ID.String(), f.outbox.created[0].AggregateID)
	})

	t.Run("reject success stores the reason", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		rejected, err := f.service.Reject(context.Background(), hr, rec.ID.String(), leave.RejectLeaveRequest{
			RejectionReason: "team is short staffed that week",
		})
		require.NoError(t, err)

		assert.Equal(t, leave.StatusRejected, rejected.Status)
		require.NotNil(t, rejected.RejectionReason)
		require.Len(t, f.outbox.created, 1)
		assert.Equal(t, "leave_rejected", f.outbox.created[0].EventType)
	})

	t.Run("negative reject requires a reason", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		_, err := f.service.Reject(context.Background(), hr, rec.ID.String(), leave.RejectLeaveRequest{})
		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})

	t.Run("negative employee cannot decide", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}
		_, err := f.service.Approve(context.Background(), owner, rec.ID.String())
		assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
		assert.Empty(t, f.outbox.created)
	})

	t.Run("negative double approval", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.Approve(context.Background(), hr, rec.ID.String())
		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
	})

	t.Run("negative unknown id", func(t *testing.T) {
		f := newLeaveFixture(t)

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		_, err := f.service.Approve(context.Background(), hr, uuid.NewString())
		assert.Equal(t, apperror.CodeNotFound, appCode(t, err))
	})
}

func TestLeaveServiceCancelAndDelete(t *testing.T) {
	employeeID := uuid.New()
	owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}

	t.Run("owner cancels pending request", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		cancelled, err := f.service.Cancel(context.Background(), owner, rec.ID.String())
		require.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, cancelled.Status)
	})

	t.Run("cancelled span can be reused", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusCancelled, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		_, err := f.service.Create(context.Background(), owner, validCreateReq())
		require.NoError(t, err)
	})

	t.Run("owner deletes pending request", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectCommit()

		require.NoError(t, f.service.Delete(context.Background(), owner, rec.ID.String()))
		assert.Empty(t, f.repo.records)
	})

	t.Run("negative approved request cannot be deleted", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")

		f.mock.ExpectBegin()
		f.mock.ExpectRollback()

		err := f.service.Delete(context.Background(), owner, rec.ID.String())
		assert.Equal(t, apperror.CodeInvalidState, appCode(t, err))
		require.Len(t, f.repo.records, 1)
	})
}

func TestLeaveServiceReadScoping(t *testing.T) {
	employeeID := uuid.New()
	otherID := uuid.New()

	t.Run("employee listing is forced to own records", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")
		seedLeave(f, otherID, leave.StatusPending, "2024-04-01", "2024-04-03")

		owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}
		out, total, err := f.service.GetAll(context.Background(), owner, leave.ListLeaveQuery{
			EmployeeID: otherID.String(),
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, out, 1)
		assert.Equal(t, employeeID, out[0].EmployeeID)
	})

	t.Run("hr sees everything", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusPending, "2024-03-01", "2024-03-03")
		seedLeave(f, otherID, leave.StatusPending, "2024-04-01", "2024-04-03")

		hr := leave.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleHR}
		_, total, err := f.service.GetAll(context.Background(), hr, leave.ListLeaveQuery{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("negative employee cannot read another employees record", func(t *testing.T) {
		f := newLeaveFixture(t)
		rec := seedLeave(f, otherID, leave.StatusPending, "2024-04-01", "2024-04-03")

		owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}
		_, err := f.service.GetByID(context.Background(), owner, rec.ID.String())
		assert.Equal(t, apperror.CodeForbidden, appCode(t, err))
	})
}

func TestLeaveServiceStats(t *testing.T) {
	employeeID := uuid.New()
	hr := leave.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleHR}

	t.Run("empty result is the zero value", func(t *testing.T) {
		f := newLeaveFixture(t)

		stats, err := f.service.Stats(context.Background(), hr, leave.StatsQuery{})
		require.NoError(t, err)
		assert.Equal(t, &leave.LeaveStatsResponse{}, stats)
	})

	t.Run("aggregates per status with cancelled in total only", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")
		seedLeave(f, employeeID, leave.StatusPending, "2024-04-01", "2024-04-02")
		seedLeave(f, employeeID, leave.StatusRejected, "2024-05-01", "2024-05-05")
		seedLeave(f, employeeID, leave.StatusCancelled, "2024-06-01", "2024-06-01")

		stats, err := f.service.Stats(context.Background(), hr, leave.StatsQuery{})
		require.NoError(t, err)

		assert.Equal(t, 4, stats.TotalRequests)
		assert.Equal(t, 1, stats.Approved)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 1, stats.Rejected)
		assert.Equal(t, 3+2+5+1, stats.TotalDays)
		assert.Equal(t, 3, stats.ApprovedDays)
		assert.Equal(t, 2, stats.PendingDays)
	})

	t.Run("negative window must be complete", func(t *testing.T) {
		f := newLeaveFixture(t)

		_, err := f.service.Stats(context.Background(), hr, leave.StatsQuery{StartDate: "2024-03-01"})
		assert.Equal(t, apperror.CodeInvalidInput, appCode(t, err))
	})

	t.Run("window keeps fully contained requests only", func(t *testing.T) {
		f := newLeaveFixture(t)
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-30", "2024-04-02")

		stats, err := f.service.Stats(context.Background(), hr, leave.StatsQuery{
			StartDate: "2024-03-01",
			EndDate:   "2024-03-31",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalRequests)
	})

	t.Run("employee stats are forced to own records", func(t *testing.T) {
		f := newLeaveFixture(t)
		otherID := uuid.New()
		seedLeave(f, employeeID, leave.StatusApproved, "2024-03-01", "2024-03-03")
		seedLeave(f, otherID, leave.StatusApproved, "2024-04-01", "2024-04-03")

		owner := leave.Actor{EmployeeID: employeeID.String(), Role: rbac.RoleEmployee}
		stats, err := f.service.Stats(context.Background(), owner, leave.StatsQuery{
			EmployeeID: otherID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalRequests)
	})
}

func TestLeaveServiceStorageFailure(t *testing.T) {
	f := newLeaveFixture(t)
	f.repo.lockErr = errors.New("connection reset")

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	actor := leave.Actor{EmployeeID: uuid.NewString(), Role: rbac.RoleEmployee}
	_, err := f.service.Create(context.Background(), actor, validCreateReq())
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInternalError, appCode(t, err))
}
