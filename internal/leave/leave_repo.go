package leave

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// AcquireRequesterLock serializes check-then-write sequences for one
	// requester. It must run inside a transaction; the lock is released
	// at commit or rollback.
	AcquireRequesterLock(ctx context.Context, employeeID uuid.UUID) error
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindActiveByEmployee(ctx context.Context, employeeID uuid.UUID, excludeID *uuid.UUID) ([]LeaveRequest, error)
	FindAll(ctx context.Context, q ListLeaveQuery) ([]LeaveRequest, int64, error)
	FindForStats(ctx context.Context, employeeID *uuid.UUID, from, to *time.Time) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const leaveColumns = `
	id, employee_id, leave_type, start_date, end_date, total_days, reason,
	status, work_arrangement, covering_employee_id,
	emergency_contact_name, emergency_contact_phone,
	applied_at, decided_at, decided_by, rejection_reason,
	created_at, updated_at`

func (r *repository) AcquireRequesterLock(ctx context.Context, employeeID uuid.UUID) error {
	if r.tx == nil {
		return fmt.Errorf("requester lock requires a transaction")
	}
	_, err := r.tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended('leave:' || $1::text, 0))`,
		employeeID,
	)
	return err
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	_, err := r.execer().ExecContext(ctx, `
		INSERT INTO leave_requests
			(id, employee_id, leave_type, start_date, end_date, total_days, reason,
			 status, work_arrangement, covering_employee_id,
			 emergency_contact_name, emergency_contact_phone, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays, l.Reason,
		l.Status, l.WorkArrangement, l.CoveringEmployeeID,
		l.EmergencyContactName, l.EmergencyContactPhone, l.AppliedAt,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	row := r.queryer().QueryRowContext(ctx,
		`SELECT`+leaveColumns+` FROM leave_requests WHERE id = $1`, id)
	return scanLeave(row)
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID uuid.UUID, excludeID *uuid.UUID) ([]LeaveRequest, error) {
	rows, err := r.queryer().QueryContext(ctx, `
		SELECT`+leaveColumns+`
		FROM leave_requests
		WHERE employee_id = $1
		  AND status IN ($2, $3)
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_date ASC`,
		employeeID, StatusPending, StatusApproved, excludeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeaves(rows)
}

func (r *repository) FindAll(ctx context.Context, q ListLeaveQuery) ([]LeaveRequest, int64, error) {
	where := []string{"1=1"}
	args := []any{}

	if q.EmployeeID != "" {
		args = append(args, q.EmployeeID)
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if q.Status != "" {
		args = append(args, q.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if q.LeaveType != "" {
		args = append(args, q.LeaveType)
		where = append(where, fmt.Sprintf("leave_type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	err := r.queryer().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leave_requests WHERE `+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	rows, err := r.queryer().QueryContext(ctx,
		`SELECT`+leaveColumns+` FROM leave_requests WHERE `+cond+
			fmt.Sprintf(" ORDER BY applied_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leaves, err := collectLeaves(rows)
	if err != nil {
		return nil, 0, err
	}
	return leaves, total, nil
}

// FindForStats matches on requester and, when a window is given, full
// containment: the request's whole span must lie inside [from, to].
func (r *repository) FindForStats(ctx context.Context, employeeID *uuid.UUID, from, to *time.Time) ([]LeaveRequest, error) {
	rows, err := r.queryer().QueryContext(ctx, `
		SELECT`+leaveColumns+`
		FROM leave_requests
		WHERE ($1::uuid IS NULL OR employee_id = $1)
		  AND ($2::date IS NULL OR start_date >= $2)
		  AND ($3::date IS NULL OR end_date <= $3)`,
		employeeID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLeaves(rows)
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	res, err := r.execer().ExecContext(ctx, `
		UPDATE leave_requests
		SET leave_type = $2, start_date = $3, end_date = $4, total_days = $5,
		    reason = $6, status = $7, work_arrangement = $8,
		    covering_employee_id = $9, emergency_contact_name = $10,
		    emergency_contact_phone = $11, decided_at = $12, decided_by = $13,
		    rejection_reason = $14, updated_at = NOW()
		WHERE id = $1`,
		l.ID, l.LeaveType, l.StartDate, l.EndDate, l.TotalDays,
		l.Reason, l.Status, l.WorkArrangement,
		l.CoveringEmployeeID, l.EmergencyContactName,
		l.EmergencyContactPhone, l.DecidedAt, l.DecidedBy, l.RejectionReason,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.execer().ExecContext(ctx,
		`DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (*LeaveRequest, error) {
	var l LeaveRequest
	var covering, decidedBy uuid.NullUUID
	var contactName, contactPhone, rejection sql.NullString
	var decidedAt sql.NullTime

	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.TotalDays, &l.Reason,
		&l.Status, &l.WorkArrangement, &covering,
		&contactName, &contactPhone,
		&l.AppliedAt, &decidedAt, &decidedBy, &rejection,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if covering.Valid {
		l.CoveringEmployeeID = &covering.UUID
	}
	if decidedBy.Valid {
		l.DecidedBy = &decidedBy.UUID
	}
	if contactName.Valid {
		l.EmergencyContactName = &contactName.String
	}
	if contactPhone.Valid {
		l.EmergencyContactPhone = &contactPhone.String
	}
	if decidedAt.Valid {
		l.DecidedAt = &decidedAt.Time
	}
	if rejection.Valid {
		l.RejectionReason = &rejection.String
	}

	return &l, nil
}

func collectLeaves(rows *sql.Rows) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, *l)
	}
	return leaves, rows.Err()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) queryer() interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
