package salary_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-workforce/internal/salary"
	salaryerrors "go-workforce/internal/salary/errors"
)

type fakeSalaryRepo struct {
	records   map[uuid.UUID]*salary.SalaryRecord
	createErr error
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{records: make(map[uuid.UUID]*salary.SalaryRecord)}
}

func (f *fakeSalaryRepo) WithTx(_ *sql.Tx) salary.Repository { return f }

func (f *fakeSalaryRepo) Create(_ context.Context, rec *salary.SalaryRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.records {
		if existing.EmployeeID == rec.EmployeeID && existing.Period == rec.Period {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_salary_employee_period"}
		}
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeSalaryRepo) FindByID(_ context.Context, id string) (*salary.SalaryRecord, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	rec, ok := f.records[parsed]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeSalaryRepo) FindAllByEmployee(_ context.Context, employeeID string) ([]salary.SalaryRecord, error) {
	var out []salary.SalaryRecord
	for _, rec := range f.records {
		if rec.EmployeeID.String() == employeeID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeSalaryRepo) FindAllByPeriod(_ context.Context, period string) ([]salary.SalaryRecord, error) {
	var out []salary.SalaryRecord
	for _, rec := range f.records {
		if rec.Period == period {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeSalaryRepo) Update(_ context.Context, rec *salary.SalaryRecord) error {
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeSalaryRepo) Delete(_ context.Context, id string) error {
	delete(f.records, uuid.MustParse(id))
	return nil
}

func setupSalary(t *testing.T) (salary.Service, *fakeSalaryRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeSalaryRepo()
	return salary.NewService(db, repo, zap.NewNop()), repo, mock
}

func TestSalaryServiceCreate(t *testing.T) {
	employeeID := uuid.NewString()

	t.Run("success computes exact net amount", func(t *testing.T) {
		svc, _, mock := setupSalary(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		resp, err := svc.Create(context.Background(), salary.CreateSalaryRequest{
			EmployeeID: employeeID,
			Period:     "2024-03",
			BaseSalary: "5000.10",
			Allowance:  "250.25",
			Deduction:  "0.35",
		})
		require.NoError(t, err)

		assert.Equal(t, "5250.00", resp.NetAmount)
		assert.Equal(t, salary.PaymentPending, resp.Status)
	})

	t.Run("negative malformed period", func(t *testing.T) {
		svc, _, _ := setupSalary(t)

		_, err := svc.Create(context.Background(), salary.CreateSalaryRequest{
			EmployeeID: employeeID,
			Period:     "03-2024",
			BaseSalary: "5000",
		})
		assert.ErrorIs(t, err, salaryerrors.ErrInvalidPeriod)
	})

	t.Run("negative non-numeric amount", func(t *testing.T) {
		svc, _, _ := setupSalary(t)

		_, err := svc.Create(context.Background(), salary.CreateSalaryRequest{
			EmployeeID: employeeID,
			Period:     "2024-03",
			BaseSalary: "lots",
		})
		assert.ErrorIs(t, err, salaryerrors.ErrInvalidAmount)
	})

	t.Run("negative duplicate employee period", func(t *testing.T) {
		svc, _, mock := setupSalary(t)
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectBegin()
		mock.ExpectRollback()

		req := salary.CreateSalaryRequest{
			EmployeeID: employeeID,
			Period:     "2024-03",
			BaseSalary: "5000",
		}
		_, err := svc.Create(context.Background(), req)
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, salaryerrors.ErrSalaryAlreadyExists)
	})
}

func TestSalaryServicePayment(t *testing.T) {
	employeeID := uuid.NewString()

	create := func(t *testing.T, svc salary.Service, mock sqlmock.Sqlmock) salary.SalaryResponse {
		t.Helper()
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Create(context.Background(), salary.CreateSalaryRequest{
			EmployeeID: employeeID,
			Period:     "2024-03",
			BaseSalary: "5000",
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("mark paid sets timestamp", func(t *testing.T) {
		svc, _, mock := setupSalary(t)
		rec := create(t, svc, mock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		paid, err := svc.MarkPaid(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, salary.PaymentPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)
	})

	t.Run("negative paid record is frozen", func(t *testing.T) {
		svc, _, mock := setupSalary(t)
		rec := create(t, svc, mock)

		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.MarkPaid(context.Background(), rec.ID)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err = svc.Update(context.Background(), rec.ID, salary.UpdateSalaryRequest{BaseSalary: "6000"})
		assert.ErrorIs(t, err, salaryerrors.ErrSalaryAlreadyPaid)

		mock.ExpectBegin()
		mock.ExpectRollback()
		err = svc.Delete(context.Background(), rec.ID)
		assert.ErrorIs(t, err, salaryerrors.ErrSalaryAlreadyPaid)
	})
}

func TestSalaryPeriodSummary(t *testing.T) {
	svc, repo, mock := setupSalary(t)

	for _, amounts := range []struct {
		base string
		paid bool
	}{
		{"1000.50", true},
		{"2000.25", false},
	} {
		mock.ExpectBegin()
		mock.ExpectCommit()
		resp, err := svc.Create(context.Background(), salary.CreateSalaryRequest{
			EmployeeID: uuid.NewString(),
			Period:     "2024-03",
			BaseSalary: amounts.base,
		})
		require.NoError(t, err)
		if amounts.paid {
			mock.ExpectBegin()
			mock.ExpectCommit()
			_, err := svc.MarkPaid(context.Background(), resp.ID)
			require.NoError(t, err)
		}
	}
	require.Len(t, repo.records, 2)

	summary, err := svc.PeriodSummary(context.Background(), "2024-03")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, "3000.75", summary.TotalNet)
	assert.Equal(t, "1000.50", summary.TotalPaid)
}
