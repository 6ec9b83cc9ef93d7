package salary

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	salaryerrors "go-workforce/internal/salary/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error)
	GetAllByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error)
	GetByID(ctx context.Context, id string) (SalaryResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)
	MarkPaid(ctx context.Context, id string) (SalaryResponse, error)
	PeriodSummary(ctx context.Context, period string) (PeriodSummaryResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateSalaryRequest) (SalaryResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrSalaryNotFound
	}
	if !periodPattern.MatchString(req.Period) {
		return SalaryResponse{}, salaryerrors.ErrInvalidPeriod
	}

	base, err := parseAmount(req.BaseSalary)
	if err != nil {
		return SalaryResponse{}, err
	}
	allowance, err := parseOptionalAmount(req.Allowance)
	if err != nil {
		return SalaryResponse{}, err
	}
	deduction, err := parseOptionalAmount(req.Deduction)
	if err != nil {
		return SalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	rec := &SalaryRecord{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Period:     req.Period,
		BaseSalary: base,
		Allowance:  allowance,
		Deduction:  deduction,
		Status:     PaymentPending,
	}

	if err := s.repo.WithTx(tx).Create(ctx, rec); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	s.logger.Info("salary record created",
		zap.String("employee_id", rec.EmployeeID.String()),
		zap.String("period", rec.Period),
	)
	return mapToResponse(*rec), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, employeeID string) ([]SalaryResponse, error) {
	recs, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	out := make([]SalaryResponse, len(recs))
	for i, rec := range recs {
		out[i] = mapToResponse(rec)
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error) {
	base, err := parseAmount(req.BaseSalary)
	if err != nil {
		return SalaryResponse{}, err
	}
	allowance, err := parseOptionalAmount(req.Allowance)
	if err != nil {
		return SalaryResponse{}, err
	}
	deduction, err := parseOptionalAmount(req.Deduction)
	if err != nil {
		return SalaryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if rec.Status == PaymentPaid {
		return SalaryResponse{}, salaryerrors.ErrSalaryAlreadyPaid
	}

	rec.BaseSalary = base
	rec.Allowance = allowance
	rec.Deduction = deduction

	if err := qtx.Update(ctx, rec); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) MarkPaid(ctx context.Context, id string) (SalaryResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if rec.Status == PaymentPaid {
		return SalaryResponse{}, salaryerrors.ErrSalaryAlreadyPaid
	}

	now := time.Now().UTC()
	rec.Status = PaymentPaid
	rec.PaidAt = &now

	if err := qtx.Update(ctx, rec); err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return SalaryResponse{}, err
	}

	s.logger.Info("salary record paid", zap.String("salary_id", id))
	return mapToResponse(*rec), nil
}

func (s *service) PeriodSummary(ctx context.Context, period string) (PeriodSummaryResponse, error) {
	if !periodPattern.MatchString(period) {
		return PeriodSummaryResponse{}, salaryerrors.ErrInvalidPeriod
	}

	recs, err := s.repo.FindAllByPeriod(ctx, period)
	if err != nil {
		return PeriodSummaryResponse{}, mapRepositoryError(err)
	}

	totalNet := decimal.Zero
	totalPaid := decimal.Zero
	for _, rec := range recs {
		net := rec.NetAmount()
		totalNet = totalNet.Add(net)
		if rec.Status == PaymentPaid {
			totalPaid = totalPaid.Add(net)
		}
	}

	return PeriodSummaryResponse{
		Period:      period,
		RecordCount: len(recs),
		TotalNet:    totalNet.StringFixed(2),
		TotalPaid:   totalPaid.StringFixed(2),
	}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if rec.Status == PaymentPaid {
		return salaryerrors.ErrSalaryAlreadyPaid
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	return tx.Commit()
}

func parseAmount(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, salaryerrors.ErrInvalidAmount
	}
	return d, nil
}

func parseOptionalAmount(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return parseAmount(v)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryerrors.ErrSalaryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_employee_period" {
			return salaryerrors.ErrSalaryAlreadyExists
		}
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_salary_employee_period") {
		return salaryerrors.ErrSalaryAlreadyExists
	}

	return err
}

func mapToResponse(rec SalaryRecord) SalaryResponse {
	resp := SalaryResponse{
		ID:         rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Period:     rec.Period,
		BaseSalary: rec.BaseSalary.StringFixed(2),
		Allowance:  rec.Allowance.StringFixed(2),
		Deduction:  rec.Deduction.StringFixed(2),
		NetAmount:  rec.NetAmount().StringFixed(2),
		Status:     rec.Status,
	}
	if rec.PaidAt != nil {
		v := rec.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}
