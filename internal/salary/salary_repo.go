package salary

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *SalaryRecord) error
	FindByID(ctx context.Context, id string) (*SalaryRecord, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error)
	FindAllByPeriod(ctx context.Context, period string) ([]SalaryRecord, error)
	Update(ctx context.Context, rec *SalaryRecord) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("period DESC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) FindAllByPeriod(ctx context.Context, period string) ([]SalaryRecord, error) {
	var recs []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("period = ?", period).
		Order("employee_id ASC").
		Find(&recs).Error
	return recs, err
}

func (r *repository) Update(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&SalaryRecord{}, "id = ?", id).Error
}
