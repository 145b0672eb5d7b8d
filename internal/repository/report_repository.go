package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yuezh/todo-report-backend/internal/domain"
)

// ReportRepository handles persistence for generated reports.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// List returns one page of the user's reports, newest first, optionally
// filtered by type, plus the unpaginated total.
func (r *ReportRepository) List(ctx context.Context, userID string, reportType domain.ReportType, page, limit int) ([]domain.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Report{}).Where("user_id = ?", userID)
	if reportType != "" {
		query = query.Where("type = ?", reportType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var reports []domain.Report
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

func (r *ReportRepository) FindByID(ctx context.Context, userID, id string) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Save(ctx context.Context, report *domain.Report) error {
	if err := r.db.WithContext(ctx).Save(report).Error; err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (r *ReportRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.Report{}).Error; err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}
