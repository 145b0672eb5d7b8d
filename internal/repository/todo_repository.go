package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yuezh/todo-report-backend/internal/domain"
)

// priorityRank orders the textual priority column URGENT > HIGH > MEDIUM > LOW.
const priorityRank = "CASE priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 1 ELSE 0 END"

// TodoFilter narrows the listing. Zero values mean "no filter"; Completed is a
// pointer so false can be filtered explicitly.
type TodoFilter struct {
	Completed  *bool
	CategoryID string
	Priority   domain.Priority
	Search     string
	Page       int
	Limit      int
}

// CategoryStatusCount is one row of the per-category completion group-by.
// CategoryID is nil for uncategorized todos.
type CategoryStatusCount struct {
	CategoryID *string
	Completed  bool
	Count      int64
}

// TodoRepository handles persistence and aggregation queries for todos.
type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) FindByID(ctx context.Context, userID, id string) (*domain.Todo, error) {
	var todo domain.Todo
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND id = ?", userID, id).
		First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// List returns one page of the user's todos plus the unpaginated total.
// Order: pending first, then priority rank descending, earliest due date
// (nulls last), newest created.
func (r *TodoRepository) List(ctx context.Context, userID string, filter TodoFilter) ([]domain.Todo, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Todo{}).Where("user_id = ?", userID)

	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var todos []domain.Todo
	if err := query.Preload("Category").
		Order("completed ASC").
		Order(priorityRank + " DESC").
		Order("due_date ASC NULLS LAST").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&todos).Error; err != nil {
		return nil, 0, fmt.Errorf("list todos: %w", err)
	}
	return todos, total, nil
}

// Save persists the todo fields only; the preloaded category association is
// never written back.
func (r *TodoRepository) Save(ctx context.Context, todo *domain.Todo) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(todo).Error; err != nil {
		return fmt.Errorf("save todo: %w", err)
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, id string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.Todo{}).Error; err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}

// windowed applies the created_at window used by the overview stats. Either
// bound may be nil.
func windowed(query *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if until != nil {
		query = query.Where("created_at < ?", *until)
	}
	return query
}

// Count counts the user's todos created inside the window, optionally split by
// completion state.
func (r *TodoRepository) Count(ctx context.Context, userID string, since, until *time.Time, completed *bool) (int64, error) {
	query := windowed(r.db.WithContext(ctx).Model(&domain.Todo{}).Where("user_id = ?", userID), since, until)
	if completed != nil {
		query = query.Where("completed = ?", *completed)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count todos: %w", err)
	}
	return count, nil
}

// CountOverdue counts pending todos with a due date in the past. The window
// applies to created_at, matching the overview's other counts.
func (r *TodoRepository) CountOverdue(ctx context.Context, userID string, since, until *time.Time, now time.Time) (int64, error) {
	query := windowed(r.db.WithContext(ctx).Model(&domain.Todo{}).Where("user_id = ?", userID), since, until).
		Where("completed = ?", false).
		Where("due_date < ?", now)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count overdue todos: %w", err)
	}
	return count, nil
}

// PriorityCounts returns the priority histogram of the user's todos created
// inside the window.
func (r *TodoRepository) PriorityCounts(ctx context.Context, userID string, since, until *time.Time) (map[domain.Priority]int64, error) {
	var rows []struct {
		Priority domain.Priority
		Count    int64
	}
	query := windowed(r.db.WithContext(ctx).Model(&domain.Todo{}).Where("user_id = ?", userID), since, until)
	if err := query.Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("group todos by priority: %w", err)
	}
	counts := make(map[domain.Priority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// StatusCountsByCategory groups the user's todos by (category, completed).
func (r *TodoRepository) StatusCountsByCategory(ctx context.Context, userID string) ([]CategoryStatusCount, error) {
	var rows []CategoryStatusCount
	if err := r.db.WithContext(ctx).Model(&domain.Todo{}).
		Select("category_id, completed, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("category_id").
		Group("completed").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("group todos by category: %w", err)
	}
	return rows, nil
}

// ListCreatedBetween loads the todos created in [start, end] for trend
// bucketing.
func (r *TodoRepository) ListCreatedBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start, end).
		Order("created_at ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos by creation: %w", err)
	}
	return todos, nil
}

// ListCompletedBetween loads completed todos whose completion timestamp falls
// in [start, end], newest completion first.
func (r *TodoRepository) ListCompletedBetween(ctx context.Context, userID string, start, end time.Time) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at <= ?", userID, true, start, end).
		Order("completed_at DESC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list completed todos: %w", err)
	}
	return todos, nil
}

// ListPendingDueBy loads pending todos whose due date is unset or at/before
// the given bound.
func (r *TodoRepository) ListPendingDueBy(ctx context.Context, userID string, end time.Time) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND completed = ? AND (due_date IS NULL OR due_date <= ?)", userID, false, end).
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list pending todos: %w", err)
	}
	return todos, nil
}
