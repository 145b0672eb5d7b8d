package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *string `json:"categoryId"`
}

// UpdateTodoRequest holds the data for a partial update. Pointers distinguish
// an omitted field from its zero value.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *string `json:"categoryId"`
	Completed   *bool   `json:"completed"`
}

// TodoPage is one page of a filtered listing.
type TodoPage struct {
	Todos      []domain.Todo `json:"todos"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination is the envelope shared by the paginated listings.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func paginate(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// TodoService wraps todo business logic.
type TodoService struct {
	todos      *repository.TodoRepository
	categories *repository.CategoryRepository
	now        func() time.Time
}

func NewTodoService(todos *repository.TodoRepository, categories *repository.CategoryRepository) *TodoService {
	return &TodoService{
		todos:      todos,
		categories: categories,
		now:        time.Now,
	}
}

func (s *TodoService) List(ctx context.Context, userID string, filter repository.TodoFilter) (*TodoPage, error) {
	todos, total, err := s.todos.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return &TodoPage{
		Todos:      todos,
		Pagination: paginate(filter.Page, filter.Limit, total),
	}, nil
}

func (s *TodoService) Create(ctx context.Context, userID string, req CreateTodoRequest) (*domain.Todo, error) {
	if req.Title == "" {
		return nil, validationErr("标题不能为空")
	}
	if len([]rune(req.Title)) > 200 {
		return nil, validationErr("标题不能超过200个字符")
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
		if !priority.Valid() {
			return nil, validationErr("无效的优先级")
		}
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	// A referenced category must belong to the caller.
	if req.CategoryID != nil && *req.CategoryID != "" {
		if err := s.checkCategoryOwnership(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	} else {
		req.CategoryID = nil
	}

	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     dueDate,
		CategoryID:  req.CategoryID,
		UserID:      userID,
	}
	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return s.todos.FindByID(ctx, userID, todo.ID)
}

func (s *TodoService) Get(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todo, err := s.todos.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, userID, id string, req UpdateTodoRequest) (*domain.Todo, error) {
	todo, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, validationErr("标题不能为空")
		}
		if len([]rune(*req.Title)) > 200 {
			return nil, validationErr("标题不能超过200个字符")
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		if !priority.Valid() {
			return nil, validationErr("无效的优先级")
		}
		todo.Priority = priority
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		todo.DueDate = dueDate
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			todo.CategoryID = nil
			todo.Category = nil
		} else {
			if err := s.checkCategoryOwnership(ctx, userID, *req.CategoryID); err != nil {
				return nil, err
			}
			todo.CategoryID = req.CategoryID
			todo.Category = nil
		}
	}
	if req.Completed != nil && *req.Completed != todo.Completed {
		s.setCompleted(todo, *req.Completed)
	}

	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, err
	}
	return s.todos.FindByID(ctx, userID, id)
}

func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.todos.Delete(ctx, userID, id)
}

// Toggle flips the completion flag. Completion stamps CompletedAt so the
// report range queries can see it; un-completion clears the stamp.
func (s *TodoService) Toggle(ctx context.Context, userID, id string) (*domain.Todo, error) {
	todo, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.setCompleted(todo, !todo.Completed)
	if err := s.todos.Save(ctx, todo); err != nil {
		return nil, err
	}
	return s.todos.FindByID(ctx, userID, id)
}

func (s *TodoService) setCompleted(todo *domain.Todo, completed bool) {
	todo.Completed = completed
	if completed {
		completedAt := s.now()
		todo.CompletedAt = &completedAt
	} else {
		todo.CompletedAt = nil
	}
}

func (s *TodoService) checkCategoryOwnership(ctx context.Context, userID, categoryID string) error {
	if _, err := s.categories.FindByID(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationErr("分类不存在")
		}
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, validationErr("无效的截止日期格式")
	}
	return &t, nil
}
