package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
)

var colorRegexp = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateCategoryRequest holds the data needed to create a category.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// UpdateCategoryRequest holds the data for a partial update.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

// CategoryWithCount mirrors the listing shape the frontend expects: the
// category record plus a nested todo count.
type CategoryWithCount struct {
	domain.Category
	Count CategoryCount `json:"_count"`
}

// CategoryCount nests the todo count under the "_count" key.
type CategoryCount struct {
	Todos int64 `json:"todos"`
}

// CategoryService wraps category business logic.
type CategoryService struct {
	categories *repository.CategoryRepository
}

func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]CategoryWithCount, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := s.categories.CountTodos(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, CategoryWithCount{Category: category, Count: CategoryCount{Todos: count}})
	}
	return result, nil
}

func (s *CategoryService) Create(ctx context.Context, userID string, req CreateCategoryRequest) (*domain.Category, error) {
	if err := validateCategoryName(req.Name); err != nil {
		return nil, err
	}
	if req.Color != "" && !colorRegexp.MatchString(req.Color) {
		return nil, validationErr("颜色格式不正确")
	}

	if err := s.checkNameFree(ctx, userID, req.Name); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
		UserID:      userID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id string) (*CategoryWithCount, error) {
	category, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	count, err := s.categories.CountTodos(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryWithCount{Category: *category, Count: CategoryCount{Todos: count}}, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id string, req UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		if err := validateCategoryName(*req.Name); err != nil {
			return nil, err
		}
		if err := s.checkNameFree(ctx, userID, *req.Name); err != nil {
			return nil, err
		}
		category.Name = *req.Name
	}
	if req.Color != nil {
		if !colorRegexp.MatchString(*req.Color) {
			return nil, validationErr("颜色格式不正确")
		}
		category.Color = *req.Color
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete unlinks the category's todos and removes the category atomically.
func (s *CategoryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.find(ctx, userID, id); err != nil {
		return err
	}
	return s.categories.DeleteWithUnlink(ctx, userID, id)
}

func (s *CategoryService) find(ctx context.Context, userID, id string) (*domain.Category, error) {
	category, err := s.categories.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) checkNameFree(ctx context.Context, userID, name string) error {
	if _, err := s.categories.FindByName(ctx, userID, name); err == nil {
		return ErrCategoryNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check category name: %w", err)
	}
	return nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return validationErr("分类名称不能为空")
	}
	if len([]rune(name)) > 50 {
		return validationErr("分类名称不能超过50个字符")
	}
	return nil
}
