package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
)

func TestTodoServiceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	user := env.seedUser(t, "todo@example.com")
	ctx := context.Background()

	if _, err := svc.Create(ctx, user.ID, CreateTodoRequest{}); !IsValidation(err) {
		t.Errorf("empty title error = %v, want validation error", err)
	}
	long := strings.Repeat("字", 201)
	if _, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: long}); !IsValidation(err) {
		t.Errorf("long title error = %v, want validation error", err)
	}
	if _, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: "x", Priority: "CRITICAL"}); !IsValidation(err) {
		t.Errorf("bad priority error = %v, want validation error", err)
	}
	if _, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: "x", DueDate: strPtr("tomorrow")}); !IsValidation(err) {
		t.Errorf("bad due date error = %v, want validation error", err)
	}

	// Exactly 200 runes is allowed; a missing priority defaults to MEDIUM.
	todo, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: strings.Repeat("字", 200)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if todo.Priority != domain.PriorityMedium {
		t.Errorf("default priority = %s, want MEDIUM", todo.Priority)
	}
}

func TestTodoServiceCreateRejectsForeignCategory(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	user := env.seedUser(t, "todo@example.com")
	other := env.seedUser(t, "other@example.com")
	theirs := env.seedCategory(t, other.ID, "工作")
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: "x", CategoryID: &theirs.ID})
	if !IsValidation(err) {
		t.Fatalf("foreign category error = %v, want validation error", err)
	}
	if err.Error() != "分类不存在" {
		t.Errorf("message = %q, want 分类不存在", err.Error())
	}

	var count int64
	if err := env.db.Model(&domain.Todo{}).Count(&count).Error; err != nil {
		t.Fatalf("count todos: %v", err)
	}
	if count != 0 {
		t.Errorf("%d todos created despite rejection", count)
	}
}

func TestTodoServiceToggleStampsCompletion(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	user := env.seedUser(t, "toggle@example.com")
	ctx := context.Background()

	todo, err := svc.Create(ctx, user.ID, CreateTodoRequest{Title: "ship it"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := svc.Toggle(ctx, user.ID, todo.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Fatalf("after first toggle: completed=%v completedAt=%v", toggled.Completed, toggled.CompletedAt)
	}

	toggled, err = svc.Toggle(ctx, user.ID, todo.ID)
	if err != nil {
		t.Fatalf("Toggle back: %v", err)
	}
	if toggled.Completed || toggled.CompletedAt != nil {
		t.Errorf("after second toggle: completed=%v completedAt=%v", toggled.Completed, toggled.CompletedAt)
	}
}

func TestTodoServiceUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	user := env.seedUser(t, "update@example.com")
	work := env.seedCategory(t, user.ID, "工作")
	ctx := context.Background()

	todo, err := svc.Create(ctx, user.ID, CreateTodoRequest{
		Title:       "draft",
		Description: "first pass",
		CategoryID:  &work.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only the provided fields change.
	updated, err := svc.Update(ctx, user.ID, todo.ID, UpdateTodoRequest{
		Priority:  strPtr("URGENT"),
		Completed: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "draft" || updated.Description != "first pass" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.Priority != domain.PriorityUrgent {
		t.Errorf("priority = %s, want URGENT", updated.Priority)
	}
	if !updated.Completed || updated.CompletedAt == nil {
		t.Errorf("completion not stamped: completed=%v completedAt=%v", updated.Completed, updated.CompletedAt)
	}

	// Empty category id detaches the todo.
	updated, err = svc.Update(ctx, user.ID, todo.ID, UpdateTodoRequest{CategoryID: strPtr("")})
	if err != nil {
		t.Fatalf("Update detach: %v", err)
	}
	if updated.CategoryID != nil {
		t.Errorf("category not detached: %v", *updated.CategoryID)
	}

	// Un-completing clears the stamp.
	updated, err = svc.Update(ctx, user.ID, todo.ID, UpdateTodoRequest{Completed: boolPtr(false)})
	if err != nil {
		t.Fatalf("Update uncomplete: %v", err)
	}
	if updated.Completed || updated.CompletedAt != nil {
		t.Errorf("stamp not cleared: completed=%v completedAt=%v", updated.Completed, updated.CompletedAt)
	}
}

func TestTodoServiceNotFoundCoversOtherUsers(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	owner := env.seedUser(t, "owner@example.com")
	intruder := env.seedUser(t, "intruder@example.com")
	ctx := context.Background()

	todo, err := svc.Create(ctx, owner.ID, CreateTodoRequest{Title: "private"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, intruder.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("cross-user Get error = %v, want ErrTodoNotFound", err)
	}
	if err := svc.Delete(ctx, intruder.ID, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Errorf("cross-user Delete error = %v, want ErrTodoNotFound", err)
	}
	if _, err := svc.Get(ctx, owner.ID, todo.ID); err != nil {
		t.Errorf("owner Get after intruder attempts: %v", err)
	}
}

func TestTodoServiceListDefaultsEmptyPage(t *testing.T) {
	env := newTestEnv(t)
	svc := NewTodoService(env.todos, env.categories)
	user := env.seedUser(t, "empty@example.com")
	ctx := context.Background()

	page, err := svc.List(ctx, user.ID, repository.TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Todos == nil {
		t.Error("Todos is nil, want empty slice for JSON encoding")
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 20 {
		t.Errorf("pagination defaults = %+v, want page 1 limit 20", page.Pagination)
	}
}
