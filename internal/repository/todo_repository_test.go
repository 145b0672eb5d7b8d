package repository

import (
	"context"
	"testing"
	"time"

	"github.com/yuezh/todo-report-backend/internal/domain"
)

func TestTodoRepositoryListOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewTodoRepository(db)
	user := seedUser(t, db, "order@example.com")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Completed rows sort after pending ones regardless of priority.
	seedTodo(t, db, &domain.Todo{Title: "done urgent", UserID: user.ID, Completed: true,
		Priority: domain.PriorityUrgent, CreatedAt: base})
	// Pending rows sort by priority rank, URGENT above HIGH above MEDIUM.
	seedTodo(t, db, &domain.Todo{Title: "pending medium", UserID: user.ID,
		Priority: domain.PriorityMedium, CreatedAt: base.Add(time.Minute)})
	seedTodo(t, db, &domain.Todo{Title: "pending urgent", UserID: user.ID,
		Priority: domain.PriorityUrgent, CreatedAt: base.Add(2 * time.Minute)})
	// Same priority: earlier due date first, no due date last.
	seedTodo(t, db, &domain.Todo{Title: "high due later", UserID: user.ID,
		Priority: domain.PriorityHigh, DueDate: timePtr(base.Add(48 * time.Hour)), CreatedAt: base})
	seedTodo(t, db, &domain.Todo{Title: "high due soon", UserID: user.ID,
		Priority: domain.PriorityHigh, DueDate: timePtr(base.Add(24 * time.Hour)), CreatedAt: base})
	seedTodo(t, db, &domain.Todo{Title: "high no due", UserID: user.ID,
		Priority: domain.PriorityHigh, CreatedAt: base})

	todos, total, err := repo.List(ctx, user.ID, TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 6 {
		t.Fatalf("total = %d, want 6", total)
	}

	want := []string{
		"pending urgent",
		"high due soon",
		"high due later",
		"high no due",
		"pending medium",
		"done urgent",
	}
	if len(todos) != len(want) {
		t.Fatalf("got %d todos, want %d", len(todos), len(want))
	}
	for i, title := range want {
		if todos[i].Title != title {
			t.Errorf("todos[%d].Title = %q, want %q", i, todos[i].Title, title)
		}
	}
}

func TestTodoRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTodoRepository(db)
	user := seedUser(t, db, "filter@example.com")
	other := seedUser(t, db, "other@example.com")
	work := seedCategory(t, db, user.ID, "工作")
	ctx := context.Background()

	seedTodo(t, db, &domain.Todo{Title: "Write report", UserID: user.ID, Completed: true,
		Priority: domain.PriorityHigh, CategoryID: &work.ID})
	seedTodo(t, db, &domain.Todo{Title: "Fix bug", UserID: user.ID,
		Priority: domain.PriorityHigh})
	seedTodo(t, db, &domain.Todo{Title: "Buy milk", UserID: user.ID,
		Priority: domain.PriorityLow})
	seedTodo(t, db, &domain.Todo{Title: "Not mine", UserID: other.ID,
		Priority: domain.PriorityHigh})

	completed := true
	todos, _, err := repo.List(ctx, user.ID, TodoFilter{Completed: &completed, Priority: domain.PriorityHigh})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Write report" {
		t.Fatalf("completed+priority filter returned %v", titles(todos))
	}
	if todos[0].Category == nil || todos[0].Category.Name != "工作" {
		t.Errorf("category not preloaded: %+v", todos[0].Category)
	}

	todos, _, err = repo.List(ctx, user.ID, TodoFilter{CategoryID: work.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Write report" {
		t.Fatalf("category filter returned %v", titles(todos))
	}

	// Search is case-insensitive across title and description.
	todos, _, err = repo.List(ctx, user.ID, TodoFilter{Search: "FIX"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 1 || todos[0].Title != "Fix bug" {
		t.Fatalf("search filter returned %v", titles(todos))
	}

	// Other users' rows never leak in.
	todos, total, err := repo.List(ctx, user.ID, TodoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(todos) != 3 {
		t.Fatalf("scoped list returned %d/%d rows, want 3/3", len(todos), total)
	}
}

func TestTodoRepositoryListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewTodoRepository(db)
	user := seedUser(t, db, "page@example.com")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedTodo(t, db, &domain.Todo{Title: "task", UserID: user.ID})
	}

	todos, total, err := repo.List(ctx, user.ID, TodoFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(todos) != 2 {
		t.Errorf("page 2 returned %d rows, want 2", len(todos))
	}

	todos, _, err = repo.List(ctx, user.ID, TodoFilter{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(todos) != 1 {
		t.Errorf("page 3 returned %d rows, want 1", len(todos))
	}
}

func TestTodoRepositoryCompletedAndPendingRanges(t *testing.T) {
	db := newTestDB(t)
	repo := NewTodoRepository(db)
	user := seedUser(t, db, "range@example.com")
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 7, 23, 59, 59, 0, time.UTC)

	seedTodo(t, db, &domain.Todo{Title: "in range", UserID: user.ID, Completed: true,
		CompletedAt: timePtr(start.Add(24 * time.Hour))})
	seedTodo(t, db, &domain.Todo{Title: "before range", UserID: user.ID, Completed: true,
		CompletedAt: timePtr(start.Add(-time.Hour))})
	seedTodo(t, db, &domain.Todo{Title: "no stamp", UserID: user.ID, Completed: true})
	seedTodo(t, db, &domain.Todo{Title: "pending no due", UserID: user.ID})
	seedTodo(t, db, &domain.Todo{Title: "pending due in range", UserID: user.ID,
		DueDate: timePtr(end.Add(-time.Hour))})
	seedTodo(t, db, &domain.Todo{Title: "pending due after", UserID: user.ID,
		DueDate: timePtr(end.Add(48 * time.Hour))})

	completed, err := repo.ListCompletedBetween(ctx, user.ID, start, end)
	if err != nil {
		t.Fatalf("ListCompletedBetween: %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "in range" {
		t.Errorf("completed in range = %v, want [in range]", titles(completed))
	}

	pending, err := repo.ListPendingDueBy(ctx, user.ID, end)
	if err != nil {
		t.Fatalf("ListPendingDueBy: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("pending due by end = %v, want 2 rows", titles(pending))
	}
}

func titles(todos []domain.Todo) []string {
	out := make([]string, len(todos))
	for i, todo := range todos {
		out[i] = todo.Title
	}
	return out
}
