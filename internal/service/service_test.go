package service

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
)

type testEnv struct {
	db         *gorm.DB
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	categories *repository.CategoryRepository
	todos      *repository.TodoRepository
	reports    *repository.ReportRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Session{},
		&domain.Category{},
		&domain.Todo{},
		&domain.Report{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return &testEnv{
		db:         db,
		users:      repository.NewUserRepository(db),
		sessions:   repository.NewSessionRepository(db),
		categories: repository.NewCategoryRepository(db),
		todos:      repository.NewTodoRepository(db),
		reports:    repository.NewReportRepository(db),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, Password: "x", Name: "tester"}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedCategory(t *testing.T, userID, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{Name: name, UserID: userID}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

func (e *testEnv) seedTodo(t *testing.T, todo *domain.Todo) *domain.Todo {
	t.Helper()
	if err := e.db.Create(todo).Error; err != nil {
		t.Fatalf("seed todo: %v", err)
	}
	return todo
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
