package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/yuezh/todo-report-backend/internal/config"
	"github.com/yuezh/todo-report-backend/internal/database"
	"github.com/yuezh/todo-report-backend/internal/service"
)

// Server bundles the request handlers with their dependencies.
type Server struct {
	cfg config.Config

	authService     *service.AuthService
	todoService     *service.TodoService
	categoryService *service.CategoryService
	statsService    *service.StatsService
	reportService   *service.ReportService
	db              database.Service
}

// Services groups the injected business-logic dependencies.
type Services struct {
	Auth     *service.AuthService
	Todos    *service.TodoService
	Category *service.CategoryService
	Stats    *service.StatsService
	Reports  *service.ReportService
}

func NewServer(cfg config.Config, services Services, dbService database.Service) *http.Server {
	appServer := &Server{
		cfg:             cfg,
		authService:     services.Auth,
		todoService:     services.Todos,
		categoryService: services.Category,
		statsService:    services.Stats,
		reportService:   services.Reports,
		db:              dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
