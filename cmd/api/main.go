package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/yuezh/todo-report-backend/internal/config"
	"github.com/yuezh/todo-report-backend/internal/database"
	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
	"github.com/yuezh/todo-report-backend/internal/server"
	"github.com/yuezh/todo-report-backend/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// Give in-flight requests 5 seconds to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection pool...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		}
	}

	log.Println("Server exiting")
	done <- true
}

func main() {
	cfg := config.Load()

	dbService, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	gormDB := dbService.GetDB()

	if err := database.Migrate(gormDB,
		&domain.User{},
		&domain.Session{},
		&domain.Category{},
		&domain.Todo{},
		&domain.Report{},
	); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	sessionRepo := repository.NewSessionRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	todoRepo := repository.NewTodoRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)

	services := server.Services{
		Auth:     service.NewAuthService(userRepo, sessionRepo),
		Todos:    service.NewTodoService(todoRepo, categoryRepo),
		Category: service.NewCategoryService(categoryRepo),
		Stats:    service.NewStatsService(todoRepo, categoryRepo),
		Reports:  service.NewReportService(reportRepo, todoRepo),
	}

	apiServer := server.NewServer(cfg, services, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Printf("Starting server on %s", apiServer.Addr)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
