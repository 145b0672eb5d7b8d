package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/repository"
	"github.com/yuezh/todo-report-backend/internal/service"
)

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	query := r.URL.Query()

	filter := repository.TodoFilter{
		CategoryID: query.Get("categoryId"),
		Search:     query.Get("search"),
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
	}
	if raw := query.Get("completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}
	if priority := domain.Priority(query.Get("priority")); priority.Valid() {
		filter.Priority = priority
	}

	page, err := s.todoService.List(r.Context(), user.ID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todoService.Create(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	todo, err := s.todoService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := s.todoService.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	if err := s.todoService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "删除成功"})
}

func (s *Server) toggleTodoHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	todo, err := s.todoService.Toggle(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}
