package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yuezh/todo-report-backend/internal/service"
)

func (s *Server) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	categories, err := s.categoryService.List(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.Create(r.Context(), user.ID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, category)
}

func (s *Server) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	category, err := s.categoryService.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	var req service.UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := s.categoryService.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, category)
}

func (s *Server) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)

	if err := s.categoryService.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "删除成功"})
}
