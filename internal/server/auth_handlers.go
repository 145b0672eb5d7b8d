package server

import (
	"net/http"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/service"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func publicUser(user *domain.User) map[string]any {
	return map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, session, err := s.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.setSessionCookie(w, session.Token, service.SessionTTL)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message": "登录成功",
		"user":    publicUser(user),
	})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]any{
		"message": "注册成功",
		"user":    publicUser(user),
	})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if err := s.authService.Logout(r.Context(), cookie.Value); err != nil {
			respondServiceError(w, err)
			return
		}
	}

	s.clearSessionCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "注销成功"})
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "未登录")
		return
	}

	user, err := s.authService.Authenticate(r.Context(), cookie.Value)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":        user.ID,
			"email":     user.Email,
			"name":      user.Name,
			"createdAt": user.CreatedAt,
		},
	})
}
