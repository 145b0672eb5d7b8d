package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/yuezh/todo-report-backend/internal/domain"
	"github.com/yuezh/todo-report-backend/internal/service"
)

// sessionCookieName is the httpOnly cookie carrying the opaque session token.
const sessionCookieName = "auth-token"

type contextKey string

const userContextKey contextKey = "user"

// requireUser is the session gate: it resolves the cookie to a user or
// answers 401. A missing, unknown and expired token all look the same.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "未授权访问")
			return
		}
		user, err := s.authService.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				respondWithError(w, http.StatusUnauthorized, "未授权访问")
				return
			}
			log.Printf("Error authenticating request: %v", err)
			respondWithError(w, http.StatusInternalServerError, "服务器内部错误")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromRequest(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}
