package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yuezh/todo-report-backend/internal/domain"
)

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.sessions)
	ctx := context.Background()

	user, err := svc.Register(ctx, "user@example.com", "secret123", "小明")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}

	loggedIn, session, err := svc.Login(ctx, "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("logged in as %s, want %s", loggedIn.ID, user.ID)
	}
	if len(session.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(session.Token))
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl < 6*24*time.Hour || ttl > 8*24*time.Hour {
		t.Errorf("session TTL = %v, want about 7 days", ttl)
	}

	resolved, err := svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if resolved.ID != user.ID {
		t.Errorf("authenticated as %s, want %s", resolved.ID, user.ID)
	}
}

func TestAuthServiceLoginRejections(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.sessions)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "secret123", "小明"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown email and wrong password map to the same error.
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}

	if _, err := svc.Register(ctx, "user@example.com", "another1", "小红"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register error = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.Register(ctx, "not-an-email", "secret123", "小红"); !IsValidation(err) {
		t.Errorf("bad email error = %v, want validation error", err)
	}
	if _, err := svc.Register(ctx, "short@example.com", "12345", "小红"); !IsValidation(err) {
		t.Errorf("short password error = %v, want validation error", err)
	}
}

func TestAuthServiceExpiredSessionLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.sessions)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "secret123", "小明"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, session, err := svc.Login(ctx, "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Jump the clock past the expiry.
	svc.now = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }

	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expired session error = %v, want ErrSessionExpired", err)
	}
	if _, err := svc.Authenticate(ctx, "deadbeef"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("unknown token error = %v, want ErrSessionExpired", err)
	}
	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("empty token error = %v, want ErrSessionExpired", err)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, env.sessions)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "user@example.com", "secret123", "小明"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, session, err := svc.Login(ctx, "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("post-logout error = %v, want ErrSessionExpired", err)
	}

	// Logging out twice is harmless.
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Errorf("second Logout: %v", err)
	}

	var count int64
	if err := env.db.Model(&domain.Session{}).Count(&count).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("%d sessions remain after logout", count)
	}
}
