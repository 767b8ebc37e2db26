package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
)

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginResult carries the raw token exactly once; it is never stored.
type LoginResult struct {
	User      userdomain.User
	SessionID snowflake.ID
	RawToken  string
	ExpiresAt time.Time
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw token to the owning user, refusing
	// expired and revoked sessions.
	Authenticate(ctx context.Context, rawToken string) (userdomain.User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
)
