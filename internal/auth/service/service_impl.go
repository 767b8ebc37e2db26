package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sessionTokenBytes = 32

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Cfg      config.Config
	Sessions domain.SessionRepository
	Users    userdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	ttl      time.Duration
	sessions domain.SessionRepository
	users    userdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		ttl:      time.Duration(p.Cfg.SessionTTLHours) * time.Hour,
		sessions: p.Sessions,
		users:    p.Users,
	}
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	user, err := s.users.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userdomain.ErrBadCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := domain.Session{
		ID:               s.genID.Generate(),
		UserID:           user.ID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(req.UserAgent),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		ExpiresAt:        now.Add(s.ttl),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessions.Insert(ctx, s.db, &session); err != nil {
		return nil, err
	}

	s.log.Info("auth.login",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()),
	)
	return &domain.LoginResult{
		User:      user,
		SessionID: session.ID,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessions.FindByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrInvalidSession
	}
	return s.sessions.Revoke(ctx, s.db, session.ID, time.Now().UTC())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (userdomain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return userdomain.User{}, domain.ErrInvalidSession
	}

	session, err := s.sessions.FindByTokenHash(ctx, s.db, hashToken(token))
	if err != nil {
		return userdomain.User{}, err
	}
	if session == nil {
		return userdomain.User{}, domain.ErrInvalidSession
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return userdomain.User{}, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return userdomain.User{}, domain.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID.String())
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return userdomain.User{}, domain.ErrInvalidSession
		}
		return userdomain.User{}, err
	}
	if !user.Active {
		return userdomain.User{}, domain.ErrInvalidSession
	}

	if err := s.sessions.UpdateLastSeen(ctx, s.db, session.ID, now); err != nil {
		return userdomain.User{}, err
	}
	return user, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
