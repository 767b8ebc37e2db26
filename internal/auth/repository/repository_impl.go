package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.SessionRepository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *repo) FindByTokenHash(ctx context.Context, db *gorm.DB, hash string) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).First(&session, "session_token_hash = ?", hash).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) Revoke(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}

func (r *repo) UpdateLastSeen(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("last_seen_at", at).Error
}

func (r *repo) DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
