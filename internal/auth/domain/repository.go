package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Insert(ctx context.Context, db *gorm.DB, session *Session) error
	FindByTokenHash(ctx context.Context, db *gorm.DB, hash string) (*Session, error)
	Revoke(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	UpdateLastSeen(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
	DeleteExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error)
}
