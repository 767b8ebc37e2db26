package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListUserFilter struct {
	Search string
	Role   string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	Save(ctx context.Context, db *gorm.DB, user *User) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	List(ctx context.Context, db *gorm.DB, filter ListUserFilter, page pagination.Pagination) ([]*User, error)
}
