package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListOperationFilter struct {
	Search string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, operation *Operation) error
	Save(ctx context.Context, db *gorm.DB, operation *Operation) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Operation, error)
	List(ctx context.Context, db *gorm.DB, filter ListOperationFilter, page pagination.Pagination) ([]*Operation, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	LastCode(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error)
}
