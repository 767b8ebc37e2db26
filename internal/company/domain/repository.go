package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListCompanyFilter struct {
	Search  string
	Country string
	Active  *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, company *Company) error
	Save(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	List(ctx context.Context, db *gorm.DB, filter ListCompanyFilter, page pagination.Pagination) ([]*Company, error)
}
