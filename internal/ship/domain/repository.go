package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListShipFilter struct {
	Search    string
	CompanyID snowflake.ID
	Active    *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ship *Ship) error
	Save(ctx context.Context, db *gorm.DB, ship *Ship) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Ship, error)
	List(ctx context.Context, db *gorm.DB, filter ListShipFilter, page pagination.Pagination) ([]*Ship, error)
}
