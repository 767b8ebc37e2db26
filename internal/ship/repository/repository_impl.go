package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ship *domain.Ship) error {
	return db.WithContext(ctx).Create(ship).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, ship *domain.Ship) error {
	return db.WithContext(ctx).Save(ship).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Ship, error) {
	var ship domain.Ship
	err := db.WithContext(ctx).First(&ship, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &ship, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListShipFilter, page pagination.Pagination) ([]*domain.Ship, error) {
	var ships []*domain.Ship
	stmt := db.WithContext(ctx).Model(&domain.Ship{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR imo_number LIKE ?", like, like)
	}
	if filter.CompanyID != 0 {
		stmt = stmt.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&ships).Error
	if err != nil {
		return nil, err
	}
	return ships, nil
}
