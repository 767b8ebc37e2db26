package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Save(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCompanyFilter, page pagination.Pagination) ([]*domain.Company, error) {
	var companies []*domain.Company
	stmt := db.WithContext(ctx).Model(&domain.Company{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR rccm LIKE ? OR email LIKE ?", like, like, like)
	}
	if filter.Country != "" {
		stmt = stmt.Where("country = ?", filter.Country)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}
