package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, operation *domain.Operation) error {
	return db.WithContext(ctx).Create(operation).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, operation *domain.Operation) error {
	return db.WithContext(ctx).Save(operation).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Operation, error) {
	var operation domain.Operation
	err := db.WithContext(ctx).First(&operation, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &operation, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListOperationFilter, page pagination.Pagination) ([]*domain.Operation, error) {
	var operations []*domain.Operation
	stmt := db.WithContext(ctx).Model(&domain.Operation{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("name LIKE ? OR code LIKE ?", like, like)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&operations).Error
	if err != nil {
		return nil, err
	}
	return operations, nil
}

func (r *repo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Operation{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) LastCode(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error) {
	var codes []string
	err := db.WithContext(ctx).
		Model(&domain.Operation{}).
		Where("code LIKE ?", prefix+"-%").
		Order("length(code) desc, code desc").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil {
		return "", false, err
	}
	if len(codes) == 0 {
		return "", false, nil
	}
	return codes[0], true, nil
}
