package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, category *domain.ExpenseCategory) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, category *domain.ExpenseCategory) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ExpenseCategory, error) {
	var category domain.ExpenseCategory
	err := db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListExpenseCategoryFilter, page pagination.Pagination) ([]*domain.ExpenseCategory, error) {
	var categories []*domain.ExpenseCategory
	stmt := db.WithContext(ctx).Model(&domain.ExpenseCategory{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("label LIKE ? OR code LIKE ?", like, like)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.ExpenseCategory{}).
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
		Model(&domain.ExpenseCategory{}).
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
