package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).Create(method).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).Save(method).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.PaymentMethod, error) {
	var method domain.PaymentMethod
	err := db.WithContext(ctx).First(&method, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListPaymentMethodFilter, page pagination.Pagination) ([]*domain.PaymentMethod, error) {
	var methods []*domain.PaymentMethod
	stmt := db.WithContext(ctx).Model(&domain.PaymentMethod{})
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
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.PaymentMethod{}).
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
		Model(&domain.PaymentMethod{}).
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
