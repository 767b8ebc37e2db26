package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Create(expense).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, expense *domain.Expense) error {
	return db.WithContext(ctx).Save(expense).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Expense, error) {
	var expense domain.Expense
	err := db.WithContext(ctx).First(&expense, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &expense, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListExpenseFilter) *gorm.DB {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("number LIKE ? OR title LIKE ?", like, like)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != 0 {
		stmt = stmt.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != 0 {
		stmt = stmt.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("date <= ?", *filter.DateTo)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListExpenseFilter, page pagination.Pagination) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Expense{}), filter)
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

// FindAll returns the unpaginated filtered set, used by exports.
func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListExpenseFilter) ([]domain.Expense, error) {
	var expenses []domain.Expense
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Expense{}), filter)
	err := stmt.
		Order("date desc, id desc").
		Find(&expenses).Error
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *repo) NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("number = ?", number).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) LastNumber(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error) {
	var numbers []string
	err := db.WithContext(ctx).
		Model(&domain.Expense{}).
		Where("number LIKE ?", prefix+"-%").
		Order("length(number) desc, number desc").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return "", false, err
	}
	if len(numbers) == 0 {
		return "", false, nil
	}
	return numbers[0], true, nil
}
