// Package domain contains the expense category model and contracts.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

// ExpenseCategory groups expenses for reporting, e.g. fuel or port fees.
type ExpenseCategory struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Code        string       `gorm:"not null;uniqueIndex" json:"code"`
	Label       string       `gorm:"not null" json:"label"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Active      bool         `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ExpenseCategory) TableName() string { return "expense_categories" }

type CreateExpenseCategoryRequest struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type UpdateExpenseCategoryRequest struct {
	ID          string  `json:"-"`
	Label       *string `json:"label"`
	Description *string `json:"description"`
}

type ListExpenseCategoryRequest struct {
	pagination.Pagination
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

type ListExpenseCategoryResponse struct {
	pagination.PageInfo
	Categories []ExpenseCategory `json:"categories"`
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseCategoryRequest) (ExpenseCategory, error)
	Update(ctx context.Context, req UpdateExpenseCategoryRequest) (ExpenseCategory, error)
	GetByID(ctx context.Context, id string) (ExpenseCategory, error)
	List(ctx context.Context, req ListExpenseCategoryRequest) (ListExpenseCategoryResponse, error)
	SetActive(ctx context.Context, id string, active bool) (ExpenseCategory, error)
}

type ListExpenseCategoryFilter struct {
	Search string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, category *ExpenseCategory) error
	Save(ctx context.Context, db *gorm.DB, category *ExpenseCategory) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ExpenseCategory, error)
	List(ctx context.Context, db *gorm.DB, filter ListExpenseCategoryFilter, page pagination.Pagination) ([]*ExpenseCategory, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	LastCode(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidLabel = errors.New("invalid_label")
	ErrNotFound     = errors.New("not_found")
	ErrDuplicate    = errors.New("duplicate_expense_category")
)
