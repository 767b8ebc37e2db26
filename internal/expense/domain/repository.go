package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListExpenseFilter struct {
	Search     string
	Status     ExpenseStatus
	CategoryID snowflake.ID
	SupplierID snowflake.ID
	DateFrom   *time.Time
	DateTo     *time.Time
	Active     *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, expense *Expense) error
	Save(ctx context.Context, db *gorm.DB, expense *Expense) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Expense, error)
	List(ctx context.Context, db *gorm.DB, filter ListExpenseFilter, page pagination.Pagination) ([]*Expense, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListExpenseFilter) ([]Expense, error)
	NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error)
	LastNumber(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error)
}
