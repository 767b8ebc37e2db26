package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListInvoiceFilter struct {
	Search    string
	Status    InvoiceStatus
	CompanyID snowflake.ID
	ShipID    snowflake.ID
	DateFrom  *time.Time
	DateTo    *time.Time
	Active    *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	ReplaceLineItems(ctx context.Context, db *gorm.DB, invoice *Invoice, items []InvoiceLineItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter, page pagination.Pagination) ([]*Invoice, error)
	FindAll(ctx context.Context, db *gorm.DB, filter ListInvoiceFilter) ([]Invoice, error)
	NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error)
	LastNumber(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error)
}
