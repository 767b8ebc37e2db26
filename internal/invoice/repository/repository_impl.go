package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Omit("LineItems").Save(invoice).Error
}

// ReplaceLineItems swaps the full line set. Invoices own their lines, so
// the old rows are removed rather than orphaned.
func (r *repo) ReplaceLineItems(ctx context.Context, db *gorm.DB, invoice *domain.Invoice, items []domain.InvoiceLineItem) error {
	err := db.WithContext(ctx).
		Where("invoice_id = ?", invoice.ID).
		Delete(&domain.InvoiceLineItem{}).Error
	if err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.WithContext(ctx).Create(&items).Error; err != nil {
			return err
		}
	}
	invoice.LineItems = items
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("LineItems").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListInvoiceFilter) *gorm.DB {
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("number LIKE ? OR notes LIKE ?", like, like)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CompanyID != 0 {
		stmt = stmt.Where("company_id = ?", filter.CompanyID)
	}
	if filter.ShipID != 0 {
		stmt = stmt.Where("ship_id = ?", filter.ShipID)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("issue_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("issue_date <= ?", *filter.DateTo)
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}
	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Invoice{}), filter)
	stmt = pagination.Apply(stmt, page)
	err := stmt.
		Preload("LineItems").
		Order("created_at desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll returns the unpaginated filtered set, used by exports.
func (r *repo) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListInvoiceFilter) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Invoice{}), filter)
	err := stmt.
		Preload("LineItems").
		Order("issue_date desc, id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) NumberExists(ctx context.Context, db *gorm.DB, number string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
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
		Model(&domain.Invoice{}).
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
