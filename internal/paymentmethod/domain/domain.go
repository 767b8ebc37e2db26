// Package domain contains the payment method model and contracts.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"gorm.io/gorm"
)

// PaymentMethod is a way expenses and invoices get settled, e.g. bank
// transfer or cash.
type PaymentMethod struct {
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
func (PaymentMethod) TableName() string { return "payment_methods" }

type CreatePaymentMethodRequest struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type UpdatePaymentMethodRequest struct {
	ID          string  `json:"-"`
	Label       *string `json:"label"`
	Description *string `json:"description"`
}

type ListPaymentMethodRequest struct {
	pagination.Pagination
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

type ListPaymentMethodResponse struct {
	pagination.PageInfo
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type Service interface {
	Create(ctx context.Context, req CreatePaymentMethodRequest) (PaymentMethod, error)
	Update(ctx context.Context, req UpdatePaymentMethodRequest) (PaymentMethod, error)
	GetByID(ctx context.Context, id string) (PaymentMethod, error)
	List(ctx context.Context, req ListPaymentMethodRequest) (ListPaymentMethodResponse, error)
	SetActive(ctx context.Context, id string, active bool) (PaymentMethod, error)
}

type ListPaymentMethodFilter struct {
	Search string
	Active *bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	Save(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PaymentMethod, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentMethodFilter, page pagination.Pagination) ([]*PaymentMethod, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	LastCode(ctx context.Context, db *gorm.DB, prefix string) (string, bool, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidLabel = errors.New("invalid_label")
	ErrNotFound     = errors.New("not_found")
	ErrDuplicate    = errors.New("duplicate_payment_method")
)
