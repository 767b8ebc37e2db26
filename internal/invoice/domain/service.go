package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type LineItemInput struct {
	OperationID  string `json:"operation_id"`
	Description  string `json:"description"`
	Quantity     string `json:"quantity"`
	UnitPriceXOF string `json:"unit_price_xof"`
	UnitPriceEUR string `json:"unit_price_eur"`
}

type CreateInvoiceRequest struct {
	CompanyID string          `json:"company_id"`
	ShipID    string          `json:"ship_id"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date"`
	Notes     string          `json:"notes"`
	LineItems []LineItemInput `json:"line_items"`
}

// UpdateInvoiceRequest replaces the invoice head fields and, when
// LineItems is non-nil, the full set of line items. Only drafts are
// editable.
type UpdateInvoiceRequest struct {
	ID        string           `json:"-"`
	CompanyID *string          `json:"company_id"`
	ShipID    *string          `json:"ship_id"`
	IssueDate *string          `json:"issue_date"`
	DueDate   *string          `json:"due_date"`
	Notes     *string          `json:"notes"`
	LineItems *[]LineItemInput `json:"line_items"`
}

type RecordPaymentRequest struct {
	ID     string `json:"-"`
	Amount string `json:"amount"`
}

type ListInvoiceRequest struct {
	pagination.Pagination
	Search    string `form:"search"`
	Status    string `form:"status"`
	CompanyID string `form:"company_id"`
	ShipID    string `form:"ship_id"`
	DateFrom  string `form:"date_from"`
	DateTo    string `form:"date_to"`
	Active    *bool  `form:"active"`
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Update(ctx context.Context, req UpdateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
	Issue(ctx context.Context, id string) (Invoice, error)
	Cancel(ctx context.Context, id string) (Invoice, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (Invoice, error)
	SetActive(ctx context.Context, id string, active bool) (Invoice, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidShip      = errors.New("invalid_ship")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrNoLineItems      = errors.New("line_items_required")
	ErrNotEditable      = errors.New("invoice_not_editable")
	ErrNotPayable       = errors.New("invoice_not_payable")
	ErrNotFound         = errors.New("not_found")
	ErrDuplicate        = errors.New("duplicate_invoice")
)

// InvalidTransitionError names the rejected move.
type InvalidTransitionError struct {
	From InvoiceStatus
	To   InvoiceStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid_transition: %s -> %s", e.From, e.To)
}
