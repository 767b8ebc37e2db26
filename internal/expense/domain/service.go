package domain

import (
	"context"
	"fmt"

	"errors"

	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
)

type CreateExpenseRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	CategoryID      string `json:"category_id"`
	SupplierID      string `json:"supplier_id"`
	PaymentMethodID string `json:"payment_method_id"`
	Date            string `json:"date"`
	AmountXOF       string `json:"amount_xof"`
	AmountEUR       string `json:"amount_eur"`
}

type UpdateExpenseRequest struct {
	ID              string  `json:"-"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	CategoryID      *string `json:"category_id"`
	SupplierID      *string `json:"supplier_id"`
	PaymentMethodID *string `json:"payment_method_id"`
	Date            *string `json:"date"`
	AmountXOF       *string `json:"amount_xof"`
	AmountEUR       *string `json:"amount_eur"`
}

// TransitionExpenseRequest asks for a status change. Comment is required
// when the target status is REJETEE.
type TransitionExpenseRequest struct {
	ID      string        `json:"-"`
	Target  ExpenseStatus `json:"target"`
	Comment string        `json:"comment"`
}

type ListExpenseRequest struct {
	pagination.Pagination
	Search     string `form:"search"`
	Status     string `form:"status"`
	CategoryID string `form:"category_id"`
	SupplierID string `form:"supplier_id"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Active     *bool  `form:"active"`
}

type ListExpenseResponse struct {
	pagination.PageInfo
	Expenses []Expense `json:"expenses"`
}

type Service interface {
	Create(ctx context.Context, req CreateExpenseRequest) (Expense, error)
	Update(ctx context.Context, req UpdateExpenseRequest) (Expense, error)
	GetByID(ctx context.Context, id string) (Expense, error)
	List(ctx context.Context, req ListExpenseRequest) (ListExpenseResponse, error)
	Transition(ctx context.Context, req TransitionExpenseRequest) (Expense, error)
	SetActive(ctx context.Context, id string, active bool) (Expense, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrInvalidTitle         = errors.New("invalid_title")
	ErrInvalidCategory      = errors.New("invalid_category")
	ErrInvalidSupplier      = errors.New("invalid_supplier")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrCommentRequired      = errors.New("comment_required")
	ErrNotEditable          = errors.New("expense_not_editable")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicate            = errors.New("duplicate_expense")
)

// InvalidTransitionError names the rejected move.
type InvalidTransitionError struct {
	From ExpenseStatus
	To   ExpenseStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid_transition: %s -> %s", e.From, e.To)
}
