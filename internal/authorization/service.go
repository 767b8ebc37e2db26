package authorization

import (
	"context"
	"errors"

	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
)

// Objects are the protected resource kinds.
const (
	ObjectCompany         = "company"
	ObjectShip            = "ship"
	ObjectOperation       = "operation"
	ObjectPaymentMethod   = "payment_method"
	ObjectExpenseCategory = "expense_category"
	ObjectExpense         = "expense"
	ObjectInvoice         = "invoice"
	ObjectUser            = "user"
	ObjectExport          = "export"
)

// Actions follow the object.verb convention. Transition verbs are
// distinct from plain updates so they can be granted separately.
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionExpenseSubmit  = "expense.submit"
	ActionExpenseApprove = "expense.approve"
	ActionExpenseReject  = "expense.reject"
	ActionExpensePay     = "expense.pay"
	ActionExpenseCancel  = "expense.cancel"

	ActionInvoiceIssue         = "invoice.issue"
	ActionInvoiceCancel        = "invoice.cancel"
	ActionInvoiceRecordPayment = "invoice.record_payment"

	ActionExportInvoices   = "export.invoices"
	ActionExportExpenses   = "export.expenses"
	ActionExportInvoicePDF = "export.invoice_pdf"
)

var (
	ErrInvalidActor  = errors.New("invalid_actor")
	ErrInvalidObject = errors.New("invalid_object")
	ErrInvalidAction = errors.New("invalid_action")
	ErrForbidden     = errors.New("forbidden")
)

// Service answers whether an actor may perform an action on an object.
type Service interface {
	Authorize(ctx context.Context, actor actorctx.Actor, object string, action string) error
}
