// Package domain contains the expense model and its status machine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ExpenseStatus represents expense lifecycle states.
type ExpenseStatus string

const (
	ExpenseStatusBrouillon ExpenseStatus = "BROUILLON"
	ExpenseStatusEnAttente ExpenseStatus = "EN_ATTENTE"
	ExpenseStatusValidee   ExpenseStatus = "VALIDEE"
	ExpenseStatusPayee     ExpenseStatus = "PAYEE"
	ExpenseStatusRejetee   ExpenseStatus = "REJETEE"
	ExpenseStatusAnnulee   ExpenseStatus = "ANNULEE"
)

// expenseTransitions is the single source of truth for legal moves.
var expenseTransitions = map[ExpenseStatus][]ExpenseStatus{
	ExpenseStatusBrouillon: {ExpenseStatusEnAttente, ExpenseStatusAnnulee},
	ExpenseStatusEnAttente: {ExpenseStatusValidee, ExpenseStatusRejetee, ExpenseStatusAnnulee},
	ExpenseStatusValidee:   {ExpenseStatusPayee, ExpenseStatusAnnulee},
	ExpenseStatusPayee:     {},
	ExpenseStatusRejetee:   {},
	ExpenseStatusAnnulee:   {},
}

// CanTransition reports whether from allows moving to target.
func CanTransition(from, target ExpenseStatus) bool {
	for _, allowed := range expenseTransitions[from] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether status has no outgoing transitions.
func (s ExpenseStatus) IsTerminal() bool {
	return len(expenseTransitions[s]) == 0
}

// Valid reports whether s is a known status value.
func (s ExpenseStatus) Valid() bool {
	_, ok := expenseTransitions[s]
	return ok
}

// Expense is money spent by the agency, moving through an approval
// workflow before payment.
type Expense struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	Number          string           `gorm:"not null;uniqueIndex" json:"number"`
	Title           string           `gorm:"not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description,omitempty"`
	CategoryID      snowflake.ID     `gorm:"not null;index" json:"category_id"`
	SupplierID      *snowflake.ID    `gorm:"index" json:"supplier_id,omitempty"`
	PaymentMethodID snowflake.ID     `gorm:"not null;index" json:"payment_method_id"`
	Date            time.Time        `gorm:"not null" json:"date"`
	AmountXOF       decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"amount_xof"`
	AmountEUR       *decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount_eur,omitempty"`
	Status          ExpenseStatus    `gorm:"type:text;not null;default:'BROUILLON'" json:"status"`
	StatusComment   string           `gorm:"type:text" json:"status_comment,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`
	Active          bool             `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }
