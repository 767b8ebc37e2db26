package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the stored lifecycle state of an invoice.
// EN_RETARD is never stored; it is derived at read time from the due date.
type InvoiceStatus string

const (
	InvoiceStatusBrouillon     InvoiceStatus = "BROUILLON"
	InvoiceStatusEmise         InvoiceStatus = "EMISE"
	InvoiceStatusPartiellement InvoiceStatus = "PARTIELLEMENT_PAYEE"
	InvoiceStatusPayee         InvoiceStatus = "PAYEE"
	InvoiceStatusAnnulee       InvoiceStatus = "ANNULEE"

	// InvoiceStatusEnRetard is derived, read-only.
	InvoiceStatusEnRetard InvoiceStatus = "EN_RETARD"

	// statusEnvoyee is accepted on input as an alias of EMISE.
	statusEnvoyee InvoiceStatus = "ENVOYEE"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusBrouillon:     {InvoiceStatusEmise, InvoiceStatusAnnulee},
	InvoiceStatusEmise:         {InvoiceStatusPartiellement, InvoiceStatusPayee, InvoiceStatusAnnulee},
	InvoiceStatusPartiellement: {InvoiceStatusPayee, InvoiceStatusAnnulee},
	InvoiceStatusPayee:         {},
	InvoiceStatusAnnulee:       {},
}

// NormalizeStatus maps input aliases onto stored statuses.
func NormalizeStatus(s InvoiceStatus) InvoiceStatus {
	if s == statusEnvoyee {
		return InvoiceStatusEmise
	}
	return s
}

func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceTransitions[NormalizeStatus(s)]
	return ok
}

func (s InvoiceStatus) IsTerminal() bool {
	targets, ok := invoiceTransitions[s]
	return ok && len(targets) == 0
}

func CanTransition(from, to InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[from] {
		if allowed == NormalizeStatus(to) {
			return true
		}
	}
	return false
}

type Invoice struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	Number    string        `gorm:"not null;uniqueIndex" json:"number"`
	CompanyID snowflake.ID  `gorm:"not null;index" json:"company_id"`
	ShipID    snowflake.ID  `gorm:"not null;index" json:"ship_id"`
	IssueDate time.Time     `gorm:"not null" json:"issue_date"`
	DueDate   time.Time     `gorm:"not null" json:"due_date"`
	Status    InvoiceStatus `gorm:"type:text;not null;default:'BROUILLON'" json:"status"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"line_items"`

	SubtotalXOF decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"subtotal_xof"`
	VATRate     decimal.Decimal  `gorm:"type:numeric(8,4);not null" json:"vat_rate"`
	VATXOF      decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"vat_xof"`
	TotalXOF    decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"total_xof"`
	TotalEUR    *decimal.Decimal `gorm:"type:numeric(20,2)" json:"total_eur,omitempty"`

	AmountPaid decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"amount_paid"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`

	Notes  string `gorm:"type:text" json:"notes,omitempty"`
	Active bool   `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// EffectiveStatus derives EN_RETARD without touching the stored status.
func (i Invoice) EffectiveStatus(now time.Time) InvoiceStatus {
	if i.Status == InvoiceStatusPayee || i.Status == InvoiceStatusAnnulee {
		return i.Status
	}
	if now.After(i.DueDate) {
		return InvoiceStatusEnRetard
	}
	return i.Status
}

type InvoiceLineItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	OperationID snowflake.ID `gorm:"not null;index" json:"operation_id"`
	Description string       `gorm:"type:text" json:"description,omitempty"`

	Quantity     decimal.Decimal  `gorm:"type:numeric(20,4);not null" json:"quantity"`
	UnitPriceXOF decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"unit_price_xof"`
	UnitPriceEUR *decimal.Decimal `gorm:"type:numeric(20,2)" json:"unit_price_eur,omitempty"`
	AmountXOF    decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"amount_xof"`
	AmountEUR    *decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount_eur,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "invoice_line_items" }
