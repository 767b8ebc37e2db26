// Package domain contains persistence models for the operations catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Operation is a billable maritime service, e.g. docking assistance or
// towing, with a catalog price per currency.
type Operation struct {
	ID           snowflake.ID     `gorm:"primaryKey" json:"id"`
	Code         string           `gorm:"not null;uniqueIndex" json:"code"`
	Name         string           `gorm:"not null" json:"name"`
	Description  string           `gorm:"type:text" json:"description,omitempty"`
	UnitPriceXOF decimal.Decimal  `gorm:"type:numeric(20,2);not null" json:"unit_price_xof"`
	UnitPriceEUR *decimal.Decimal `gorm:"type:numeric(20,2)" json:"unit_price_eur,omitempty"`
	Active       bool             `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Operation) TableName() string { return "operations" }
