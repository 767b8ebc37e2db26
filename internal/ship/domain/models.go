// Package domain contains persistence models for ships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Ship is a vessel operations are billed against.
type Ship struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	IMONumber string       `gorm:"column:imo_number;uniqueIndex" json:"imo_number"`
	Flag      string       `json:"flag"`
	Type      string       `json:"type"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Active    bool         `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Ship) TableName() string { return "ships" }
