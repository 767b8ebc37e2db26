// Package domain contains persistence models for companies.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is a client or supplier of the agency.
type Company struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	Name    string       `gorm:"not null" json:"name"`
	RCCM    string       `gorm:"column:rccm;uniqueIndex" json:"rccm"`
	NINEA   string       `gorm:"column:ninea" json:"ninea"`
	Address string       `gorm:"type:text" json:"address"`
	City    string       `json:"city"`
	Country string       `json:"country"`
	Phone   string       `json:"phone"`
	Email   string       `gorm:"uniqueIndex" json:"email"`
	Website string       `json:"website,omitempty"`
	Active  bool         `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
