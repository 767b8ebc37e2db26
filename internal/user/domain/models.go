package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Role names are the authorization subjects fed to the policy engine.
const (
	RoleAdmin     = "ADMIN"
	RoleFinance   = "FINANCE"
	RoleOperateur = "OPERATEUR"
	RoleViewer    = "VIEWER"
)

// KnownRoles lists every assignable role.
var KnownRoles = []string{RoleAdmin, RoleFinance, RoleOperateur, RoleViewer}

func ValidRole(role string) bool {
	for _, known := range KnownRoles {
		if role == known {
			return true
		}
	}
	return false
}

type User struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	Email        string                      `gorm:"not null;uniqueIndex" json:"email"`
	FullName     string                      `gorm:"not null" json:"full_name"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Roles        datatypes.JSONSlice[string] `gorm:"not null" json:"roles"`
	Active       bool                        `gorm:"not null;default:true" json:"active"`

	CreatedBy snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	UpdatedBy snowflake.ID `json:"updated_by,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
