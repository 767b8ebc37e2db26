package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@svs.sn"
	defaultAdminPassword = "changez-moi"
	defaultAdminName     = "Administrateur SVS"
)

// EnsureAdminUser guarantees at least one ADMIN account exists so a fresh
// deployment can be logged into.
func EnsureAdminUser(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	email := strings.ToLower(strings.TrimSpace(cfg.BootstrapAdminEmail))
	if email == "" {
		email = defaultAdminEmail
	}
	password := cfg.BootstrapAdminPassword
	if password == "" {
		password = defaultAdminPassword
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing userdomain.User
		err := tx.Where("email = ?", email).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		admin := userdomain.User{
			ID:           node.Generate(),
			Email:        email,
			FullName:     defaultAdminName,
			PasswordHash: string(hash),
			Roles:        datatypes.NewJSONSlice([]string{userdomain.RoleAdmin}),
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&admin).Error
	})
}
