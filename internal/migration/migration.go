package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	authdomain "github.com/lionnelpat/svs-backend-sub002/internal/auth/domain"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	paymentmethoddomain "github.com/lionnelpat/svs-backend-sub002/internal/paymentmethod/domain"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	userdomain "github.com/lionnelpat/svs-backend-sub002/internal/user/domain"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// RunMigrations applies the embedded SQL migrations so the service is
// usable out of the box against PostgreSQL.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema through gorm, used for sqlite development
// databases where the SQL migrations do not apply.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&companydomain.Company{},
		&shipdomain.Ship{},
		&operationdomain.Operation{},
		&paymentmethoddomain.PaymentMethod{},
		&categorydomain.ExpenseCategory{},
		&expensedomain.Expense{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLineItem{},
		&userdomain.User{},
		&authdomain.Session{},
	)
}
