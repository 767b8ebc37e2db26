package export_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	companyrepo "github.com/lionnelpat/svs-backend-sub002/internal/company/repository"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	expenserepo "github.com/lionnelpat/svs-backend-sub002/internal/expense/repository"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	categoryrepo "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/export"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	invoicerepo "github.com/lionnelpat/svs-backend-sub002/internal/invoice/repository"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	shiprepo "github.com/lionnelpat/svs-backend-sub002/internal/ship/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       export.Service
	invoiceID snowflake.ID
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:export_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&companydomain.Company{},
		&shipdomain.Ship{},
		&categorydomain.ExpenseCategory{},
		&expensedomain.Expense{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLineItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(15)
	require.NoError(t, err)
	now := time.Now().UTC()

	company := companydomain.Company{
		ID:      node.Generate(),
		Name:    "Compagnie Maritime du Sud",
		RCCM:    "SN-DKR-2020-B-1234",
		Email:   "contact@cms.sn",
		Address: "Môle 10, Port de Dakar",
		Active:  true,
	}
	require.NoError(t, db.Create(&company).Error)

	ship := shipdomain.Ship{
		ID:        node.Generate(),
		Name:      "MV Teranga",
		IMONumber: "9074729",
		CompanyID: company.ID,
		Active:    true,
	}
	require.NoError(t, db.Create(&ship).Error)

	category := categorydomain.ExpenseCategory{
		ID:     node.Generate(),
		Code:   "CAT-001",
		Label:  "Carburant",
		Active: true,
	}
	require.NoError(t, db.Create(&category).Error)

	invoice := invoicedomain.Invoice{
		ID:          node.Generate(),
		Number:      "FAC-001",
		CompanyID:   company.ID,
		ShipID:      ship.ID,
		IssueDate:   now,
		DueDate:     now.AddDate(0, 0, 30),
		Status:      invoicedomain.InvoiceStatusEmise,
		SubtotalXOF: decimal.RequireFromString("2500.00"),
		VATRate:     decimal.RequireFromString("0.18"),
		VATXOF:      decimal.RequireFromString("450.00"),
		TotalXOF:    decimal.RequireFromString("2950.00"),
		AmountPaid:  decimal.Zero,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(&invoice).Error)

	item := invoicedomain.InvoiceLineItem{
		ID:           node.Generate(),
		InvoiceID:    invoice.ID,
		OperationID:  node.Generate(),
		Description:  "Pilotage",
		Quantity:     decimal.RequireFromString("2.5"),
		UnitPriceXOF: decimal.RequireFromString("1000.00"),
		AmountXOF:    decimal.RequireFromString("2500.00"),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&item).Error)

	expense := expensedomain.Expense{
		ID:              node.Generate(),
		Number:          "DEP-001",
		Title:           "Carburant vedette",
		CategoryID:      category.ID,
		PaymentMethodID: node.Generate(),
		Date:            now,
		AmountXOF:       decimal.RequireFromString("125000.00"),
		Status:          expensedomain.ExpenseStatusValidee,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, db.Create(&expense).Error)

	svc := export.New(export.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Invoices:   invoicerepo.Provide(),
		Expenses:   expenserepo.Provide(),
		Companies:  companyrepo.Provide(),
		Ships:      shiprepo.Provide(),
		Categories: categoryrepo.Provide(),
	})
	return fixture{svc: svc, invoiceID: invoice.ID}
}

func TestInvoicePDF(t *testing.T) {
	f := setup(t)

	doc, err := f.svc.InvoicePDF(context.Background(), f.invoiceID.String())
	require.NoError(t, err)

	assert.Equal(t, "FAC-001.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestInvoicePDFUnknownInvoice(t *testing.T) {
	f := setup(t)

	node, err := snowflake.NewNode(16)
	require.NoError(t, err)

	_, err = f.svc.InvoicePDF(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestInvoicesExcel(t *testing.T) {
	f := setup(t)

	doc, err := f.svc.InvoicesExcel(context.Background(), invoicedomain.ListInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", doc.ContentType)

	xl, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer xl.Close()

	number, err := xl.GetCellValue("Factures", "A2")
	require.NoError(t, err)
	assert.Equal(t, "FAC-001", number)

	client, err := xl.GetCellValue("Factures", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Compagnie Maritime du Sud", client)
}

func TestExpensesExcelFilteredByStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	doc, err := f.svc.ExpensesExcel(ctx, expensedomain.ListExpenseRequest{Status: "VALIDEE"})
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer xl.Close()

	number, err := xl.GetCellValue("Dépenses", "A2")
	require.NoError(t, err)
	assert.Equal(t, "DEP-001", number)

	category, err := xl.GetCellValue("Dépenses", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Carburant", category)

	// No BROUILLON rows exist.
	empty, err := f.svc.ExpensesExcel(ctx, expensedomain.ListExpenseRequest{Status: "BROUILLON"})
	require.NoError(t, err)
	xl2, err := excelize.OpenReader(bytes.NewReader(empty.Data))
	require.NoError(t, err)
	defer xl2.Close()
	cell, err := xl2.GetCellValue("Dépenses", "A2")
	require.NoError(t, err)
	assert.Empty(t, cell)
}
