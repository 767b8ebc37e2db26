package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	companyrepo "github.com/lionnelpat/svs-backend-sub002/internal/company/repository"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	invoicerepo "github.com/lionnelpat/svs-backend-sub002/internal/invoice/repository"
	invoiceservice "github.com/lionnelpat/svs-backend-sub002/internal/invoice/service"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	operationrepo "github.com/lionnelpat/svs-backend-sub002/internal/operation/repository"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	shiprepo "github.com/lionnelpat/svs-backend-sub002/internal/ship/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	svc         domain.Service
	companyID   snowflake.ID
	shipID      snowflake.ID
	operationID snowflake.ID
}

func setup(t *testing.T) fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:invoice_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&companydomain.Company{},
		&shipdomain.Ship{},
		&operationdomain.Operation{},
		&domain.Invoice{},
		&domain.InvoiceLineItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	company := companydomain.Company{
		ID:     node.Generate(),
		Name:   "Compagnie Maritime du Sud",
		RCCM:   "SN-DKR-2020-B-1234",
		Email:  "contact@cms.sn",
		Active: true,
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

	price := decimal.RequireFromString("1000.00")
	operation := operationdomain.Operation{
		ID:           node.Generate(),
		Code:         "OPE-001",
		Name:         "Pilotage",
		UnitPriceXOF: price,
		Active:       true,
	}
	require.NoError(t, db.Create(&operation).Error)

	svc := invoiceservice.New(invoiceservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       invoicerepo.Provide(),
		Settings:   config.NewSettingsHolderFrom(config.DefaultInvoicingSettings()),
		Companies:  companyrepo.Provide(),
		Ships:      shiprepo.Provide(),
		Operations: operationrepo.Provide(),
	})

	return fixture{
		db:          db,
		svc:         svc,
		companyID:   company.ID,
		shipID:      ship.ID,
		operationID: operation.ID,
	}
}

func createDraft(t *testing.T, f fixture) domain.Invoice {
	t.Helper()

	invoice, err := f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		CompanyID: f.companyID.String(),
		ShipID:    f.shipID.String(),
		IssueDate: "2026-08-01",
		LineItems: []domain.LineItemInput{
			{OperationID: f.operationID.String(), Quantity: "2.5"},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateComputesTotalsExactly(t *testing.T) {
	f := setup(t)

	invoice := createDraft(t, f)
	assert.Equal(t, "FAC-001", invoice.Number)
	assert.Equal(t, domain.InvoiceStatusBrouillon, invoice.Status)

	// 2.5 x 1000.00 = 2500.00; VAT 18% = 450.00; total 2950.00
	assert.Equal(t, "2500.00", invoice.SubtotalXOF.StringFixed(2))
	assert.Equal(t, "450.00", invoice.VATXOF.StringFixed(2))
	assert.Equal(t, "2950.00", invoice.TotalXOF.StringFixed(2))

	require.NotNil(t, invoice.TotalEUR)
	expected := invoice.TotalXOF.DivRound(decimal.RequireFromString("655.957"), 2)
	assert.True(t, invoice.TotalEUR.Equal(expected))

	// Due date defaults to issue date plus the configured delay.
	assert.Equal(t, "2026-08-31", invoice.DueDate.Format("2006-01-02"))
}

func TestCreateRequiresLineItems(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		CompanyID: f.companyID.String(),
		ShipID:    f.shipID.String(),
		IssueDate: "2026-08-01",
	})
	assert.ErrorIs(t, err, domain.ErrNoLineItems)
}

func TestCreateRejectsUnknownReferences(t *testing.T) {
	f := setup(t)
	node, err := snowflake.NewNode(11)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), domain.CreateInvoiceRequest{
		CompanyID: node.Generate().String(),
		ShipID:    f.shipID.String(),
		IssueDate: "2026-08-01",
		LineItems: []domain.LineItemInput{
			{OperationID: f.operationID.String(), Quantity: "1"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestNumbersIncrement(t *testing.T) {
	f := setup(t)

	first := createDraft(t, f)
	second := createDraft(t, f)
	assert.Equal(t, "FAC-001", first.Number)
	assert.Equal(t, "FAC-002", second.Number)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice := createDraft(t, f)

	lines := []domain.LineItemInput{
		{OperationID: f.operationID.String(), Quantity: "3", UnitPriceXOF: "0.335"},
	}
	updated, err := f.svc.Update(ctx, domain.UpdateInvoiceRequest{
		ID:        invoice.ID.String(),
		LineItems: &lines,
	})
	require.NoError(t, err)

	// Rounds per line: 3 x 0.34 after price rounding = 1.02
	require.Len(t, updated.LineItems, 1)
	assert.Equal(t, "1.02", updated.SubtotalXOF.StringFixed(2))
	assert.True(t, updated.TotalXOF.Equal(updated.SubtotalXOF.Add(updated.VATXOF)))
}

func TestUpdateRejectedAfterIssue(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice := createDraft(t, f)
	_, err := f.svc.Issue(ctx, invoice.ID.String())
	require.NoError(t, err)

	notes := "modif"
	_, err = f.svc.Update(ctx, domain.UpdateInvoiceRequest{ID: invoice.ID.String(), Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestIssueAndCancelTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice := createDraft(t, f)

	issued, err := f.svc.Issue(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusEmise, issued.Status)

	// Issue is not re-entrant.
	_, err = f.svc.Issue(ctx, invoice.ID.String())
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.InvoiceStatusEmise, invalid.From)

	cancelled, err := f.svc.Cancel(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusAnnulee, cancelled.Status)

	// Terminal: nothing moves out of ANNULEE.
	_, err = f.svc.Issue(ctx, invoice.ID.String())
	assert.ErrorAs(t, err, &invalid)
}

func TestRecordPaymentPartialThenSettled(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice := createDraft(t, f)
	_, err := f.svc.Issue(ctx, invoice.ID.String())
	require.NoError(t, err)

	partial, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		ID:     invoice.ID.String(),
		Amount: "1000.00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartiellement, partial.Status)
	assert.Equal(t, "1000.00", partial.AmountPaid.StringFixed(2))
	assert.Nil(t, partial.PaidAt)

	settled, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		ID:     invoice.ID.String(),
		Amount: "1950.00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPayee, settled.Status)
	require.NotNil(t, settled.PaidAt)

	// Paid invoices accept no further payments.
	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		ID:     invoice.ID.String(),
		Amount: "1.00",
	})
	assert.ErrorIs(t, err, domain.ErrNotPayable)
}

func TestRecordPaymentOverpaymentClampsToPayee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice := createDraft(t, f)
	settled, err := f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		ID:     invoice.ID.String(),
		Amount: "5000.00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPayee, settled.Status)
	assert.Equal(t, "5000.00", settled.AmountPaid.StringFixed(2))
	require.NotNil(t, settled.PaidAt)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := setup(t)

	invoice := createDraft(t, f)
	_, err := f.svc.RecordPayment(context.Background(), domain.RecordPaymentRequest{
		ID:     invoice.ID.String(),
		Amount: "0",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestEffectiveStatusDerivesEnRetardWithoutMutating(t *testing.T) {
	f := setup(t)

	invoice := createDraft(t, f)
	_, err := f.svc.Issue(context.Background(), invoice.ID.String())
	require.NoError(t, err)

	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, invoice.ID).Error)

	past := stored.DueDate.AddDate(0, 0, 1)
	assert.Equal(t, domain.InvoiceStatusEnRetard, stored.EffectiveStatus(past))
	// Stored status is untouched.
	assert.Equal(t, domain.InvoiceStatusEmise, stored.Status)

	before := stored.DueDate.AddDate(0, 0, -1)
	assert.Equal(t, domain.InvoiceStatusEmise, stored.EffectiveStatus(before))
}

func TestReadPathReportsOverdueInvoicesAsEnRetard(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	overdue, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CompanyID: f.companyID.String(),
		ShipID:    f.shipID.String(),
		IssueDate: time.Now().AddDate(0, 0, -40).Format("2006-01-02"),
		DueDate:   time.Now().AddDate(0, 0, -10).Format("2006-01-02"),
		LineItems: []domain.LineItemInput{
			{OperationID: f.operationID.String(), Quantity: "1"},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, overdue.ID.String())
	require.NoError(t, err)

	current, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CompanyID: f.companyID.String(),
		ShipID:    f.shipID.String(),
		IssueDate: time.Now().Format("2006-01-02"),
		DueDate:   time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
		LineItems: []domain.LineItemInput{
			{OperationID: f.operationID.String(), Quantity: "1"},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, current.ID.String())
	require.NoError(t, err)

	// GetByID reports the derived status, and it survives serialization.
	fetched, err := f.svc.GetByID(ctx, overdue.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusEnRetard, fetched.Status)

	body, err := json.Marshal(fetched)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"EN_RETARD"`)

	// The stored column keeps the real state.
	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, overdue.ID).Error)
	assert.Equal(t, domain.InvoiceStatusEmise, stored.Status)

	// Invoices inside their payment window keep reporting EMISE.
	fresh, err := f.svc.GetByID(ctx, current.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusEmise, fresh.Status)

	// Listings derive per row.
	resp, err := f.svc.List(ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	statuses := map[string]domain.InvoiceStatus{}
	for _, inv := range resp.Invoices {
		statuses[inv.Number] = inv.Status
	}
	assert.Equal(t, domain.InvoiceStatusEnRetard, statuses[overdue.Number])
	assert.Equal(t, domain.InvoiceStatusEmise, statuses[current.Number])

	// Settling an overdue invoice clears the derived state.
	_, err = f.svc.RecordPayment(ctx, domain.RecordPaymentRequest{
		ID:     overdue.ID.String(),
		Amount: overdue.TotalXOF.StringFixed(2),
	})
	require.NoError(t, err)
	paid, err := f.svc.GetByID(ctx, overdue.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPayee, paid.Status)
}

func TestEnvoyeeAliasAcceptedOnListFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	invoice, err := f.svc.Create(ctx, domain.CreateInvoiceRequest{
		CompanyID: f.companyID.String(),
		ShipID:    f.shipID.String(),
		IssueDate: time.Now().Format("2006-01-02"),
		DueDate:   time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
		LineItems: []domain.LineItemInput{
			{OperationID: f.operationID.String(), Quantity: "1"},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.Issue(ctx, invoice.ID.String())
	require.NoError(t, err)

	resp, err := f.svc.List(ctx, domain.ListInvoiceRequest{Status: "ENVOYEE"})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, domain.InvoiceStatusEmise, resp.Invoices[0].Status)
}
