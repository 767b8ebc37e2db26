package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	expenserepo "github.com/lionnelpat/svs-backend-sub002/internal/expense/repository"
	expenseservice "github.com/lionnelpat/svs-backend-sub002/internal/expense/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:expense_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Expense{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newService(t *testing.T) domain.Service {
	t.Helper()

	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return expenseservice.New(expenseservice.Params{
		DB:       setupTestDB(t),
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     expenserepo.Provide(),
		Settings: config.NewSettingsHolderFrom(config.DefaultInvoicingSettings()),
	})
}

func createDraft(t *testing.T, svc domain.Service) domain.Expense {
	t.Helper()

	node, err := snowflake.NewNode(8)
	require.NoError(t, err)

	expense, err := svc.Create(context.Background(), domain.CreateExpenseRequest{
		Title:           "Carburant vedette",
		CategoryID:      node.Generate().String(),
		PaymentMethodID: node.Generate().String(),
		Date:            "2026-08-15",
		AmountXOF:       "125000.00",
	})
	require.NoError(t, err)
	return expense
}

func TestCreateExpenseAssignsNumberAndDraftStatus(t *testing.T) {
	svc := newService(t)

	expense := createDraft(t, svc)
	assert.Equal(t, "DEP-001", expense.Number)
	assert.Equal(t, domain.ExpenseStatusBrouillon, expense.Status)
	assert.True(t, expense.Active)

	second := createDraft(t, svc)
	assert.Equal(t, "DEP-002", second.Number)
}

func TestCreateExpenseRejectsNegativeAmount(t *testing.T) {
	svc := newService(t)

	node, err := snowflake.NewNode(8)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateExpenseRequest{
		Title:           "Remboursement",
		CategoryID:      node.Generate().String(),
		PaymentMethodID: node.Generate().String(),
		Date:            "2026-08-15",
		AmountXOF:       "-100",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestUpdateOnlyAllowedInDraft(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	expense := createDraft(t, svc)

	title := "Carburant remorqueur"
	updated, err := svc.Update(ctx, domain.UpdateExpenseRequest{ID: expense.ID.String(), Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Carburant remorqueur", updated.Title)

	_, err = svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusEnAttente,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, domain.UpdateExpenseRequest{ID: expense.ID.String(), Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotEditable)
}

func TestTransitionFollowsStatusMachine(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	expense := createDraft(t, svc)

	submitted, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusEnAttente,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseStatusEnAttente, submitted.Status)

	validated, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusValidee,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseStatusValidee, validated.Status)

	// VALIDEE cannot go back to EN_ATTENTE.
	_, err = svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusEnAttente,
	})
	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.ExpenseStatusValidee, invalid.From)
	assert.Equal(t, domain.ExpenseStatusEnAttente, invalid.To)
}

func TestTransitionToRejeteeRequiresComment(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	expense := createDraft(t, svc)
	_, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusEnAttente,
	})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusRejetee,
	})
	assert.ErrorIs(t, err, domain.ErrCommentRequired)

	rejected, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:      expense.ID.String(),
		Target:  domain.ExpenseStatusRejetee,
		Comment: "Justificatif manquant",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseStatusRejetee, rejected.Status)
	assert.Equal(t, "Justificatif manquant", rejected.StatusComment)
}

func TestTransitionToPayeeStampsPaidAt(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	expense := createDraft(t, svc)
	for _, target := range []domain.ExpenseStatus{
		domain.ExpenseStatusEnAttente,
		domain.ExpenseStatusValidee,
	} {
		_, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
			ID:     expense.ID.String(),
			Target: target,
		})
		require.NoError(t, err)
	}

	paid, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusPayee,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpenseStatusPayee, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, time.Now().UTC(), *paid.PaidAt, time.Minute)
}

func TestTerminalStatusesRejectAllTransitions(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	expense := createDraft(t, svc)
	_, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     expense.ID.String(),
		Target: domain.ExpenseStatusAnnulee,
	})
	require.NoError(t, err)

	for _, target := range []domain.ExpenseStatus{
		domain.ExpenseStatusBrouillon,
		domain.ExpenseStatusEnAttente,
		domain.ExpenseStatusValidee,
		domain.ExpenseStatusPayee,
	} {
		_, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
			ID:     expense.ID.String(),
			Target: target,
		})
		var invalid *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "target %s", target)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first := createDraft(t, svc)
	createDraft(t, svc)

	_, err := svc.Transition(ctx, domain.TransitionExpenseRequest{
		ID:     first.ID.String(),
		Target: domain.ExpenseStatusEnAttente,
	})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListExpenseRequest{Status: "EN_ATTENTE"})
	require.NoError(t, err)
	require.Len(t, resp.Expenses, 1)
	assert.Equal(t, first.ID, resp.Expenses[0].ID)

	_, err = svc.List(ctx, domain.ListExpenseRequest{Status: "INCONNU"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
