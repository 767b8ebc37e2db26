package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	"github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db"
	"github.com/lionnelpat/svs-backend-sub002/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Settings *config.SettingsHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	settings *config.SettingsHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("expense.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		settings: p.Settings,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateExpenseRequest) (domain.Expense, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Expense{}, domain.ErrInvalidTitle
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil || categoryID == 0 {
		return domain.Expense{}, domain.ErrInvalidCategory
	}
	paymentMethodID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentMethodID))
	if err != nil || paymentMethodID == 0 {
		return domain.Expense{}, domain.ErrInvalidPaymentMethod
	}

	var supplierID *snowflake.ID
	if raw := strings.TrimSpace(req.SupplierID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil || id == 0 {
			return domain.Expense{}, domain.ErrInvalidSupplier
		}
		supplierID = &id
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(req.Date))
	if err != nil {
		return domain.Expense{}, domain.ErrInvalidDate
	}

	amountXOF, err := parseAmount(req.AmountXOF)
	if err != nil {
		return domain.Expense{}, err
	}
	amountEUR, err := parseOptionalAmount(req.AmountEUR)
	if err != nil {
		return domain.Expense{}, err
	}

	prefix := s.settings.Get().ExpensePrefix
	number, err := docnumber.Generate(prefix,
		func(candidate string) (bool, error) { return s.repo.NumberExists(ctx, s.db, candidate) },
		func() (string, bool, error) { return s.repo.LastNumber(ctx, s.db, prefix) },
	)
	if err != nil {
		return domain.Expense{}, err
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ID:              s.genID.Generate(),
		Number:          number,
		Title:           title,
		Description:     strings.TrimSpace(req.Description),
		CategoryID:      categoryID,
		SupplierID:      supplierID,
		PaymentMethodID: paymentMethodID,
		Date:            date,
		AmountXOF:       amountXOF,
		AmountEUR:       amountEUR,
		Status:          domain.ExpenseStatusBrouillon,
		Active:          true,
		CreatedBy:       actorctx.UserIDFromContext(ctx),
		UpdatedBy:       actorctx.UserIDFromContext(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &expense); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Expense{}, domain.ErrDuplicate
		}
		return domain.Expense{}, err
	}

	s.log.Info("expense.created",
		zap.String("expense_id", expense.ID.String()),
		zap.String("number", expense.Number),
	)
	return expense, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateExpenseRequest) (domain.Expense, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	if expense.Status != domain.ExpenseStatusBrouillon {
		return domain.Expense{}, domain.ErrNotEditable
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Expense{}, domain.ErrInvalidTitle
		}
		expense.Title = title
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		categoryID, err := snowflake.ParseString(strings.TrimSpace(*req.CategoryID))
		if err != nil || categoryID == 0 {
			return domain.Expense{}, domain.ErrInvalidCategory
		}
		expense.CategoryID = categoryID
	}
	if req.SupplierID != nil {
		raw := strings.TrimSpace(*req.SupplierID)
		if raw == "" {
			expense.SupplierID = nil
		} else {
			supplierID, err := snowflake.ParseString(raw)
			if err != nil || supplierID == 0 {
				return domain.Expense{}, domain.ErrInvalidSupplier
			}
			expense.SupplierID = &supplierID
		}
	}
	if req.PaymentMethodID != nil {
		paymentMethodID, err := snowflake.ParseString(strings.TrimSpace(*req.PaymentMethodID))
		if err != nil || paymentMethodID == 0 {
			return domain.Expense{}, domain.ErrInvalidPaymentMethod
		}
		expense.PaymentMethodID = paymentMethodID
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(*req.Date))
		if err != nil {
			return domain.Expense{}, domain.ErrInvalidDate
		}
		expense.Date = date
	}
	if req.AmountXOF != nil {
		amount, err := parseAmount(*req.AmountXOF)
		if err != nil {
			return domain.Expense{}, err
		}
		expense.AmountXOF = amount
	}
	if req.AmountEUR != nil {
		amount, err := parseOptionalAmount(*req.AmountEUR)
		if err != nil {
			return domain.Expense{}, err
		}
		expense.AmountEUR = amount
	}

	expense.UpdatedBy = actorctx.UserIDFromContext(ctx)
	expense.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, expense); err != nil {
		return domain.Expense{}, err
	}
	return *expense, nil
}

// Transition applies the status machine. REJETEE demands a non-empty
// comment; PAYEE stamps the payment time and is irreversible.
func (s *Service) Transition(ctx context.Context, req domain.TransitionExpenseRequest) (domain.Expense, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Expense{}, err
	}

	target := domain.ExpenseStatus(strings.ToUpper(strings.TrimSpace(string(req.Target))))
	if !target.Valid() {
		return domain.Expense{}, domain.ErrInvalidStatus
	}

	comment := strings.TrimSpace(req.Comment)
	if target == domain.ExpenseStatusRejetee && comment == "" {
		return domain.Expense{}, domain.ErrCommentRequired
	}

	var updated domain.Expense
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expense, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if expense == nil {
			return domain.ErrNotFound
		}

		if !domain.CanTransition(expense.Status, target) {
			return &domain.InvalidTransitionError{From: expense.Status, To: target}
		}

		now := time.Now().UTC()
		expense.Status = target
		if comment != "" {
			expense.StatusComment = comment
		}
		if target == domain.ExpenseStatusPayee {
			expense.PaidAt = &now
		}
		expense.UpdatedBy = actorctx.UserIDFromContext(ctx)
		expense.UpdatedAt = now

		if err := s.repo.Save(ctx, tx, expense); err != nil {
			return err
		}
		updated = *expense
		return nil
	})
	if err != nil {
		return domain.Expense{}, err
	}

	s.log.Info("expense.transitioned",
		zap.String("expense_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Expense, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}
	return *expense, nil
}

func (s *Service) List(ctx context.Context, req domain.ListExpenseRequest) (domain.ListExpenseResponse, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListExpenseResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(expense *domain.Expense) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        expense.ID.String(),
			CreatedAt: expense.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	expenses := make([]domain.Expense, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		expenses = append(expenses, *item)
	}

	resp := domain.ListExpenseResponse{Expenses: expenses}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.Expense, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if expense == nil {
		return domain.Expense{}, domain.ErrNotFound
	}

	expense.Active = active
	expense.UpdatedBy = actorctx.UserIDFromContext(ctx)
	expense.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, expense); err != nil {
		return domain.Expense{}, err
	}
	return *expense, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func buildFilter(req domain.ListExpenseRequest) (domain.ListExpenseFilter, error) {
	filter := domain.ListExpenseFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.ExpenseStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return domain.ListExpenseFilter{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.CategoryID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListExpenseFilter{}, domain.ErrInvalidCategory
		}
		filter.CategoryID = id
	}
	if raw := strings.TrimSpace(req.SupplierID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListExpenseFilter{}, domain.ErrInvalidSupplier
		}
		filter.SupplierID = id
	}
	if raw := strings.TrimSpace(req.DateFrom); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.ListExpenseFilter{}, domain.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(req.DateTo); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.ListExpenseFilter{}, domain.ErrInvalidDate
		}
		filter.DateTo = &to
	}

	return filter, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount.Round(2), nil
}

func parseOptionalAmount(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	amount, err := parseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
