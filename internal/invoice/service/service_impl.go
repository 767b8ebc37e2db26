package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lionnelpat/svs-backend-sub002/internal/actorctx"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	"github.com/lionnelpat/svs-backend-sub002/internal/docnumber"
	"github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	"github.com/lionnelpat/svs-backend-sub002/internal/money"
	operationdomain "github.com/lionnelpat/svs-backend-sub002/internal/operation/domain"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
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

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Settings   *config.SettingsHolder
	Companies  companydomain.Repository
	Ships      shipdomain.Repository
	Operations operationdomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	settings   *config.SettingsHolder
	companies  companydomain.Repository
	ships      shipdomain.Repository
	operations operationdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		settings:   p.Settings,
		companies:  p.Companies,
		ships:      p.Ships,
		operations: p.Operations,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	companyID, err := s.resolveCompany(ctx, req.CompanyID)
	if err != nil {
		return domain.Invoice{}, err
	}
	shipID, err := s.resolveShip(ctx, req.ShipID)
	if err != nil {
		return domain.Invoice{}, err
	}

	issueDate, err := time.Parse(dateLayout, strings.TrimSpace(req.IssueDate))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidDate
	}

	settings := s.settings.Get()
	dueDate := issueDate.AddDate(0, 0, settings.DueDelayDays)
	if raw := strings.TrimSpace(req.DueDate); raw != "" {
		dueDate, err = time.Parse(dateLayout, raw)
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidDate
		}
	}

	if len(req.LineItems) == 0 {
		return domain.Invoice{}, domain.ErrNoLineItems
	}

	prefix := settings.InvoicePrefix
	number, err := docnumber.Generate(prefix,
		func(candidate string) (bool, error) { return s.repo.NumberExists(ctx, s.db, candidate) },
		func() (string, bool, error) { return s.repo.LastNumber(ctx, s.db, prefix) },
	)
	if err != nil {
		return domain.Invoice{}, err
	}

	now := time.Now().UTC()
	invoice := domain.Invoice{
		ID:        s.genID.Generate(),
		Number:    number,
		CompanyID: companyID,
		ShipID:    shipID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Status:    domain.InvoiceStatusBrouillon,
		Notes:     strings.TrimSpace(req.Notes),
		Active:    true,
		CreatedBy: actorctx.UserIDFromContext(ctx),
		UpdatedBy: actorctx.UserIDFromContext(ctx),
		CreatedAt: now,
		UpdatedAt: now,
	}

	items, err := s.buildLineItems(ctx, invoice.ID, req.LineItems)
	if err != nil {
		return domain.Invoice{}, err
	}
	s.applyTotals(&invoice, items, settings)
	invoice.LineItems = items

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, &invoice)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrDuplicate
		}
		return domain.Invoice{}, err
	}

	s.log.Info("invoice.created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.String("total_xof", invoice.TotalXOF.String()),
	)
	return invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if invoice.Status != domain.InvoiceStatusBrouillon {
			return domain.ErrNotEditable
		}

		if req.CompanyID != nil {
			companyID, err := s.resolveCompany(ctx, *req.CompanyID)
			if err != nil {
				return err
			}
			invoice.CompanyID = companyID
		}
		if req.ShipID != nil {
			shipID, err := s.resolveShip(ctx, *req.ShipID)
			if err != nil {
				return err
			}
			invoice.ShipID = shipID
		}
		if req.IssueDate != nil {
			issueDate, err := time.Parse(dateLayout, strings.TrimSpace(*req.IssueDate))
			if err != nil {
				return domain.ErrInvalidDate
			}
			invoice.IssueDate = issueDate
		}
		if req.DueDate != nil {
			dueDate, err := time.Parse(dateLayout, strings.TrimSpace(*req.DueDate))
			if err != nil {
				return domain.ErrInvalidDate
			}
			invoice.DueDate = dueDate
		}
		if req.Notes != nil {
			invoice.Notes = strings.TrimSpace(*req.Notes)
		}

		items := invoice.LineItems
		if req.LineItems != nil {
			if len(*req.LineItems) == 0 {
				return domain.ErrNoLineItems
			}
			items, err = s.buildLineItems(ctx, invoice.ID, *req.LineItems)
			if err != nil {
				return err
			}
			if err := s.repo.ReplaceLineItems(ctx, tx, invoice, items); err != nil {
				return err
			}
		}

		s.applyTotals(invoice, items, s.settings.Get())
		invoice.UpdatedBy = actorctx.UserIDFromContext(ctx)
		invoice.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Invoice, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	result := *invoice
	result.Status = result.EffectiveStatus(time.Now().UTC())
	return result, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter, err := buildFilter(req)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
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
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	now := time.Now().UTC()
	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoice := *item
		invoice.Status = invoice.EffectiveStatus(now)
		invoices = append(invoices, invoice)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// Issue moves a draft to EMISE.
func (s *Service) Issue(ctx context.Context, rawID string) (domain.Invoice, error) {
	return s.transition(ctx, rawID, domain.InvoiceStatusEmise)
}

// Cancel moves any non-paid invoice to ANNULEE.
func (s *Service) Cancel(ctx context.Context, rawID string) (domain.Invoice, error) {
	return s.transition(ctx, rawID, domain.InvoiceStatusAnnulee)
}

func (s *Service) transition(ctx context.Context, rawID string, target domain.InvoiceStatus) (domain.Invoice, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Invoice{}, err
	}

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		if !domain.CanTransition(invoice.Status, target) {
			return &domain.InvalidTransitionError{From: invoice.Status, To: target}
		}

		invoice.Status = target
		invoice.UpdatedBy = actorctx.UserIDFromContext(ctx)
		invoice.UpdatedAt = time.Now().UTC()

		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice.transitioned",
		zap.String("invoice_id", updated.ID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// RecordPayment adds a payment to the running total. Cumulative paid below
// the invoice total moves it to PARTIELLEMENT_PAYEE; reaching or exceeding
// the total settles it as PAYEE. Overpayment is accepted and clamps the
// status, not the recorded amount.
func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.Invoice, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	amount = amount.Round(money.Precision)

	var updated domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}

		switch invoice.Status {
		case domain.InvoiceStatusBrouillon, domain.InvoiceStatusEmise, domain.InvoiceStatusPartiellement:
		default:
			return domain.ErrNotPayable
		}

		now := time.Now().UTC()
		invoice.AmountPaid = money.Sum(invoice.AmountPaid, amount)
		if invoice.AmountPaid.GreaterThanOrEqual(invoice.TotalXOF) {
			invoice.Status = domain.InvoiceStatusPayee
			invoice.PaidAt = &now
		} else {
			invoice.Status = domain.InvoiceStatusPartiellement
		}
		invoice.UpdatedBy = actorctx.UserIDFromContext(ctx)
		invoice.UpdatedAt = now

		if err := s.repo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		updated = *invoice
		return nil
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice.payment_recorded",
		zap.String("invoice_id", updated.ID.String()),
		zap.String("amount", amount.String()),
		zap.String("amount_paid", updated.AmountPaid.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) SetActive(ctx context.Context, rawID string, active bool) (domain.Invoice, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	invoice.Active = active
	invoice.UpdatedBy = actorctx.UserIDFromContext(ctx)
	invoice.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) resolveCompany(ctx context.Context, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidCompany
	}
	company, err := s.companies.FindByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if company == nil {
		return 0, domain.ErrInvalidCompany
	}
	return id, nil
}

func (s *Service) resolveShip(ctx context.Context, raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidShip
	}
	ship, err := s.ships.FindByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if ship == nil {
		return 0, domain.ErrInvalidShip
	}
	return id, nil
}

// buildLineItems validates inputs and computes per-line amounts. Amounts
// are always derived from quantity and unit price, never taken as input.
func (s *Service) buildLineItems(ctx context.Context, invoiceID snowflake.ID, inputs []domain.LineItemInput) ([]domain.InvoiceLineItem, error) {
	now := time.Now().UTC()
	items := make([]domain.InvoiceLineItem, 0, len(inputs))

	for _, input := range inputs {
		operationID, err := snowflake.ParseString(strings.TrimSpace(input.OperationID))
		if err != nil || operationID == 0 {
			return nil, domain.ErrInvalidOperation
		}
		operation, err := s.operations.FindByID(ctx, s.db, operationID)
		if err != nil {
			return nil, err
		}
		if operation == nil {
			return nil, domain.ErrInvalidOperation
		}

		quantity, err := decimal.NewFromString(strings.TrimSpace(input.Quantity))
		if err != nil || !quantity.IsPositive() {
			return nil, domain.ErrInvalidQuantity
		}

		unitPriceXOF := operation.UnitPriceXOF
		if raw := strings.TrimSpace(input.UnitPriceXOF); raw != "" {
			unitPriceXOF, err = decimal.NewFromString(raw)
			if err != nil || unitPriceXOF.IsNegative() {
				return nil, domain.ErrInvalidPrice
			}
			unitPriceXOF = unitPriceXOF.Round(money.Precision)
		}

		unitPriceEUR := operation.UnitPriceEUR
		if raw := strings.TrimSpace(input.UnitPriceEUR); raw != "" {
			price, err := decimal.NewFromString(raw)
			if err != nil || price.IsNegative() {
				return nil, domain.ErrInvalidPrice
			}
			price = price.Round(money.Precision)
			unitPriceEUR = &price
		}

		description := strings.TrimSpace(input.Description)
		if description == "" {
			description = operation.Name
		}

		items = append(items, domain.InvoiceLineItem{
			ID:           s.genID.Generate(),
			InvoiceID:    invoiceID,
			OperationID:  operationID,
			Description:  description,
			Quantity:     quantity,
			UnitPriceXOF: unitPriceXOF,
			UnitPriceEUR: unitPriceEUR,
			AmountXOF:    money.LineAmount(quantity, unitPriceXOF),
			AmountEUR:    money.OptionalLineAmount(quantity, unitPriceEUR),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return items, nil
}

// applyTotals recomputes subtotal, VAT and totals from the line set.
func (s *Service) applyTotals(invoice *domain.Invoice, items []domain.InvoiceLineItem, settings config.InvoicingSettings) {
	amounts := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, item.AmountXOF)
	}

	invoice.SubtotalXOF = money.Sum(amounts...)
	invoice.VATRate = settings.VATRate()
	invoice.VATXOF = money.VAT(invoice.SubtotalXOF, invoice.VATRate)
	invoice.TotalXOF = money.Sum(invoice.SubtotalXOF, invoice.VATXOF)

	if rate := settings.EURRate(); !rate.IsZero() {
		eur := money.Convert(invoice.TotalXOF, rate)
		invoice.TotalEUR = &eur
	} else {
		invoice.TotalEUR = nil
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func buildFilter(req domain.ListInvoiceRequest) (domain.ListInvoiceFilter, error) {
	filter := domain.ListInvoiceFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.NormalizeStatus(domain.InvoiceStatus(strings.ToUpper(raw)))
		if !status.Valid() {
			return domain.ListInvoiceFilter{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.CompanyID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListInvoiceFilter{}, domain.ErrInvalidCompany
		}
		filter.CompanyID = id
	}
	if raw := strings.TrimSpace(req.ShipID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListInvoiceFilter{}, domain.ErrInvalidShip
		}
		filter.ShipID = id
	}
	if raw := strings.TrimSpace(req.DateFrom); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.ListInvoiceFilter{}, domain.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(req.DateTo); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return domain.ListInvoiceFilter{}, domain.ErrInvalidDate
		}
		filter.DateTo = &to
	}

	return filter, nil
}
