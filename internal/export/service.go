package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/lionnelpat/svs-backend-sub002/internal/company/domain"
	expensedomain "github.com/lionnelpat/svs-backend-sub002/internal/expense/domain"
	categorydomain "github.com/lionnelpat/svs-backend-sub002/internal/expensecategory/domain"
	invoicedomain "github.com/lionnelpat/svs-backend-sub002/internal/invoice/domain"
	shipdomain "github.com/lionnelpat/svs-backend-sub002/internal/ship/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "2006-01-02"
)

var decimal100 = decimal.NewFromInt(100)

// Document is a rendered export ready to stream.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Service interface {
	InvoicePDF(ctx context.Context, invoiceID string) (Document, error)
	InvoicesExcel(ctx context.Context, req invoicedomain.ListInvoiceRequest) (Document, error)
	ExpensesExcel(ctx context.Context, req expensedomain.ListExpenseRequest) (Document, error)
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Invoices   invoicedomain.Repository
	Expenses   expensedomain.Repository
	Companies  companydomain.Repository
	Ships      shipdomain.Repository
	Categories categorydomain.Repository
}

type service struct {
	db         *gorm.DB
	log        *zap.Logger
	invoices   invoicedomain.Repository
	expenses   expensedomain.Repository
	companies  companydomain.Repository
	ships      shipdomain.Repository
	categories categorydomain.Repository
}

func New(p Params) Service {
	return &service{
		db:         p.DB,
		log:        p.Log.Named("export.service"),
		invoices:   p.Invoices,
		expenses:   p.Expenses,
		companies:  p.Companies,
		ships:      p.Ships,
		categories: p.Categories,
	}
}

func (s *service) InvoicePDF(ctx context.Context, rawID string) (Document, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return Document{}, invoicedomain.ErrInvalidID
	}

	invoice, err := s.invoices.FindByID(ctx, s.db, id)
	if err != nil {
		return Document{}, err
	}
	if invoice == nil {
		return Document{}, invoicedomain.ErrNotFound
	}

	data := invoicePDFData{
		Number:     invoice.Number,
		Status:     string(invoice.EffectiveStatus(time.Now().UTC())),
		IssueDate:  invoice.IssueDate.Format(dateLayout),
		DueDate:    invoice.DueDate.Format(dateLayout),
		Subtotal:   invoice.SubtotalXOF.StringFixed(2),
		VATLabel:   fmt.Sprintf("TVA %s%%", invoice.VATRate.Mul(decimal100).StringFixed(0)),
		VAT:        invoice.VATXOF.StringFixed(2),
		Total:      invoice.TotalXOF.StringFixed(2),
		AmountPaid: invoice.AmountPaid.StringFixed(2),
		Notes:      invoice.Notes,
	}
	if invoice.TotalEUR != nil {
		data.TotalEUR = invoice.TotalEUR.StringFixed(2)
	}

	if company, err := s.companies.FindByID(ctx, s.db, invoice.CompanyID); err != nil {
		return Document{}, err
	} else if company != nil {
		data.CompanyName = company.Name
		data.CompanyAddress = company.Address
		data.CompanyEmail = company.Email
	}
	if ship, err := s.ships.FindByID(ctx, s.db, invoice.ShipID); err != nil {
		return Document{}, err
	} else if ship != nil {
		data.ShipName = ship.Name
		data.ShipIMO = ship.IMONumber
	}

	for _, item := range invoice.LineItems {
		data.Items = append(data.Items, invoicePDFItem{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPriceXOF.StringFixed(2),
			Amount:      item.AmountXOF.StringFixed(2),
		})
	}

	raw, err := renderInvoicePDF(data)
	if err != nil {
		return Document{}, err
	}

	s.log.Info("export.invoice_pdf",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("bytes", len(raw)),
	)
	return Document{
		Filename:    fmt.Sprintf("%s.pdf", invoice.Number),
		ContentType: pdfContentType,
		Data:        raw,
	}, nil
}

func (s *service) InvoicesExcel(ctx context.Context, req invoicedomain.ListInvoiceRequest) (Document, error) {
	filter, err := buildInvoiceFilter(req)
	if err != nil {
		return Document{}, err
	}

	invoices, err := s.invoices.FindAll(ctx, s.db, filter)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	header := []string{
		"Numéro", "Client", "Navire", "Date d'émission", "Date d'échéance",
		"Statut", "Sous-total XOF", "TVA XOF", "Total XOF", "Total EUR", "Payé XOF",
	}
	rows := make([][]any, 0, len(invoices))
	for _, invoice := range invoices {
		companyName := ""
		if company, err := s.companies.FindByID(ctx, s.db, invoice.CompanyID); err == nil && company != nil {
			companyName = company.Name
		}
		shipName := ""
		if ship, err := s.ships.FindByID(ctx, s.db, invoice.ShipID); err == nil && ship != nil {
			shipName = ship.Name
		}
		totalEUR := ""
		if invoice.TotalEUR != nil {
			totalEUR = invoice.TotalEUR.StringFixed(2)
		}
		rows = append(rows, []any{
			invoice.Number,
			companyName,
			shipName,
			invoice.IssueDate.Format(dateLayout),
			invoice.DueDate.Format(dateLayout),
			string(invoice.EffectiveStatus(now)),
			invoice.SubtotalXOF.StringFixed(2),
			invoice.VATXOF.StringFixed(2),
			invoice.TotalXOF.StringFixed(2),
			totalEUR,
			invoice.AmountPaid.StringFixed(2),
		})
	}

	buf, err := writeSheet("Factures", header, rows)
	if err != nil {
		return Document{}, err
	}

	s.log.Info("export.invoices_excel", zap.Int("rows", len(rows)))
	return Document{
		Filename:    fmt.Sprintf("factures-%s.xlsx", now.Format(dateLayout)),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func (s *service) ExpensesExcel(ctx context.Context, req expensedomain.ListExpenseRequest) (Document, error) {
	filter, err := buildExpenseFilter(req)
	if err != nil {
		return Document{}, err
	}

	expenses, err := s.expenses.FindAll(ctx, s.db, filter)
	if err != nil {
		return Document{}, err
	}

	header := []string{
		"Numéro", "Titre", "Catégorie", "Date", "Montant XOF", "Montant EUR",
		"Statut", "Payée le",
	}
	rows := make([][]any, 0, len(expenses))
	for _, expense := range expenses {
		categoryLabel := ""
		if category, err := s.categories.FindByID(ctx, s.db, expense.CategoryID); err == nil && category != nil {
			categoryLabel = category.Label
		}
		amountEUR := ""
		if expense.AmountEUR != nil {
			amountEUR = expense.AmountEUR.StringFixed(2)
		}
		paidAt := ""
		if expense.PaidAt != nil {
			paidAt = expense.PaidAt.Format(dateLayout)
		}
		rows = append(rows, []any{
			expense.Number,
			expense.Title,
			categoryLabel,
			expense.Date.Format(dateLayout),
			expense.AmountXOF.StringFixed(2),
			amountEUR,
			string(expense.Status),
			paidAt,
		})
	}

	buf, err := writeSheet("Dépenses", header, rows)
	if err != nil {
		return Document{}, err
	}

	s.log.Info("export.expenses_excel", zap.Int("rows", len(rows)))
	return Document{
		Filename:    fmt.Sprintf("depenses-%s.xlsx", time.Now().UTC().Format(dateLayout)),
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}

func buildInvoiceFilter(req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceFilter, error) {
	filter := invoicedomain.ListInvoiceFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := invoicedomain.NormalizeStatus(invoicedomain.InvoiceStatus(strings.ToUpper(raw)))
		if !status.Valid() {
			return invoicedomain.ListInvoiceFilter{}, invoicedomain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.CompanyID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invoicedomain.ListInvoiceFilter{}, invoicedomain.ErrInvalidCompany
		}
		filter.CompanyID = id
	}
	if raw := strings.TrimSpace(req.ShipID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invoicedomain.ListInvoiceFilter{}, invoicedomain.ErrInvalidShip
		}
		filter.ShipID = id
	}
	if raw := strings.TrimSpace(req.DateFrom); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return invoicedomain.ListInvoiceFilter{}, invoicedomain.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(req.DateTo); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return invoicedomain.ListInvoiceFilter{}, invoicedomain.ErrInvalidDate
		}
		filter.DateTo = &to
	}
	return filter, nil
}

func buildExpenseFilter(req expensedomain.ListExpenseRequest) (expensedomain.ListExpenseFilter, error) {
	filter := expensedomain.ListExpenseFilter{
		Search: strings.TrimSpace(req.Search),
		Active: req.Active,
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := expensedomain.ExpenseStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return expensedomain.ListExpenseFilter{}, expensedomain.ErrInvalidStatus
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.CategoryID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return expensedomain.ListExpenseFilter{}, expensedomain.ErrInvalidCategory
		}
		filter.CategoryID = id
	}
	if raw := strings.TrimSpace(req.DateFrom); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			return expensedomain.ListExpenseFilter{}, expensedomain.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := strings.TrimSpace(req.DateTo); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			return expensedomain.ListExpenseFilter{}, expensedomain.ErrInvalidDate
		}
		filter.DateTo = &to
	}
	return filter, nil
}
