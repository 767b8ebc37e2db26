package export

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type invoicePDFData struct {
	Number    string
	Status    string
	IssueDate string
	DueDate   string

	CompanyName    string
	CompanyAddress string
	CompanyEmail   string

	ShipName string
	ShipIMO  string

	Items []invoicePDFItem

	Subtotal   string
	VATLabel   string
	VAT        string
	Total      string
	TotalEUR   string
	AmountPaid string
	Notes      string
}

type invoicePDFItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

func renderInvoicePDF(data invoicePDFData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} / {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, "Facture "+data.Number, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.Status, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   3,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Date d'émission : "+data.IssueDate, props.Text{Top: 0}),
			text.New("Date d'échéance : "+data.DueDate, props.Text{Top: 5}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Client", props.Text{Style: fontstyle.Bold}),
			text.New(data.CompanyName, props.Text{Top: 5}),
			text.New(data.CompanyAddress, props.Text{Top: 10}),
			text.New(data.CompanyEmail, props.Text{Top: 15}),
		),
		col.New(6).Add(
			text.New("Navire", props.Text{Style: fontstyle.Bold}),
			text.New(data.ShipName, props.Text{Top: 5}),
			text.New("IMO "+data.ShipIMO, props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Désignation", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Quantité", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Prix unitaire", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Montant", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Sous-total", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, data.VATLabel, props.Text{Size: 9}),
		text.NewCol(2, data.VAT, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Total XOF", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.Total, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if data.TotalEUR != "" {
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, "Total EUR", props.Text{Size: 9}),
			text.NewCol(2, data.TotalEUR, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "Déjà payé", props.Text{Size: 9}),
		text.NewCol(2, data.AmountPaid, props.Text{Size: 9, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(20,
			text.NewCol(12, data.Notes, props.Text{Size: 9, Top: 5}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
