package invoice

import (
	"fmt"
	"io"

	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/raykov/gofpdf"
	"github.com/shopspring/decimal"
)

// Write renders a one-page A4 invoice for order to w.
func Write(w io.Writer, order *models.Order) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", order.Id.Hex()), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Bookstore Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range [][2]string{
		{"Order", order.Id.Hex()},
		{"Date", order.Created_at.Format("02 Jan 2006")},
		{"Customer", order.User_name},
		{"Status", order.Status},
		{"Payment", order.Payment_method},
		{"Address", order.Address},
		{"Phone", order.Phone},
	} {
		if line[1] == "" {
			continue
		}
		pdf.CellFormat(30, 7, line[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, line[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(95, 8, "Title", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range order.Items {
		price := decimal.NewFromFloat(item.Price)
		amount := price.Mul(decimal.NewFromInt(int64(item.Quantity)))

		pdf.CellFormat(95, 8, item.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, amount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, decimal.NewFromFloat(order.Total_amount).StringFixed(2), "1", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error rendering invoice: %v", err)
	}

	return nil
}
