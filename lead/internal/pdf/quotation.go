// Package pdf renders a submitted quote request as a printable document for staff.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const (
	font       = "Helvetica"
	nameWidth  = 70
	qtyWidth   = 20
	notesWidth = 100
)

type Item struct {
	Name         string
	Quantity     int32
	Requirements string
}

type Quotation struct {
	Reference              string
	CreatedAt              time.Time
	Status                 string
	Priority               string
	CustomerName           string
	Email                  string
	Phone                  string
	Company                string
	Address                []string
	ProjectType            string
	Budget                 string
	Timeline               string
	Items                  []Item
	AdditionalRequirements string
	QuotedAmount           *decimal.Decimal
}

type Generator struct {
	now      func() time.Time
	compress bool
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now, compress: true}
}

func (g *Generator) Generate(q Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(g.compress)
	pdf.SetTitle("Quote request "+q.Reference, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(font, "B", 16)
	pdf.Cell(0, 10, "Quote request")
	pdf.Ln(10)

	pdf.SetFont(font, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Reference %s, received %s", q.Reference, q.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status %s, priority %s", q.Status, q.Priority))
	pdf.Ln(10)

	section(pdf, "Customer")
	line(pdf, tr, "Name", q.CustomerName)
	line(pdf, tr, "Email", q.Email)
	line(pdf, tr, "Phone", q.Phone)
	line(pdf, tr, "Company", q.Company)
	if len(q.Address) > 0 {
		line(pdf, tr, "Address", strings.Join(q.Address, ", "))
	}
	pdf.Ln(4)

	section(pdf, "Project")
	line(pdf, tr, "Type", q.ProjectType)
	line(pdf, tr, "Budget", q.Budget)
	line(pdf, tr, "Timeline", q.Timeline)
	pdf.Ln(4)

	section(pdf, "Products")
	pdf.SetFont(font, "B", 10)
	pdf.CellFormat(nameWidth, 7, "Product", "B", 0, "L", false, 0, "")
	pdf.CellFormat(qtyWidth, 7, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(notesWidth, 7, "Requirements", "B", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 10)
	for _, it := range q.Items {
		pdf.CellFormat(nameWidth, 6, tr(trim(it.Name, 40)), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyWidth, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "R", false, 0, "")
		pdf.MultiCell(notesWidth, 6, tr(orNA(it.Requirements)), "", "L", false)
	}
	pdf.Ln(4)

	if q.AdditionalRequirements != "" {
		section(pdf, "Additional requirements")
		pdf.SetFont(font, "", 10)
		pdf.MultiCell(0, 6, tr(q.AdditionalRequirements), "", "L", false)
		pdf.Ln(4)
	}

	if q.QuotedAmount != nil {
		pdf.SetFont(font, "B", 11)
		pdf.Cell(0, 7, "Quoted amount: INR "+q.QuotedAmount.StringFixed(2))
		pdf.Ln(8)
	}

	pdf.SetFont(font, "", 8)
	pdf.Cell(0, 5, "Generated "+g.now().Format(time.RFC3339))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed rendering quotation pdf with error=%w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(font, "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
}

func line(pdf *gofpdf.Fpdf, tr func(string) string, label string, value string) {
	pdf.SetFont(font, "B", 10)
	pdf.Cell(30, 6, label)
	pdf.SetFont(font, "", 10)
	pdf.Cell(0, 6, tr(orNA(value)))
	pdf.Ln(6)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
