package infra

// pdf.go — printable document generation using go-pdf/fpdf.
// Three formats:
//   - thermal-size sale receipts (74×105mm, close to receipt paper)
//   - A4 purchase contracts with the clauses entered at creation time
//   - A4 closure reports with the full reconciliation breakdown

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spetoki/pastelFacil-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a completed Sale as a receipt.
// storagePath is the directory the PDF is written to (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", sale.Number)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, businessName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sale receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sale #%d", sale.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.OccurredAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if sale.ClientName != nil {
		pdf.CellFormat(contentW, 4, "Client: "+*sale.ClientName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := item.Name
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total + method ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+sale.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	method := sale.PaymentMethod
	if method == model.PayCredit {
		method = "store credit (fiado)"
	}
	pdf.CellFormat(contentW, 4, "Payment: "+method, "", 1, "L", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GenerateContractPDF renders an A4 purchase contract for a client.
// The body text is split on blank lines into clause paragraphs.
func GenerateContractPDF(doc *model.Document, client *model.Client, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("contract_%s.pdf", doc.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Parties
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Client", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, client.Name, "", 1, "L", false, 0, "")
	if client.Document != nil {
		label := "CPF"
		if client.Kind == model.ClientOrganization {
			label = "CNPJ"
		}
		pdf.CellFormat(contentW, 5, fmt.Sprintf("%s: %s", label, *client.Document), "", 1, "L", false, 0, "")
	}
	if client.Address != nil {
		pdf.CellFormat(contentW, 5, *client.Address, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Clauses
	body := ""
	if doc.Body != nil {
		body = *doc.Body
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, paragraph := range strings.Split(body, "\n\n") {
		pdf.MultiCell(contentW, 5, strings.TrimSpace(paragraph), "", "J", false)
		pdf.Ln(3)
	}

	// Signature lines
	pdf.Ln(16)
	half := contentW / 2
	y := pdf.GetY()
	pdf.Line(20, y, 20+half-10, y)
	pdf.Line(20+half+10, y, 20+contentW, y)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half-10, 5, businessName, "", 0, "C", false, 0, "")
	pdf.CellFormat(20, 5, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(half-10, 5, client.Name, "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Issued "+doc.CreatedAt.Format("02/01/2006"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GenerateClosurePDF renders the reconciliation breakdown of a closed shift.
func GenerateClosurePDF(c *model.DailyClosure, businessName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("closure_%s.pdf", c.ClosedAt.Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, businessName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, "Cash closing report", "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Shift %s — %s",
		c.ShiftStartedAt.Format("02/01/2006 15:04"),
		c.ClosedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	row := func(label string, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(contentW*0.6, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 7, value, "", 1, "R", false, 0, "")
	}

	row("Cash sales", "$"+c.TotalCash.StringFixed(2), false)
	row("Pix sales", "$"+c.TotalPix.StringFixed(2), false)
	row("Card sales", "$"+c.TotalCard.StringFixed(2), false)
	row("Total revenue", "$"+c.TotalRevenue.StringFixed(2), true)
	pdf.Ln(2)
	row("Manual cash entries", "$"+c.TotalManualEntries.StringFixed(2), false)
	row("Expenses", "-$"+c.TotalExpenses.StringFixed(2), false)
	pdf.Ln(2)
	row("Expected cash", "$"+c.ExpectedCash.StringFixed(2), true)
	row("Counted cash", "$"+c.CountedCash.StringFixed(2), true)
	row("Variance", "$"+c.Variance.StringFixed(2), true)

	if c.Notes != nil && *c.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, *c.Notes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
