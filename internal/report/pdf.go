package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/phpdave11/gofpdf"
)

// PDFSuffix is appended to the account name to form the PDF report name.
const PDFSuffix = "_carbon_history.pdf"

// pageBreakY is the cursor height (mm on A4) past which the table moves
// to a new page.
const pageBreakY = 270

var (
	pdfColumns = []string{"DATE & TIME", "CATEGORY", "QUANTITY", "EMISSION (kg CO2e)"}
	pdfWidths  = []float64{52, 44, 44, 42}
	pdfAligns  = []string{"L", "L", "R", "R"}
)

// PDFPath returns the PDF report location for an account.
func (w *FileWriter) PDFPath(accountName string) string {
	return filepath.Join(w.dir, accountName+PDFSuffix)
}

// WritePDF renders summary as a PDF statement and overwrites the account's
// PDF report. It returns the written path.
func (w *FileWriter) WritePDF(ctx context.Context, summary model.Summary) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := w.fs.MkdirAll(w.dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := w.PDFPath(summary.Name)
	f, err := w.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create PDF report: %w", err)
	}
	if err := RenderPDF(f, summary, time.Now()); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close PDF report: %w", err)
	}

	common.LogDebug("PDF report saved", common.Fields{"path": path, "transactions": len(summary.Transactions)})
	return path, nil
}

// RenderPDF writes an A4 statement for summary to out. generated is
// printed in the footer.
func RenderPDF(out io.Writer, summary model.Summary, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Carbon history for "+summary.Name, false)
	pdf.SetCreator("carbon", false)
	pdf.SetMargins(14, 14, 14)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		footer := fmt.Sprintf("Generated %s - page %d", generated.Format(time.RFC3339), pdf.PageNo())
		pdf.CellFormat(0, 8, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(46, 139, 87)
	pdf.Cell(0, 10, "Carbon emission history: "+summary.Name)
	pdf.Ln(12)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFillColor(240, 247, 242)
	pdf.SetDrawColor(200, 200, 200)
	headline := []struct{ label, value string }{
		{"Period", summary.Period.DisplayName()},
		{"Initial (kg)", model.FormatAmount(summary.Initial)},
		{"Used (kg)", model.FormatAmount(summary.Used)},
		{"Remaining (kg)", model.FormatAmount(summary.Remaining)},
	}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headline {
		pdf.CellFormat(45.5, 8, h.label, "1", lineBreak(i, len(headline)), "C", true, 0, "")
	}
	pdf.SetFont("Helvetica", "", 11)
	for i, h := range headline {
		pdf.CellFormat(45.5, 9, h.value, "1", lineBreak(i, len(headline)), "C", false, 0, "")
	}
	pdf.Ln(4)

	if summary.OverBudget {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(231, 111, 81)
		pdf.Cell(0, 8, "Over budget")
		pdf.Ln(10)
		pdf.SetTextColor(20, 20, 20)
	}

	tableHeader(pdf)
	pdf.SetFont("Helvetica", "", 9)
	if len(summary.Transactions) == 0 {
		pdf.CellFormat(0, 8, "No activities logged.", "1", 1, "C", false, 0, "")
	}
	for _, txn := range summary.Transactions {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			tableHeader(pdf)
			pdf.SetFont("Helvetica", "", 9)
		}
		row := []string{
			txn.Timestamp(),
			txn.Category().Identifier(),
			model.FormatAmount(txn.Quantity()) + " " + txn.Unit(),
			model.FormatAmount(txn.Emission()),
		}
		for i, cell := range row {
			pdf.CellFormat(pdfWidths[i], 7, cell, "1", lineBreak(i, len(row)), pdfAligns[i], false, 0, "")
		}
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	return nil
}

func tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	for i, col := range pdfColumns {
		pdf.CellFormat(pdfWidths[i], 8, col, "1", lineBreak(i, len(pdfColumns)), "C", true, 0, "")
	}
}

// lineBreak moves to the next row after the last cell of a row.
func lineBreak(i, n int) int {
	if i == n-1 {
		return 1
	}
	return 0
}
