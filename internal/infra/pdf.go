package infra

// pdf.go — timesheet report generation using go-pdf/fpdf.
// Produces an A4 report with one row per employee: name, punch count and
// total worked hours in the period. The output file is saved to
// storagePath/relatorio_{from}_{to}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// TimesheetRow is one employee's aggregate for the report period.
type TimesheetRow struct {
	Name          string
	PunchCount    int
	WorkedHours   decimal.Decimal
	ExpectedHours decimal.Decimal
}

// GenerateTimesheetPDF writes the period report and returns its path.
func GenerateTimesheetPDF(rows []TimesheetRow, from, to time.Time, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("relatorio_%s_%s.pdf", from.Format("20060102"), to.Format("20060102"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "BotCheckin", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	period := fmt.Sprintf("Relatorio de Horas  %s a %s",
		from.Format("02/01/2006"), to.Format("02/01/2006"))
	pdf.CellFormat(contentW, 6, period, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)

	// ── Table header ──────────────────────────────────────────────────────────
	col1 := contentW * 0.44 // name
	col2 := contentW * 0.16 // punches
	col3 := contentW * 0.20 // worked
	col4 := contentW * 0.20 // expected

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Funcionario", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Registros", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Trabalhadas", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Esperadas", "B", 1, "R", false, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	total := decimal.Zero
	for _, row := range rows {
		name := row.Name
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", row.PunchCount), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, row.WorkedHours.StringFixed(1)+"h", "", 0, "R", false, 0, "")
		expected := "-"
		if !row.ExpectedHours.IsZero() {
			expected = row.ExpectedHours.StringFixed(1) + "h"
		}
		pdf.CellFormat(col4, 6, expected, "", 1, "R", false, 0, "")
		total = total.Add(row.WorkedHours)
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, total.StringFixed(1)+"h", "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	generated := "Gerado em " + time.Now().Format("02/01/2006 15:04")
	pdf.CellFormat(contentW, 5, generated, "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
