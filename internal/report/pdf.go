// Package report renders an underwriting analysis into a PDF investment memo.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"

	"github.com/aire-labs/aire/internal/model"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
	labelWidth = 60.0
	valueWidth = 70.0
)

// Render produces the PDF memo bytes for one analysis.
func Render(a *model.Analysis) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, "AIRE Investment Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(fontFamily, "", 10)
	writeLabeled(pdf, "Address", a.Input.Address)
	writeLabeled(pdf, "Grade", fmt.Sprintf("%s    Score: %.1f    Verdict: %s",
		a.Result.Grade, a.Result.FinalScore, a.Result.Verdict))
	writeLabeled(pdf, "Kill Switch", fmt.Sprintf("%v    Stress DSCR: %.2f (rent -20%%)",
		a.Result.KillSwitch, a.Numbers.DSCRStress))
	pdf.Ln(4)

	writeInputTable(pdf, a)
	pdf.Ln(4)

	writeSection(pdf, "Top Strengths", a.Strengths)
	pdf.Ln(2)
	writeSection(pdf, "Top Risks / Flags", a.Risks)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "report: render pdf")
	}
	return buf.Bytes(), nil
}

func writeLabeled(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.CellFormat(30, lineHeight, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(0, lineHeight, value, "", 1, "L", false, 0, "")
}

func writeInputTable(pdf *fpdf.Fpdf, a *model.Analysis) {
	rows := [][2]string{
		{"Metric", "Value"},
		{"Price", fmt.Sprintf("$%.0f", a.Input.Price)},
		{"Monthly Rent", fmt.Sprintf("$%.0f", a.Input.MonthlyRent)},
		{"Monthly Expenses", fmt.Sprintf("$%.0f", a.Input.MonthlyExpenses)},
		{"Loan Payment", fmt.Sprintf("$%.0f", a.Numbers.LoanPayment)},
		{"Vacancy Rate", fmt.Sprintf("%.0f%%", a.Input.VacancyRate*100)},
		{"Replacement Cost", fmt.Sprintf("$%.0f", a.Input.ReplacementCost)},
		{"Days on Market", fmt.Sprintf("%d", a.Input.DaysOnMarket)},
		{"Job Diversity Index", fmt.Sprintf("%.2f", a.Input.JobDiversityIndex)},
	}

	for i, row := range rows {
		if i == 0 {
			pdf.SetFont(fontFamily, "B", 9)
			pdf.SetFillColor(230, 230, 230)
		} else {
			pdf.SetFont(fontFamily, "", 9)
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(labelWidth, lineHeight, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(valueWidth, lineHeight, row[1], "1", 1, "L", true, 0, "")
	}
}

func writeSection(pdf *fpdf.Fpdf, heading string, items []string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	for _, item := range items {
		pdf.MultiCell(0, lineHeight, "- "+item, "", "L", false)
	}
}
