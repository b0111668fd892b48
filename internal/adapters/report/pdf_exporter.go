// Package report renders the tracker's snapshots as a survey PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/lcalzada-xor/wifitrack/internal/core/services/entries"
)

// Survey is the input to a PDF export: both snapshot lists plus the
// counters, captured at one moment.
type Survey struct {
	GeneratedAt       time.Time
	Active            []entries.Entry
	Other             []entries.Entry
	SavedCount        int
	SubscriptionCount int
}

// PDFExporter exports surveys to PDF format.
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter instance.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export writes the survey as a PDF document.
func (e *PDFExporter) Export(w io.Writer, survey Survey) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	e.addHeader(pdf, survey)
	e.addCounts(pdf, survey)
	e.addEntryTable(pdf, "Connected networks", survey.Active)
	e.addEntryTable(pdf, "Nearby networks", survey.Other)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, survey Survey) {
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 15, "Wi-Fi Visibility Survey", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	dateStr := fmt.Sprintf("Generated: %s", survey.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.CellFormat(0, 6, dateStr, "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (e *PDFExporter) addCounts(pdf *gofpdf.Fpdf, survey Survey) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	line := fmt.Sprintf("Saved networks: %d    Passpoint subscriptions: %d",
		survey.SavedCount, survey.SubscriptionCount)
	pdf.CellFormat(0, 8, line, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func (e *PDFExporter) addEntryTable(pdf *gofpdf.Fpdf, title string, list []entries.Entry) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	if len(list) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, "None", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(70, 7, "Network", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Kind", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "State", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Level", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Saved", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, entry := range list {
		title := entry.Title()
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		pdf.CellFormat(70, 6, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, string(entry.Kind()), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, entry.ConnectionState().String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", entry.Level()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, yesNo(entry.IsSaved()), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
