package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Sharruk/TravelGuard/internal/models"

	"github.com/go-pdf/fpdf"
)

// MaxRows 每张明细表最多列出的行数
const MaxRows = 10

// Filename 下载文件名，按生成时间区分
func Filename(snap *models.ReportSnapshot) string {
	return fmt.Sprintf("tourist_safety_report_%s.pdf", snap.GeneratedAt.Format("20060102_150405"))
}

// Render 把快照渲染成固定版式的 PDF
func Render(snap *models.ReportSnapshot) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tourist Safety Management System - Report", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Tourist Safety Management System - Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on: "+snap.GeneratedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	active := snap.ActiveAlerts()

	heading(pdf, "Summary")
	table(pdf, tr, []float64{90, 40}, []string{"Metric", "Count"}, [][]string{
		{"Total Tourists", strconv.Itoa(len(snap.Tourists))},
		{"Active Alerts", strconv.Itoa(len(active))},
		{"Total Geo Zones", strconv.Itoa(len(snap.Zones))},
		{"High Risk Zones", strconv.Itoa(snap.RestrictedZones())},
	})
	pdf.Ln(8)

	heading(pdf, "Tourist Details")
	var touristRows [][]string
	for i, t := range snap.Tourists {
		if i >= MaxRows {
			break
		}
		touristRows = append(touristRows, []string{
			t.TouristID,
			valueOr(t.OwnerName, "Unknown"),
			t.SafetyScore.String(),
			nonEmpty(t.Status, models.TouristSafe),
			valueOr(t.CurrentLocation, "Unknown"),
		})
	}
	table(pdf, tr, []float64{38, 38, 24, 22, 74},
		[]string{"Tourist ID", "Name", "Safety Score", "Status", "Location"}, touristRows)
	pdf.Ln(8)

	heading(pdf, "Active Alerts")
	if len(active) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, "No active alerts", "", 1, "L", false, 0, "")
	} else {
		var alertRows [][]string
		for i, a := range active {
			if i >= MaxRows {
				break
			}
			id := a.ID
			if len(id) > 8 {
				id = id[:8] + "..."
			}
			alertRows = append(alertRows, []string{
				id,
				a.Type,
				a.Severity,
				valueOr(a.Location, "Unknown"),
				a.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		table(pdf, tr, []float64{28, 24, 24, 80, 40},
			[]string{"Alert ID", "Type", "Severity", "Location", "Created"}, alertRows)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func table(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, header []string, rows [][]string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func valueOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func nonEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
