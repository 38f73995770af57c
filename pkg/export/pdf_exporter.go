package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/andhika-lab/uni-timetable-api/internal/models"
)

var dayOrder = map[string]int{
	"MONDAY":    1,
	"TUESDAY":   2,
	"WEDNESDAY": 3,
	"THURSDAY":  4,
	"FRIDAY":    5,
	"SATURDAY":  6,
	"SUNDAY":    7,
}

// PDFExporter renders a group's weekly timetable into a tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderGroupTimetable produces a PDF listing the group's entries ordered by
// day and start time.
func (e *PDFExporter) RenderGroupTimetable(groupName string, entries []models.TimetableEntry) ([]byte, error) {
	sorted := make([]models.TimetableEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if dayOrder[sorted[i].DayOfWeek] != dayOrder[sorted[j].DayOfWeek] {
			return dayOrder[sorted[i].DayOfWeek] < dayOrder[sorted[j].DayOfWeek]
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper("Timetable - "+groupName), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	headers := []string{"Day", "Start", "End", "Course", "Teacher", "Room"}
	widths := []float64{30, 18, 18, 62, 42, 20}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, entry := range sorted {
		cells := []string{
			entry.DayOfWeek,
			entry.StartTime.String(),
			entry.EndTime.String(),
			fmt.Sprintf("%s %s", entry.CourseCode, entry.CourseName),
			entry.TeacherName,
			entry.RoomNumber,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render timetable pdf: %w", err)
	}
	return buf.Bytes(), nil
}
