package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/datefmt"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"

	sheetName = "Attendance"
)

var headers = []string{"Employee", "Email", "Date", "Check In", "Check Out", "Duration"}

func row(a attendance.Attendance) []string {
	return []string{
		a.User.Name,
		a.User.Email,
		datefmt.Date(a.CheckInTime),
		datefmt.Time(a.CheckInTime),
		datefmt.OptionalTime(a.CheckOutTime),
		datefmt.Duration(a.Duration()),
	}
}

// AttendanceXLSX writes records as a single-sheet workbook.
func AttendanceXLSX(w io.Writer, records []attendance.Attendance) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for r, rec := range records {
		for c, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	if err := f.SetColWidth(sheetName, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "C", "F", 14); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// AttendancePDF writes records as an A4 landscape table under title.
func AttendancePDF(w io.Writer, title string, records []attendance.Attendance) error {
	widths := []float64{60, 70, 35, 25, 25, 30}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, rec := range records {
		for i, value := range row(rec) {
			pdf.CellFormat(widths[i], 7, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(records) == 0 {
		pdf.CellFormat(0, 7, "No attendance records", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
