// Package report renders attendance exports as Excel workbooks.
package report

import (
	"bytes"
	"fmt"
	"time"

	"wisefido-triage/internal/models"

	"github.com/xuri/excelize/v2"
)

const attendanceSheet = "Attendances"

// AttendanceExportHeader is the export's first row.
var AttendanceExportHeader = []string{
	"Ticket",
	"Created At",
	"Priority Level",
	"Color",
	"Attendance Type",
	"Patient ID",
	"Temperature",
	"Systolic Pressure",
	"Diastolic Pressure",
	"Weight",
	"Status",
	"Symptoms",
}

var attendanceColumnWidths = []float64{10, 20, 14, 10, 18, 38, 12, 16, 17, 10, 12, 10}

// colorFills paints the Color column with the wristband color.
var colorFills = map[models.ColorMarker]string{
	models.ColorRed:    "#FF4D4F",
	models.ColorOrange: "#FFA940",
	models.ColorYellow: "#FADB14",
	models.ColorGreen:  "#73D13D",
	models.ColorBlue:   "#40A9FF",
}

// GenerateAttendanceExport builds an xlsx with one row per attendance, in the
// given order. Times are written in loc.
func GenerateAttendanceExport(attendances []models.Attendance, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	// WriteTo needs the file open, so Close is called explicitly below.

	index, err := f.NewSheet(attendanceSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	colorStyles := make(map[models.ColorMarker]int, len(colorFills))
	for color, hex := range colorFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{hex}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s style: %w", color, err)
		}
		colorStyles[color] = id
	}

	for col, header := range AttendanceExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(attendanceSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(attendanceSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(attendanceSheet, name, name, attendanceColumnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i := range attendances {
		a := &attendances[i]
		row := i + 2
		color := a.Color()
		values := []any{
			a.Ticket.Token,
			a.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			int(a.PriorityLevel),
			string(color),
			a.AttendanceType,
			a.PatientID,
			a.Vitals.Temperature,
			a.Vitals.SystolicPressure,
			a.Vitals.DiastolicPressure,
			a.Vitals.Weight,
			string(a.Status),
			len(a.Symptoms),
		}

		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(attendanceSheet, start, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}

		colorCell, _ := excelize.CoordinatesToCellName(4, row)
		if err := f.SetCellStyle(attendanceSheet, colorCell, colorCell, colorStyles[color]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set color style: %w", err)
		}
	}

	if err := f.SetPanes(attendanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}
