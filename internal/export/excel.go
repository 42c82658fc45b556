package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eventhorizon/internal/domain"
	"eventhorizon/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes a vendor-by-date schedule grid: vendors down the
// rows, dates across the columns, bookings in the cells.
type ExcelExporter struct {
	store  domain.Store
	path   string
	logger zerolog.Logger
}

func NewExcelExporter(store domain.Store, path string, logger zerolog.Logger) *ExcelExporter {
	return &ExcelExporter{
		store:  store,
		path:   path,
		logger: logger,
	}
}

// ExportSchedule renders bookings between startDate and endDate
// (inclusive, YYYY-MM-DD) and returns the written file path.
func (e *ExcelExporter) ExportSchedule(ctx context.Context, startDate, endDate string) (string, error) {
	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return "", fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return "", fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return "", fmt.Errorf("end date %s before start date %s", endDate, startDate)
	}

	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	vendors, err := e.store.ListVendors(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting vendors: %w", err)
	}
	bookings, err := e.store.ListBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s", startDate, endDate))

	dateCols := e.writeDateHeaders(f, sheetName, start, end)
	e.writeVendorRows(f, sheetName, vendors)
	e.writeBookingCells(f, sheetName, vendors, bookings, dateCols)

	_ = f.SetColWidth(sheetName, "A", "A", 25)
	if len(dateCols) > 0 {
		lastCol, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
		_ = f.SetColWidth(sheetName, "B", lastCol, 20)
		_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx", startDate, endDate)
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}

func (e *ExcelExporter) writeDateHeaders(f *excelize.File, sheetName string, start, end time.Time) map[string]int {
	col := 2
	dateCols := make(map[string]int)

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, d.Format("02.01"))
		_ = f.SetCellStyle(sheetName, cell, cell, style)
		dateCols[d.Format(models.DateLayout)] = col
		col++
	}
	return dateCols
}

func (e *ExcelExporter) writeVendorRows(f *excelize.File, sheetName string, vendors []*models.VendorProfile) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, v := range vendors {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (%s)", v.Name, v.Role))
		_ = f.SetCellStyle(sheetName, cell, cell, style)
		row++
	}
}

func (e *ExcelExporter) writeBookingCells(f *excelize.File, sheetName string,
	vendors []*models.VendorProfile, bookings []*models.Booking, dateCols map[string]int) {
	vendorRows := make(map[string]int, len(vendors))
	for i, v := range vendors {
		vendorRows[v.ID] = 3 + i
	}

	cells := make(map[string][]string)
	for _, b := range bookings {
		if !b.Active() {
			continue
		}
		row, okRow := vendorRows[b.VendorID]
		col, okCol := dateCols[b.Date]
		if !okRow || !okCol {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, row)
		cells[cell] = append(cells[cell], fmt.Sprintf("%s %s (%s)", b.Time, b.ClientName, b.Status))
	}

	for cell, entries := range cells {
		_ = f.SetCellValue(sheetName, cell, strings.Join(entries, "\n"))
	}

	// Blocked dates shade the whole cell.
	blockedStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})
	for _, v := range vendors {
		row := vendorRows[v.ID]
		for _, date := range v.BlockedDates {
			col, ok := dateCols[date]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, models.BlockedEventTitle)
			_ = f.SetCellStyle(sheetName, cell, cell, blockedStyle)
		}
	}
}
