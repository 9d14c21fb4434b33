// Package export renders booking snapshots as xlsx workbooks for offline use.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"shareit/internal/models"
)

const sheetName = "Bookings"

var headers = []string{"ID", "Item ID", "Booker ID", "Start", "End", "Status", "Created"}

// WriteBookingsXLSX writes one row per booking, newest created first is the
// caller's concern; rows are written in the given order.
func WriteBookingsXLSX(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	for i, b := range bookings {
		row := []any{
			b.ID,
			b.ItemID,
			b.BookerID,
			b.Start.Format(time.RFC3339),
			b.End.Format(time.RFC3339),
			b.Status,
			b.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
