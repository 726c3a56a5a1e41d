package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const conversionsSheet = "Conversions"

var conversionHeaders = []string{"ID", "User ID", "Chat ID", "Username", "Keyword", "URL", "Created at"}

// WriteConversionsXLSX renders conversions as a single-sheet workbook.
func WriteConversionsXLSX(w io.Writer, conversions []Conversion) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(conversionsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for col, header := range conversionHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(conversionsSheet, cell, header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(conversionsSheet, "A1", "G1", style)
	}

	for row, c := range conversions {
		values := []any{
			c.ID,
			c.UserID,
			c.ChatID,
			c.Username,
			c.Keyword,
			c.URL,
			c.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(conversionsSheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
