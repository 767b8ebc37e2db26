package export

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

// writeSheet fills a single worksheet with a header row and data rows.
func writeSheet(sheet string, header []string, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, err
		}
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}
