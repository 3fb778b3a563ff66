package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	lendingmodel "library-backend/internal/domains/lending/model"
	"library-backend/internal/shared/utils"
)

const overdueSheet = "Overdue"

var overdueHeaders = []string{
	"Record ID",
	"Book",
	"Author",
	"Member",
	"University ID",
	"Issue Date",
	"Due Date",
	"Days Overdue",
	"Current Fine",
}

func buildOverdueExcelFile(records []lendingmodel.RecordResponse, asOf time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	// Rename default sheet
	if err := f.SetSheetName("Sheet1", overdueSheet); err != nil {
		return nil, err
	}

	for colIdx, header := range overdueHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(overdueSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(overdueHeaders), 1)
		_ = f.SetCellStyle(overdueSheet, "A1", lastHeader, headerStyle)
	}

	total := decimal.Zero
	for i, r := range records {
		rowNum := i + 2
		fine := decimal.Zero
		if r.CurrentFine != nil {
			fine = decimal.RequireFromString(*r.CurrentFine)
		}
		total = total.Add(fine)

		values := []any{
			r.ID,
			r.BookTitle,
			r.BookAuthor,
			r.MemberName,
			utils.StringValue(r.MemberUniversityID),
			r.IssueDate,
			r.DueDate,
			r.DaysOverdue,
			fine.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(overdueSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Dòng tổng cuối bảng
	footerRow := len(records) + 3
	labelCell, _ := excelize.CoordinatesToCellName(1, footerRow)
	totalCell, _ := excelize.CoordinatesToCellName(len(overdueHeaders), footerRow)
	_ = f.SetCellValue(overdueSheet, labelCell, "Total pending fines as of "+asOf.Format(time.DateOnly))
	_ = f.SetCellValue(overdueSheet, totalCell, total.InexactFloat64())

	_ = f.SetColWidth(overdueSheet, "B", "D", 28)

	return f, nil
}
