package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// BuildXLSX writes the workbook companion to the PDF/PPTX reports:
// a Summary sheet, the top-N items, and the resampled time series.
func BuildXLSX(ctx *Context, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E86AB"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, ctx, summary, headerStyle); err != nil {
		return err
	}
	if err := writeTopItemsSheet(f, ctx, headerStyle); err != nil {
		return err
	}
	if err := writeTimeSeriesSheet(f, ctx, headerStyle); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write XLSX %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, ctx *Context, sheet string, headerStyle int) error {
	f.SetCellValue(sheet, "A1", ctx.Title)
	f.SetCellValue(sheet, "A2", "Generated: "+ctx.GeneratedAt.Format("02.01.2006 15:04"))

	rows := [][2]any{
		{"Total sales", ctx.Metrics.TotalSales},
		{"Average ticket", ctx.Metrics.AvgTicket},
		{"Total orders", ctx.Metrics.TotalOrders},
		{"Group column", ctx.Metrics.GroupColumn},
		{"Granularity", ctx.Metrics.Granularity},
	}
	f.SetCellValue(sheet, "A4", "Metric")
	f.SetCellValue(sheet, "B4", "Value")
	f.SetCellStyle(sheet, "A4", "B4", headerStyle)
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+5), row[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+5), row[1])
	}
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func writeTopItemsSheet(f *excelize.File, ctx *Context, headerStyle int) error {
	const sheet = "Top Items"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	f.SetCellValue(sheet, "A1", "Rank")
	f.SetCellValue(sheet, "B1", "Item")
	f.SetCellValue(sheet, "C1", "Amount")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	for i, item := range ctx.Metrics.TopItems {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Amount)
	}
	f.SetColWidth(sheet, "B", "B", 32)
	f.SetColWidth(sheet, "C", "C", 16)
	return nil
}

func writeTimeSeriesSheet(f *excelize.File, ctx *Context, headerStyle int) error {
	const sheet = "Time Series"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	f.SetCellValue(sheet, "A1", "Bucket")
	f.SetCellValue(sheet, "B1", "Sales")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	for i, pt := range ctx.Metrics.TimeSeries {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), pt.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), pt.Amount)
	}
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 16)
	return nil
}
