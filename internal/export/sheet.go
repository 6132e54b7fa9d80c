package export

import (
	"fmt"

	"github.com/unidoc/unioffice/spreadsheet"

	"MovieScout/internal/ports"
)

// SheetExporter writes an .xlsx workbook with one sheet: a header row plus
// one row per movie, reusing the CSV column order.
type SheetExporter struct {
	Dir string
}

var _ ports.Exporter = (*SheetExporter)(nil)

func (e *SheetExporter) Name() string {
	return "xlsx"
}

func (e *SheetExporter) Export(result ports.Result) (string, error) {
	path, err := outputPath(e.Dir, result.Workflow, "xlsx")
	if err != nil {
		return "", err
	}

	wb := spreadsheet.New()
	defer wb.Close()

	sheet := wb.AddSheet()
	header := sheet.AddRow()
	for _, column := range csvHeader {
		header.AddCell().SetString(column)
	}

	for _, m := range result.Movies {
		if m == nil {
			continue
		}
		row := sheet.AddRow()
		for _, value := range movieRow(m) {
			row.AddCell().SetString(value)
		}
	}

	if err := wb.Validate(); err != nil {
		return "", fmt.Errorf("validate workbook: %w", err)
	}
	if err := wb.SaveToFile(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}
