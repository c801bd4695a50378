package sitemap

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/siteplan/internal/model"
)

// XLSXOptions configures spreadsheet import.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ParseXLSX reads an XLSX workbook and converts its rows through the same
// row-to-record conversion as the delimited-text parser, so spreadsheet and
// CSV/TSV imports behave identically: header skipped, short rows dropped,
// ErrNoValidRows when nothing usable remains.
func ParseXLSX(path string, opts XLSXOptions) ([]model.PageRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sitemap: open xlsx")
	}

	sheet, err := xlsxSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var records []model.PageRecord
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rec, convErr := recordFromRow(cells, i == 0)
		if convErr != nil {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoValidRows
	}
	return records, nil
}

func xlsxSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("sitemap: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex < 0 || opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("sitemap: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}
