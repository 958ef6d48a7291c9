package estimate

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "見積"

// WriteXLSX writes s as an Excel workbook. Amounts and totals are formulas
// so that prices edited in the workbook recalculate.
func WriteXLSX(w io.Writer, s *Sheet) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	x := &xlsxWriter{f: f, row: 1}
	x.set(1, s.Heading())
	x.row += 2
	for col, h := range header {
		x.set(col+1, h)
	}
	x.row++

	var totals []string
	for _, sec := range s.Sections {
		x.row++
		first := x.row
		for _, it := range sec.Items {
			x.item(it)
			x.row++
		}
		x.set(1, TotalLabel)
		total := x.cell(6)
		x.formula(6, fmt.Sprintf("SUM(%s:%s)", x.at(6, first), x.at(6, max(first, x.row-1))))
		totals = append(totals, total)
		x.row++
	}
	x.row++
	x.set(1, TotalLabel)
	sum := "0"
	if len(totals) > 0 {
		sum = totals[0]
		for _, t := range totals[1:] {
			sum += "+" + t
		}
	}
	x.formula(6, sum)

	for _, c := range []struct {
		col   string
		width float64
	}{{"A", 24}, {"B", 28}, {"C", 8}, {"D", 6}, {"E", 10}, {"F", 12}} {
		if err := f.SetColWidth(xlsxSheet, c.col, c.col, c.width); err != nil && x.err == nil {
			x.err = err
		}
	}
	if x.err != nil {
		return fmt.Errorf("xlsx: %w", x.err)
	}
	return f.Write(w)
}

// xlsxWriter fills one sheet row by row and keeps the first error.
type xlsxWriter struct {
	f   *excelize.File
	row int
	err error
}

func (x *xlsxWriter) at(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil && x.err == nil {
		x.err = err
	}
	return name
}

func (x *xlsxWriter) cell(col int) string { return x.at(col, x.row) }

func (x *xlsxWriter) set(col int, v any) {
	if err := x.f.SetCellValue(xlsxSheet, x.cell(col), v); err != nil && x.err == nil {
		x.err = err
	}
}

func (x *xlsxWriter) formula(col int, formula string) {
	if err := x.f.SetCellFormula(xlsxSheet, x.cell(col), formula); err != nil && x.err == nil {
		x.err = err
	}
}

func (x *xlsxWriter) item(it Item) {
	x.set(1, it.Name)
	x.set(2, it.Spec)
	x.set(3, it.Quantity)
	x.set(4, it.Unit)
	if it.Priced {
		x.set(5, it.UnitPrice)
		x.formula(6, fmt.Sprintf("%s*%s", x.cell(3), x.cell(5)))
	}
}
