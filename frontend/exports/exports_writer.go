package exports

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"godam/frontend/deliveryNotes/printing"
	"godam/frontend/orders/progress"
)

var lineHeader = []string{"line", "part_number", "description", "qty", "uom", "condition"}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func lineRecords(p printing.TemplatePayload) [][]string {
	out := make([][]string, 0, len(p.Quantities))
	for i, l := range p.Quantities {
		qty := ""
		if l.Qty != nil {
			qty = strconv.Itoa(*l.Qty)
		}
		out = append(out, []string{strconv.Itoa(i + 1), deref(l.PartNumber), deref(l.Description), qty, deref(l.UOM), deref(l.Condition)})
	}
	return out
}

func writeLinesCSV(w io.Writer, p printing.TemplatePayload) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{"dn_number"}, lineHeader...)); err != nil {
		return err
	}
	dn := deref(p.DNNumber)
	for _, rec := range lineRecords(p) {
		if err := writer.Write(append([]string{dn}, rec...)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func newWorkbook(sheet string) (*excelize.File, int, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
	})
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, bold, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func writeLinesXLSX(w io.Writer, p printing.TemplatePayload) error {
	const sheet = "Delivery Note"
	f, bold, err := newWorkbook(sheet)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info := [][]any{
		{"DN Number", deref(p.DNNumber)},
		{"DN Date", deref(p.DNDate)},
		{"Outbound", deref(p.OutboundNumber)},
		{"Customer", deref(p.CustomerDisplayName)},
		{"Customer PO", deref(p.CustomerPO)},
		{"GAPP PO", deref(p.GappPO)},
		{"Prepared By", deref(p.PreparedBy)},
	}
	row := 1
	for _, r := range info {
		if err := setRow(f, sheet, row, r); err != nil {
			return err
		}
		row++
	}
	row++

	header := make([]any, len(lineHeader))
	for i, h := range lineHeader {
		header[i] = h
	}
	if err := setRow(f, sheet, row, header); err != nil {
		return err
	}
	if err := styleRow(f, sheet, row, len(header), bold); err != nil {
		return err
	}
	row++
	for i, l := range p.Quantities {
		var qty any = ""
		if l.Qty != nil {
			qty = *l.Qty
		}
		if err := setRow(f, sheet, row, []any{i + 1, deref(l.PartNumber), deref(l.Description), qty, deref(l.UOM), deref(l.Condition)}); err != nil {
			return err
		}
		row++
	}
	if p.TotalCases != nil {
		if err := setRow(f, sheet, row, []any{"", "", "Total cases", *p.TotalCases}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "B", "C", 30); err != nil {
		return err
	}
	return f.Write(w)
}

func writeProgressXLSX(w io.Writer, outbound string, rows []progress.Row) error {
	const sheet = "Progress"
	f, bold, err := newWorkbook(sheet)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	header := []any{"outbound_number", "part_number", "description", "stage", "stage_name"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	if err := styleRow(f, sheet, 1, len(header), bold); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, []any{outbound, r.PartNumber, r.Description, r.Stage, progress.StageName(r.Stage)}); err != nil {
			return err
		}
	}
	return f.Write(w)
}
