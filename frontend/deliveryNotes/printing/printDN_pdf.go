package printing

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

const pdfPlaceholder = "-"

func val(p *string) string {
	if p == nil {
		return pdfPlaceholder
	}
	return *p
}

func num(p *int) string {
	if p == nil {
		return pdfPlaceholder
	}
	return strconv.Itoa(*p)
}

// RenderDeliveryNotePDF lays out a merged payload as a one-or-more page A4 note.
func RenderDeliveryNotePDF(p TemplatePayload) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Delivery Note "+val(p.DNNumber), false)
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 18)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(contentW/2, 12, "DELIVERY NOTE", "", 0, "L", false, 0, "")

	if p.DNNumber != nil {
		barcodePNG, err := renderCode128PNG(*p.DNNumber, 900, 180)
		if err != nil {
			return nil, fmt.Errorf("dn barcode %q: %w", *p.DNNumber, err)
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("dn-barcode", opt, bytes.NewReader(barcodePNG))
		pdf.ImageOptions("dn-barcode", pageW-12-70, 10, 70, 14, false, opt, 0, "")
	}
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(val(p.DNNumber)), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	info := [][2]string{
		{"DN Number", val(p.DNNumber)}, {"DN Date", val(p.DNDate)},
		{"Outbound", val(p.OutboundNumber)}, {"Invoice", val(p.Invoice)},
		{"Customer PO", val(p.CustomerPO)}, {"GAPP PO", val(p.GappPO)},
		{"Customer", val(p.CustomerDisplayName)}, {"Status", val(p.Status)},
		{"Address", val(p.Address)}, {"Location", val(p.GoogleLocation)},
		{"Receiver 1", joinParty(p.Receiver1Name, p.Receiver1Phone)},
		{"Receiver 2", joinParty(p.Receiver2Name, p.Receiver2Phone)},
		{"Carrier", val(p.Carrier)}, {"Truck", val(p.TruckType)},
		{"Driver", val(p.DriverName)}, {"Driver Mobile", val(p.DriverMobile)},
	}
	labelW, valueW := 28.0, contentW/2-28
	for i := 0; i < len(info); i += 2 {
		for j := i; j < i+2 && j < len(info); j++ {
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(labelW, 7, info[j][0], "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(valueW, 7, tr(truncate(info[j][1], 48)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	cols := []struct {
		title string
		w     float64
		align string
	}{
		{"#", 10, "C"}, {"Part Number", 32, "L"}, {"Description", contentW - 10 - 32 - 18 - 16 - 24, "L"},
		{"Qty", 18, "R"}, {"UOM", 16, "C"}, {"Condition", 24, "C"},
	}
	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 234, 242)
		for _, c := range cols {
			pdf.CellFormat(c.w, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()
	if len(p.Quantities) == 0 {
		pdf.CellFormat(contentW, 7, "No line items", "1", 1, "C", false, 0, "")
	}
	for i, line := range p.Quantities {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		row := []string{
			strconv.Itoa(i + 1), val(line.PartNumber), truncate(val(line.Description), 60),
			num(line.Qty), val(line.UOM), val(line.Condition),
		}
		for k, c := range cols {
			pdf.CellFormat(c.w, 7, tr(row[k]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pallets := 0
	if p.Pallets != nil {
		pallets = *p.Pallets
	}
	pdf.CellFormat(contentW/2, 7, "Total Cases: "+num(p.TotalCases), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 7, "Pallets: "+strconv.Itoa(pallets), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	boxW := contentW / 3
	for _, title := range []string{"Prepared By", "Driver Signature", "Received By"} {
		pdf.CellFormat(boxW, 6, title, "LTR", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	for _, v := range []string{val(p.PreparedBy), val(p.DriverName), ""} {
		pdf.CellFormat(boxW, 14, tr(v), "LR", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	for _, v := range []string{"Date: " + val(p.PreparedDate), "", "Date:"} {
		pdf.CellFormat(boxW, 6, v, "LBR", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func joinParty(name, phone *string) string {
	parts := make([]string, 0, 2)
	if name != nil {
		parts = append(parts, *name)
	}
	if phone != nil {
		parts = append(parts, *phone)
	}
	if len(parts) == 0 {
		return pdfPlaceholder
	}
	return strings.Join(parts, " / ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	bounds := scaled.Bounds()
	rgba := image.NewNRGBA(bounds)
	draw.Draw(rgba, bounds, scaled, bounds.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
