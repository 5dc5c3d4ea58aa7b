package printing

import (
	"fmt"

	"godam/infrastructure/backend"
)

const (
	defaultUOM       = "EA"
	defaultCondition = "New"
)

// FromDraftPreview maps a staged draft. Drafts carry no part numbers, so each
// line gets a PREV-n placeholder.
func FromDraftPreview(draft *DraftPreview, preparedBy string) TemplatePayload {
	if draft == nil {
		return TemplatePayload{}
	}
	p := TemplatePayload{
		DNNumber:       text(draft.DNNumber),
		OutboundNumber: text(draft.OutboundNumber),
		TruckType:      text(draft.TruckType),
		Status:         text(draft.Status),
		PreparedBy:     text(preparedBy),
		PreparedDate:   FormatDisplayDateP(draft.DateCreated),
	}
	if c := draft.Customer; c != nil {
		p.CustomerDisplayName = text(c.Name)
		p.Address = firstText(c.Address, c.LocationText)
		p.GoogleLocation = mapLink(c.GoogleLocation)
		p.Receiver1Name = text(c.Receiver1Name)
		p.Receiver1Phone = text(c.Receiver1Contact)
		p.Receiver2Name = text(c.Receiver2Name)
		p.Receiver2Phone = text(c.Receiver2Contact)
	}
	if t := draft.Transporter; t != nil {
		p.Carrier = text(t.CompanyName)
	}
	var driverName string
	if d := draft.Driver; d != nil {
		driverName = d.DriverName
		p.DriverName = text(d.DriverName)
		p.DriverMobile = text(d.DriverNumber)
	}

	if draft.Quantities != nil {
		lines := make([]LineItem, 0, len(draft.Quantities))
		for i, q := range draft.Quantities {
			lines = append(lines, LineItem{
				PartNumber:  text(fmt.Sprintf("PREV-%d", i+1)),
				Description: text(q.Description),
				Qty:         q.Quantity,
				UOM:         text(defaultUOM),
				Condition:   text(defaultCondition),
			})
		}
		p.Quantities = lines
	}
	p.TotalCases = totalCases(len(draft.Quantities), func(i int) *int { return draft.Quantities[i].Quantity })
	p.Drivers = []DriverRow{{Name: text(driverName), Truck: text(draft.TruckType), Qty: p.TotalCases}}
	return p
}

// FromPersistedRecord maps a saved delivery note. Party fields prefer the
// note's creation-time snapshot over the linked master record.
func FromPersistedRecord(note *backend.DeliveryNote, preparedBy string) TemplatePayload {
	if note == nil {
		return TemplatePayload{}
	}
	var (
		cust  backend.CustomerRef
		trans backend.TransporterRef
		drv   backend.DriverRef
	)
	if note.Customer != nil {
		cust = *note.Customer
	}
	if note.Transporter != nil {
		trans = *note.Transporter
	}
	if note.Driver != nil {
		drv = *note.Driver
	}

	p := TemplatePayload{
		DNNumber:            text(note.DNNumber),
		OutboundNumber:      text(note.OutboundNumber),
		Invoice:             text(note.InvoiceNumber),
		CustomerPO:          text(note.CustomerPO),
		GappPO:              text(note.GappPO),
		Status:              text(note.Status),
		CustomerDisplayName: firstText(note.CustomerName, cust.Name),
		Address:             firstText(note.Address, cust.LocationText),
		GoogleLocation:      mapLink(note.GoogleMapLink, cust.GoogleLocation),
		Receiver1Name:       text(cust.Receiver1Name),
		Receiver1Phone:      firstText(note.CustomerPhone, cust.Receiver1Contact),
		Receiver2Name:       text(cust.Receiver2Name),
		Receiver2Phone:      text(cust.Receiver2Contact),
		Carrier:             firstText(note.TransporterName, trans.CompanyName),
		DriverName:          firstText(note.DriverName, drv.DriverName),
		DriverMobile:        firstText(note.DriverPhone, drv.DriverNumber),
		TruckType:           firstText(note.TruckType, drv.TruckNo),
		PreparedBy:          firstText(note.PreparedBy, preparedBy),
		DNDate:              FormatDisplayDateP(note.DNDate),
		PreparedDate:        FormatDisplayDateP(note.CreatedAt),
	}
	if p.DNDate == nil {
		p.DNDate = p.PreparedDate
	}

	if note.Quantities != nil {
		lines := make([]LineItem, 0, len(note.Quantities))
		for i, q := range note.Quantities {
			item := LineItem{
				Description: text(q.Description),
				Qty:         q.Quantity,
				UOM:         text(defaultUOM),
				Condition:   text(defaultCondition),
			}
			if item.Description != nil {
				item.PartNumber = text(fmt.Sprintf("API-%d", i+1))
			}
			lines = append(lines, item)
		}
		p.Quantities = lines
	}
	p.TotalCases = totalCases(len(note.Quantities), func(i int) *int { return note.Quantities[i].Quantity })
	p.Drivers = []DriverRow{{Name: p.DriverName, Truck: p.TruckType, Qty: p.TotalCases}}
	return p
}

// FromOutboundOrder contributes PO numbers and the customer name only.
func FromOutboundOrder(info *backend.OutboundInfo) TemplatePayload {
	if info == nil {
		return TemplatePayload{}
	}
	return TemplatePayload{
		GappPO:              optText(info.GappPO),
		CustomerPO:          optText(info.CustomerPO),
		CustomerDisplayName: optText(info.CustomerName),
	}
}

// totalCases sums line quantities. It is absent only when there are no lines;
// a real zero total is kept.
func totalCases(n int, qty func(int) *int) *int {
	if n == 0 {
		return nil
	}
	sum := 0
	for i := 0; i < n; i++ {
		if q := qty(i); q != nil {
			sum += *q
		}
	}
	return intPtr(sum)
}

func optText(s *string) *string {
	if s == nil {
		return nil
	}
	return text(*s)
}
