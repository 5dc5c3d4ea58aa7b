package printing

import "time"

// Merge folds partials left to right. For every field the last non-nil value
// wins; slices are replaced whole, never concatenated.
func Merge(partials ...TemplatePayload) TemplatePayload {
	var out TemplatePayload
	for _, p := range partials {
		override(&out.DNNumber, p.DNNumber)
		override(&out.DNDate, p.DNDate)
		override(&out.OutboundNumber, p.OutboundNumber)
		override(&out.Invoice, p.Invoice)
		override(&out.CustomerPO, p.CustomerPO)
		override(&out.GappPO, p.GappPO)

		override(&out.CustomerDisplayName, p.CustomerDisplayName)
		override(&out.Address, p.Address)
		override(&out.GoogleLocation, p.GoogleLocation)
		override(&out.Receiver1Name, p.Receiver1Name)
		override(&out.Receiver1Phone, p.Receiver1Phone)
		override(&out.Receiver2Name, p.Receiver2Name)
		override(&out.Receiver2Phone, p.Receiver2Phone)
		override(&out.Carrier, p.Carrier)
		override(&out.DriverName, p.DriverName)
		override(&out.DriverMobile, p.DriverMobile)
		override(&out.TruckType, p.TruckType)

		if p.Quantities != nil {
			out.Quantities = p.Quantities
		}
		if p.Drivers != nil {
			out.Drivers = p.Drivers
		}
		override(&out.TotalCases, p.TotalCases)
		override(&out.Pallets, p.Pallets)

		override(&out.PreparedBy, p.PreparedBy)
		override(&out.PreparedDate, p.PreparedDate)
		override(&out.Status, p.Status)
	}
	return out
}

func override[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// BasePayload holds the defaults every print page starts from.
func BasePayload(preparedBy string, now time.Time, loc *time.Location) TemplatePayload {
	return TemplatePayload{
		PreparedBy:   text(preparedBy),
		PreparedDate: formatDay(now, loc),
		Pallets:      intPtr(0),
	}
}
