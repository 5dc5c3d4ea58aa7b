package printing

import "sync"

// LineItem is one row of the delivery-note quantities table.
type LineItem struct {
	PartNumber  *string `json:"partNumber,omitempty"`
	Description *string `json:"description,omitempty"`
	Qty         *int    `json:"qty,omitempty"`
	UOM         *string `json:"uom,omitempty"`
	Condition   *string `json:"condition,omitempty"`
}

// DriverRow is one row of the drivers box on the note.
type DriverRow struct {
	Name  *string `json:"name,omitempty"`
	Truck *string `json:"truck,omitempty"`
	Qty   *int    `json:"qty,omitempty"`
}

// TemplatePayload is the flat field set the print surface renders.
// A nil field is absent and leaves the layout default in place.
type TemplatePayload struct {
	DNNumber       *string `json:"dnNumber,omitempty"`
	DNDate         *string `json:"dnDate,omitempty"`
	OutboundNumber *string `json:"outboundNumber,omitempty"`
	Invoice        *string `json:"invoice,omitempty"`
	CustomerPO     *string `json:"customerPo,omitempty"`
	GappPO         *string `json:"gappPo,omitempty"`

	CustomerDisplayName *string `json:"customerDisplayName,omitempty"`
	Address             *string `json:"address,omitempty"`
	GoogleLocation      *string `json:"googleLocation,omitempty"`
	Receiver1Name       *string `json:"receiver1Name,omitempty"`
	Receiver1Phone      *string `json:"receiver1Phone,omitempty"`
	Receiver2Name       *string `json:"receiver2Name,omitempty"`
	Receiver2Phone      *string `json:"receiver2Phone,omitempty"`
	Carrier             *string `json:"carrier,omitempty"`
	DriverName          *string `json:"driverName,omitempty"`
	DriverMobile        *string `json:"driverMobile,omitempty"`
	TruckType           *string `json:"truckType,omitempty"`

	Quantities []LineItem  `json:"quantities,omitempty"`
	Drivers    []DriverRow `json:"drivers,omitempty"`
	TotalCases *int        `json:"totalCases,omitempty"`
	Pallets    *int        `json:"pallets,omitempty"`

	PreparedBy   *string `json:"preparedBy,omitempty"`
	PreparedDate *string `json:"preparedDate,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// DraftPreview is what the delivery-note form stages before opening the print page.
type DraftPreview struct {
	ID             *int64 `json:"id,omitempty"`
	DNNumber       string `json:"dnNumber"`
	OutboundNumber string `json:"outboundNumber"`
	DateCreated    string `json:"dateCreated"`
	Customer       *struct {
		Name             string `json:"name,omitempty"`
		Address          string `json:"address,omitempty"`
		LocationText     string `json:"locationText,omitempty"`
		GoogleLocation   string `json:"googleLocation,omitempty"`
		Receiver1Name    string `json:"receiver1Name,omitempty"`
		Receiver1Contact string `json:"receiver1Contact,omitempty"`
		Receiver2Name    string `json:"receiver2Name,omitempty"`
		Receiver2Contact string `json:"receiver2Contact,omitempty"`
	} `json:"customer,omitempty"`
	Transporter *struct {
		CompanyName string `json:"companyName,omitempty"`
		ContactName string `json:"contactName,omitempty"`
	} `json:"transporter,omitempty"`
	Driver *struct {
		DriverName   string `json:"driverName,omitempty"`
		DriverNumber string `json:"driverNumber,omitempty"`
	} `json:"driver,omitempty"`
	TruckType  string          `json:"truckType,omitempty"`
	Quantities []DraftQuantity `json:"quantities,omitempty"`
	Status     string          `json:"status,omitempty"`
}

type DraftQuantity struct {
	Description string `json:"description,omitempty"`
	Quantity    *int   `json:"quantity,omitempty"`
}

// PrintStatus is what the host page shows about the sources behind the note.
type PrintStatus struct {
	SourceLabel string `json:"sourceLabel"`
	Warning     string `json:"warning,omitempty"`
	Pending     bool   `json:"pending"`
}

// PrintSession is the metadata kept next to a print page's surface bridge.
type PrintSession struct {
	DeliveryNoteID *int64
	OrderID        *int64
	UserID         int64
	PreparedBy     string

	mu     sync.Mutex
	status PrintStatus
}

// Status returns the latest source status.
func (s *PrintSession) Status() PrintStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// setStatus records st unless a settled status is already held; a slow
// render-time snapshot must not overwrite the final one.
func (s *PrintSession) setStatus(st PrintStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.Pending && s.status.SourceLabel != "" && !s.status.Pending {
		return
	}
	s.status = st
}
