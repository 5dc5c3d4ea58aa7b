package backend

import "time"

// CustomerRef is the master customer linked to a delivery note.
type CustomerRef struct {
	Name             string `json:"name,omitempty"`
	LocationText     string `json:"locationText,omitempty"`
	GoogleLocation   string `json:"googleLocation,omitempty"`
	Receiver1Name    string `json:"receiver1Name,omitempty"`
	Receiver1Contact string `json:"receiver1Contact,omitempty"`
	Receiver2Name    string `json:"receiver2Name,omitempty"`
	Receiver2Contact string `json:"receiver2Contact,omitempty"`
}

type TransporterRef struct {
	CompanyName string `json:"companyName,omitempty"`
	ContactName string `json:"contactName,omitempty"`
}

type DriverRef struct {
	DriverName   string `json:"driverName,omitempty"`
	DriverNumber string `json:"driverNumber,omitempty"`
	TruckNo      string `json:"truckNo,omitempty"`
}

// NoteQuantity is one delivery-note line.
type NoteQuantity struct {
	Description string `json:"description,omitempty"`
	Quantity    *int   `json:"quantity,omitempty"`
}

// DeliveryNote is GET /api/delivery-note/{id}. The flat *Name/*Phone fields
// are snapshots taken when the note was created.
type DeliveryNote struct {
	ID             int64  `json:"id"`
	DNNumber       string `json:"dnNumber,omitempty"`
	OutboundNumber string `json:"outboundNumber,omitempty"`
	CustomerPO     string `json:"customerPo,omitempty"`
	GappPO         string `json:"gappPo,omitempty"`
	InvoiceNumber  string `json:"invoiceNumber,omitempty"`
	PreparedBy     string `json:"preparedBy,omitempty"`
	Status         string `json:"status,omitempty"`
	DNDate         string `json:"dnDate,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`

	CustomerName     string `json:"customerName,omitempty"`
	CustomerPhone    string `json:"customerPhone,omitempty"`
	Address          string `json:"address,omitempty"`
	GoogleMapLink    string `json:"googleMapLink,omitempty"`
	TransporterName  string `json:"transporterName,omitempty"`
	TransporterPhone string `json:"transporterPhone,omitempty"`
	DriverName       string `json:"driverName,omitempty"`
	DriverPhone      string `json:"driverPhone,omitempty"`
	TruckType        string `json:"truckType,omitempty"`

	Customer    *CustomerRef    `json:"customer,omitempty"`
	Transporter *TransporterRef `json:"transporter,omitempty"`
	Driver      *DriverRef      `json:"driver,omitempty"`

	Quantities []NoteQuantity `json:"quantities,omitempty"`
}

// OutboundInfo is GET /api/outbound/{orderId}.
type OutboundInfo struct {
	OrderID        int64    `json:"orderId,omitempty"`
	OutboundNumber string   `json:"outboundNumber,omitempty"`
	CustomerName   *string  `json:"customerName,omitempty"`
	GappPO         *string  `json:"gappPo,omitempty"`
	CustomerPO     *string  `json:"customerPo,omitempty"`
	ItemNumbers    []string `json:"itemNumbers,omitempty"`
}

// Movement is one row of GET /api/movements/{outboundNumber}.
type Movement struct {
	ID                      int64     `json:"id"`
	CreatedAt               time.Time `json:"createdAt"`
	PartNumber              string    `json:"partNumber"`
	Description             string    `json:"description"`
	MovementType            string    `json:"movementType"`
	MovementTypeDescription string    `json:"movementTypeDescription"`
	Qty                     int       `json:"qty"`
	Reference               string    `json:"reference"`
	User                    string    `json:"user"`
}

// PickEvent is one frame of the backend's live pick stream.
type PickEvent struct {
	OrderID        int64  `json:"orderId"`
	OutboundNumber string `json:"outboundNumber,omitempty"`
	PartNumber     string `json:"partNumber"`
	PickedQty      *int   `json:"pickedQty,omitempty"`
	Qty            *int   `json:"qty,omitempty"`
	PickedBy       string `json:"pickedBy,omitempty"`
	MovementType   string `json:"movementType,omitempty"`
}

// DefaultPickMovement is assumed for pick frames that carry no movement type.
const DefaultPickMovement = "O103"

// Quantity prefers pickedQty over qty.
func (e PickEvent) Quantity() int {
	switch {
	case e.PickedQty != nil:
		return *e.PickedQty
	case e.Qty != nil:
		return *e.Qty
	}
	return 0
}

// Movement returns the event's movement code, defaulting to a plain pick.
func (e PickEvent) Movement() string {
	if e.MovementType == "" {
		return DefaultPickMovement
	}
	return e.MovementType
}
