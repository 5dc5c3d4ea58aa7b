package printing

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"godam/infrastructure/backend"
)

func s(v string) *string { return &v }
func n(v int) *int       { return &v }

func TestFromDraftPreviewNil(t *testing.T) {
	if diff := cmp.Diff(TemplatePayload{}, FromDraftPreview(nil, "ali")); diff != "" {
		t.Fatalf("expected empty partial (-want +got):\n%s", diff)
	}
}

func TestFromDraftPreviewLinesAndTotals(t *testing.T) {
	var draft DraftPreview
	if err := jsonUnmarshal(`{
		"dnNumber": "DN-7", "outboundNumber": "OB-7", "dateCreated": "2024-01-05T09:00:00Z",
		"customer": {"name": "Acme", "address": "Street 1", "receiver1Name": "Sara", "receiver1Contact": "555"},
		"transporter": {"companyName": "FastTrans"},
		"driver": {"driverName": "Omar", "driverNumber": "777"},
		"truckType": "Flatbed",
		"quantities": [{"description": "Tiles", "quantity": 3}, {"description": "Grout", "quantity": 2}]
	}`, &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}

	got := FromDraftPreview(&draft, "ali")
	want := TemplatePayload{
		DNNumber:            s("DN-7"),
		OutboundNumber:      s("OB-7"),
		CustomerDisplayName: s("Acme"),
		Address:             s("Street 1"),
		Receiver1Name:       s("Sara"),
		Receiver1Phone:      s("555"),
		Carrier:             s("FastTrans"),
		DriverName:          s("Omar"),
		DriverMobile:        s("777"),
		TruckType:           s("Flatbed"),
		Quantities: []LineItem{
			{PartNumber: s("PREV-1"), Description: s("Tiles"), Qty: n(3), UOM: s("EA"), Condition: s("New")},
			{PartNumber: s("PREV-2"), Description: s("Grout"), Qty: n(2), UOM: s("EA"), Condition: s("New")},
		},
		Drivers:      []DriverRow{{Name: s("Omar"), Truck: s("Flatbed"), Qty: n(5)}},
		TotalCases:   n(5),
		PreparedBy:   s("ali"),
		PreparedDate: s("05 Jan 2024"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("draft mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDraftPreviewAddressFallsBackToLocationText(t *testing.T) {
	var draft DraftPreview
	if err := jsonUnmarshal(`{"customer": {"name": "Acme", "address": "  ", "locationText": "Gate 4, Jebel Ali"}}`, &draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	got := FromDraftPreview(&draft, "")
	if got.Address == nil || *got.Address != "Gate 4, Jebel Ali" {
		t.Fatalf("expected location text as address, got %v", got.Address)
	}

	draft.Customer.Address = "Street 1"
	if got := FromDraftPreview(&draft, ""); got.Address == nil || *got.Address != "Street 1" {
		t.Fatalf("expected address to win over location text, got %v", got.Address)
	}
}

func TestFromDraftPreviewTotalCases(t *testing.T) {
	empty := FromDraftPreview(&DraftPreview{Quantities: []DraftQuantity{}}, "")
	if empty.TotalCases != nil {
		t.Fatalf("expected no total for a draft without lines, got %d", *empty.TotalCases)
	}
	if empty.Quantities == nil || len(empty.Quantities) != 0 {
		t.Fatalf("expected an explicit empty line list")
	}

	zero := FromDraftPreview(&DraftPreview{Quantities: []DraftQuantity{{Description: "Sample", Quantity: n(0)}}}, "")
	if zero.TotalCases == nil || *zero.TotalCases != 0 {
		t.Fatalf("expected a genuine zero total to be kept, got %v", zero.TotalCases)
	}
}

func TestFromPersistedRecordSnapshotFirst(t *testing.T) {
	note := &backend.DeliveryNote{
		ID:              9,
		DNNumber:        "DN-9",
		CustomerName:    "Acme Corp",
		TransporterName: "Old Carrier LLC",
		DriverName:      "Yusuf",
		Customer:        &backend.CustomerRef{Name: "Acme Corp Ltd", LocationText: "Warehouse Rd", GoogleLocation: "https://maps/x"},
		Transporter:     &backend.TransporterRef{CompanyName: "New Carrier LLC"},
		Driver:          &backend.DriverRef{DriverName: "Someone Else", DriverNumber: "999", TruckNo: "TR-1"},
	}
	got := FromPersistedRecord(note, "fallback")

	checks := []struct {
		field string
		got   *string
		want  string
	}{
		{"customerDisplayName", got.CustomerDisplayName, "Acme Corp"},
		{"address", got.Address, "Warehouse Rd"},
		{"googleLocation", got.GoogleLocation, "https://maps/x"},
		{"carrier", got.Carrier, "Old Carrier LLC"},
		{"driverName", got.DriverName, "Yusuf"},
		{"driverMobile", got.DriverMobile, "999"},
		{"truckType", got.TruckType, "TR-1"},
		{"preparedBy", got.PreparedBy, "fallback"},
	}
	for _, c := range checks {
		if c.got == nil || *c.got != c.want {
			t.Fatalf("%s: want %q, got %v", c.field, c.want, c.got)
		}
	}

	note.CustomerName = "  "
	if got := FromPersistedRecord(note, ""); got.CustomerDisplayName == nil || *got.CustomerDisplayName != "Acme Corp Ltd" {
		t.Fatalf("expected fallback to linked customer, got %v", got.CustomerDisplayName)
	}
}

func TestFromPersistedRecordLinesAndDates(t *testing.T) {
	note := &backend.DeliveryNote{
		PreparedBy: "clerk",
		CreatedAt:  "2024-02-01T10:00:00Z",
		Quantities: []backend.NoteQuantity{{Description: "Tiles", Quantity: n(4)}, {Quantity: n(1)}},
	}
	got := FromPersistedRecord(note, "fallback")

	wantLines := []LineItem{
		{PartNumber: s("API-1"), Description: s("Tiles"), Qty: n(4), UOM: s("EA"), Condition: s("New")},
		{Qty: n(1), UOM: s("EA"), Condition: s("New")},
	}
	if diff := cmp.Diff(wantLines, got.Quantities); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if *got.TotalCases != 5 || *got.PreparedBy != "clerk" {
		t.Fatalf("unexpected totals/preparedBy: %d %s", *got.TotalCases, *got.PreparedBy)
	}
	if *got.PreparedDate != "01 Feb 2024" || *got.DNDate != "01 Feb 2024" {
		t.Fatalf("expected dates from createdAt, got %s / %s", *got.PreparedDate, *got.DNDate)
	}
}

func TestFromOutboundOrder(t *testing.T) {
	got := FromOutboundOrder(&backend.OutboundInfo{
		OrderID:      3,
		GappPO:       s("G-1"),
		CustomerPO:   nil,
		CustomerName: s("Acme"),
	})
	want := TemplatePayload{GappPO: s("G-1"), CustomerDisplayName: s("Acme")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("outbound mapping mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(TemplatePayload{}, FromOutboundOrder(nil)); diff != "" {
		t.Fatalf("expected empty partial for nil outbound")
	}
}

func TestMapLinksAcceptOnlyWebURLs(t *testing.T) {
	tests := []struct {
		link string
		want *string
	}{
		{"https://maps.google.com/?q=25.2,55.3", s("https://maps.google.com/?q=25.2,55.3")},
		{"  HTTP://maps.example/x  ", s("HTTP://maps.example/x")},
		{"javascript:alert(document.cookie)", nil},
		{"JavaScript://maps.example/%0Aalert(1)", nil},
		{"data:text/html,<script>alert(1)</script>", nil},
		{"//maps.example/x", nil},
		{"Warehouse Rd 4", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			var draft DraftPreview
			raw := `{"customer": {"name": "Acme", "googleLocation": ` + jsonQuote(tt.link) + `}}`
			if err := jsonUnmarshal(raw, &draft); err != nil {
				t.Fatalf("decode draft: %v", err)
			}
			if diff := cmp.Diff(tt.want, FromDraftPreview(&draft, "ali").GoogleLocation); diff != "" {
				t.Fatalf("draft link mismatch (-want +got):\n%s", diff)
			}

			note := &backend.DeliveryNote{ID: 1, GoogleMapLink: tt.link}
			if diff := cmp.Diff(tt.want, FromPersistedRecord(note, "ali").GoogleLocation); diff != "" {
				t.Fatalf("record link mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPersistedMapLinkFallsBackPastUnsafeSnapshot(t *testing.T) {
	note := &backend.DeliveryNote{
		ID:            2,
		GoogleMapLink: "javascript:alert(1)",
		Customer:      &backend.CustomerRef{GoogleLocation: "https://maps.example/acme"},
	}
	if diff := cmp.Diff(s("https://maps.example/acme"), FromPersistedRecord(note, "").GoogleLocation); diff != "" {
		t.Fatalf("link mismatch (-want +got):\n%s", diff)
	}
}
