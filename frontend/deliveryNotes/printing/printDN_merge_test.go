package printing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func jsonUnmarshal(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}

func jsonQuote(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestMergeLastNonNilWins(t *testing.T) {
	got := Merge(TemplatePayload{Carrier: s("Acme")}, TemplatePayload{Carrier: nil}, TemplatePayload{})
	if got.Carrier == nil || *got.Carrier != "Acme" {
		t.Fatalf("absent later value must not clear carrier, got %v", got.Carrier)
	}

	got = Merge(TemplatePayload{Carrier: s("Acme")}, TemplatePayload{Carrier: s("Beta")})
	if *got.Carrier != "Beta" {
		t.Fatalf("expected later carrier to win, got %s", *got.Carrier)
	}

	if diff := cmp.Diff(TemplatePayload{}, Merge()); diff != "" {
		t.Fatalf("expected empty merge result")
	}
}

func TestMergeIsPerField(t *testing.T) {
	got := Merge(
		TemplatePayload{DNNumber: s("DN-1"), Address: s("Old")},
		TemplatePayload{Address: s("New"), TotalCases: n(0)},
	)
	want := TemplatePayload{DNNumber: s("DN-1"), Address: s("New"), TotalCases: n(0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeReplacesSlicesWhole(t *testing.T) {
	first := []LineItem{{Description: s("a")}, {Description: s("b")}}
	second := []LineItem{{Description: s("c")}}

	got := Merge(TemplatePayload{Quantities: first}, TemplatePayload{Quantities: second})
	if diff := cmp.Diff(second, got.Quantities); diff != "" {
		t.Fatalf("expected wholesale replacement (-want +got):\n%s", diff)
	}

	got = Merge(TemplatePayload{Quantities: first}, TemplatePayload{})
	if len(got.Quantities) != 2 {
		t.Fatalf("nil slice must not clear lines")
	}

	got = Merge(TemplatePayload{Quantities: first}, TemplatePayload{Quantities: []LineItem{}})
	if got.Quantities == nil || len(got.Quantities) != 0 {
		t.Fatalf("an explicit empty list is a concrete value")
	}
}

func TestPrintPageMergeOrderPersistedWins(t *testing.T) {
	base := BasePayload("ali", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), time.UTC)
	draft := TemplatePayload{CustomerDisplayName: s("Draft Co"), Carrier: s("Draft Carrier")}
	outbound := TemplatePayload{CustomerDisplayName: s("Order Co"), GappPO: s("G-9")}
	persisted := TemplatePayload{CustomerDisplayName: s("Saved Co")}

	got := Merge(base, draft, outbound, persisted)
	if *got.CustomerDisplayName != "Saved Co" || *got.Carrier != "Draft Carrier" || *got.GappPO != "G-9" {
		t.Fatalf("unexpected merge result: %+v", got)
	}
	if *got.PreparedBy != "ali" || *got.PreparedDate != "01 May 2024" || *got.Pallets != 0 {
		t.Fatalf("base defaults lost: %+v", got)
	}
}
