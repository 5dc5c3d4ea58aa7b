package printing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"godam/infrastructure/backend"
)

type fakeBackend struct {
	note        *backend.DeliveryNote
	noteErr     error
	noteDelay   time.Duration
	outbound    *backend.OutboundInfo
	outboundErr error
}

func (f *fakeBackend) GetDeliveryNote(ctx context.Context, id int64) (*backend.DeliveryNote, error) {
	if f.noteDelay > 0 {
		select {
		case <-time.After(f.noteDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.note, f.noteErr
}

func (f *fakeBackend) GetOutbound(context.Context, int64) (*backend.OutboundInfo, error) {
	return f.outbound, f.outboundErr
}

func TestAssemblerPersistedWinsRegardlessOfArrival(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	api := &fakeBackend{
		note:     &backend.DeliveryNote{ID: 1, CustomerName: "Saved Co"},
		outbound: &backend.OutboundInfo{CustomerName: s("Order Co"), GappPO: s("G-1")},
	}
	asm := NewAssembler(
		NewBaseSource("ali", time.Now(), time.UTC),
		NewOutboundPayloadSource(api, 5),
		NewPersistedPayloadSource(api, 1, "ali"),
	)

	var mu sync.Mutex
	var updates []TemplatePayload
	as := asm.Start(context.Background(), func(p TemplatePayload) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})
	snap := as.Wait(context.Background())

	if !snap.Complete || len(snap.Failures) != 0 {
		t.Fatalf("expected clean completion, got %+v", snap)
	}
	if *snap.Payload.CustomerDisplayName != "Saved Co" || *snap.Payload.GappPO != "G-1" {
		t.Fatalf("unexpected merged payload %+v", snap.Payload)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 3 {
		t.Fatalf("expected one update per source, got %d", len(updates))
	}
	last := updates[len(updates)-1]
	if *last.CustomerDisplayName != "Saved Co" {
		t.Fatalf("final delivery must carry persisted value, got %s", *last.CustomerDisplayName)
	}
}

func TestAssemblerFailureKeepsOtherSources(t *testing.T) {
	api := &fakeBackend{
		noteErr:  errors.New("backend down"),
		outbound: &backend.OutboundInfo{CustomerPO: s("C-7")},
	}
	snap := NewAssembler(
		NewBaseSource("ali", time.Now(), time.UTC),
		NewOutboundPayloadSource(api, 5),
		NewPersistedPayloadSource(api, 1, "ali"),
	).Start(context.Background(), nil).Wait(context.Background())

	if len(snap.Failures) != 1 || snap.Failures[0].Source != SourcePersisted {
		t.Fatalf("expected one persisted failure, got %+v", snap.Failures)
	}
	if snap.Payload.CustomerPO == nil || *snap.Payload.CustomerPO != "C-7" || *snap.Payload.PreparedBy != "ali" {
		t.Fatalf("expected partial merge to proceed, got %+v", snap.Payload)
	}
	if snap.Loaded[SourcePersisted] || !snap.Loaded[SourceOutbound] {
		t.Fatalf("unexpected loaded flags %v", snap.Loaded)
	}
}

func TestAssemblerLateResultIsRedelivered(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	api := &fakeBackend{note: &backend.DeliveryNote{DNNumber: "DN-LATE"}, noteDelay: 50 * time.Millisecond}
	delivered := make(chan TemplatePayload, 4)
	as := NewAssembler(
		NewBaseSource("ali", time.Now(), time.UTC),
		NewPersistedPayloadSource(api, 1, "ali"),
	).Start(context.Background(), func(p TemplatePayload) { delivered <- p })

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	snap := as.Wait(waitCtx)
	cancel()
	if snap.Complete {
		t.Fatalf("expected snapshot before the slow source settled")
	}

	<-as.Done()
	var last TemplatePayload
	for len(delivered) > 0 {
		last = <-delivered
	}
	if last.DNNumber == nil || *last.DNNumber != "DN-LATE" {
		t.Fatalf("expected late persisted result to be re-merged, got %+v", last)
	}
}

func TestMissingDraftIsNotAFailure(t *testing.T) {
	snap := NewAssembler(NewDraftPayloadSource(StaticDraft(nil), "ali")).
		Start(context.Background(), nil).Wait(context.Background())
	if len(snap.Failures) != 0 || snap.Loaded[SourceDraft] {
		t.Fatalf("absent draft must be silent, got %+v", snap)
	}
}

func TestSourceLabel(t *testing.T) {
	id, order := int64(12), int64(34)
	cases := []struct {
		name    string
		noteID  *int64
		orderID *int64
		loaded  map[string]bool
		want    string
	}{
		{"note", &id, &order, map[string]bool{SourcePersisted: true}, "Delivery note #12"},
		{"note failed", &id, &order, map[string]bool{}, "Order #34"},
		{"order", nil, &order, map[string]bool{SourceOutbound: true}, "Order #34"},
		{"draft", nil, nil, map[string]bool{SourceDraft: true}, "Draft preview (session)"},
		{"static", nil, nil, map[string]bool{}, "Static template"},
	}
	for _, tc := range cases {
		if got := SourceLabel(tc.noteID, tc.orderID, Snapshot{Loaded: tc.loaded}); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestResolvePreparedBy(t *testing.T) {
	if got := ResolvePreparedBy(" ", "GoDam User"); got != "GoDam User" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := ResolvePreparedBy("sara", "GoDam User"); got != "sara" {
		t.Fatalf("expected username, got %q", got)
	}
}
