package printing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"godam/infrastructure/backend"
	"godam/infrastructure/metrics"
)

// Source names, also used as metric labels.
const (
	SourceBase      = "base"
	SourceDraft     = "draft"
	SourceOutbound  = "outbound"
	SourcePersisted = "persisted"
)

// PayloadSource produces one partial payload for the print page.
type PayloadSource interface {
	Name() string
	Partial(ctx context.Context) (TemplatePayload, error)
}

// DraftSource yields the draft staged by the delivery-note form, if any.
type DraftSource interface {
	LoadDraft() (*DraftPreview, error)
}

// Backend is the part of the warehouse API the print page reads.
type Backend interface {
	GetDeliveryNote(ctx context.Context, id int64) (*backend.DeliveryNote, error)
	GetOutbound(ctx context.Context, orderID int64) (*backend.OutboundInfo, error)
}

// ErrNoDraft reports that nothing was staged.
var ErrNoDraft = errors.New("no staged draft")

type staticSource struct {
	name    string
	payload TemplatePayload
}

func (s staticSource) Name() string { return s.name }
func (s staticSource) Partial(context.Context) (TemplatePayload, error) {
	return s.payload, nil
}

// NewBaseSource supplies preparedBy/preparedDate defaults.
func NewBaseSource(preparedBy string, now time.Time, loc *time.Location) PayloadSource {
	return staticSource{name: SourceBase, payload: BasePayload(preparedBy, now, loc)}
}

type draftPayloadSource struct {
	drafts     DraftSource
	preparedBy string
}

func NewDraftPayloadSource(drafts DraftSource, preparedBy string) PayloadSource {
	return draftPayloadSource{drafts: drafts, preparedBy: preparedBy}
}

func (s draftPayloadSource) Name() string { return SourceDraft }

func (s draftPayloadSource) Partial(context.Context) (TemplatePayload, error) {
	draft, err := s.drafts.LoadDraft()
	if err != nil {
		return TemplatePayload{}, err
	}
	return FromDraftPreview(draft, s.preparedBy), nil
}

type outboundPayloadSource struct {
	api     Backend
	orderID int64
}

func NewOutboundPayloadSource(api Backend, orderID int64) PayloadSource {
	return outboundPayloadSource{api: api, orderID: orderID}
}

func (s outboundPayloadSource) Name() string { return SourceOutbound }

func (s outboundPayloadSource) Partial(ctx context.Context) (TemplatePayload, error) {
	info, err := s.api.GetOutbound(ctx, s.orderID)
	if err != nil {
		return TemplatePayload{}, fmt.Errorf("outbound %d: %w", s.orderID, err)
	}
	return FromOutboundOrder(info), nil
}

type persistedPayloadSource struct {
	api        Backend
	noteID     int64
	preparedBy string
}

func NewPersistedPayloadSource(api Backend, noteID int64, preparedBy string) PayloadSource {
	return persistedPayloadSource{api: api, noteID: noteID, preparedBy: preparedBy}
}

func (s persistedPayloadSource) Name() string { return SourcePersisted }

func (s persistedPayloadSource) Partial(ctx context.Context) (TemplatePayload, error) {
	note, err := s.api.GetDeliveryNote(ctx, s.noteID)
	if err != nil {
		return TemplatePayload{}, fmt.Errorf("delivery note %d: %w", s.noteID, err)
	}
	return FromPersistedRecord(note, s.preparedBy), nil
}

// StaticDraft serves a draft decoded from raw JSON. Blank input means no draft.
type StaticDraft json.RawMessage

func (d StaticDraft) LoadDraft() (*DraftPreview, error) {
	if len(d) == 0 {
		return nil, ErrNoDraft
	}
	var out DraftPreview
	if err := json.Unmarshal(d, &out); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &out, nil
}

// SourceFailure is one source that could not be loaded.
type SourceFailure struct {
	Source string
	Err    error
}

// Snapshot is the merged state of an Assembly at one point in time.
type Snapshot struct {
	Payload  TemplatePayload
	Loaded   map[string]bool
	Failures []SourceFailure
	Complete bool
}

// Assembler loads sources concurrently and merges them in slice order, so
// later sources take precedence regardless of which answers first.
type Assembler struct {
	sources []PayloadSource
}

func NewAssembler(sources ...PayloadSource) *Assembler {
	return &Assembler{sources: sources}
}

// Assembly is one in-flight run of an Assembler.
type Assembly struct {
	mu       sync.Mutex
	names    []string
	slots    []TemplatePayload
	loaded   map[string]bool
	failures []SourceFailure
	done     chan struct{}
}

// Start loads every source in its own goroutine. After each arrival the slots
// are re-merged and onUpdate receives the result; calls are serialized.
func (a *Assembler) Start(ctx context.Context, onUpdate func(TemplatePayload)) *Assembly {
	as := &Assembly{
		names:  make([]string, len(a.sources)),
		slots:  make([]TemplatePayload, len(a.sources)),
		loaded: make(map[string]bool, len(a.sources)),
		done:   make(chan struct{}),
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		as.names[i] = src.Name()
		g.Go(func() error {
			p, err := src.Partial(gctx)
			as.settle(i, src.Name(), p, err, onUpdate)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(as.done)
	}()
	return as
}

func (as *Assembly) settle(i int, name string, p TemplatePayload, err error, onUpdate func(TemplatePayload)) {
	as.mu.Lock()
	defer as.mu.Unlock()
	switch {
	case errors.Is(err, ErrNoDraft):
	case err != nil:
		slog.Warn("print payload source failed", slog.String("source", name), slog.Any("err", err))
		metrics.SourceFetchFailures.WithLabelValues(name).Inc()
		as.failures = append(as.failures, SourceFailure{Source: name, Err: err})
	default:
		as.slots[i] = p
		as.loaded[name] = true
	}
	if onUpdate != nil {
		onUpdate(Merge(as.slots...))
	}
}

// Done is closed once every source has settled.
func (as *Assembly) Done() <-chan struct{} { return as.done }

// Wait blocks until every source settled or ctx ends, then returns the current state.
func (as *Assembly) Wait(ctx context.Context) Snapshot {
	complete := true
	select {
	case <-as.done:
	case <-ctx.Done():
		select {
		case <-as.done:
		default:
			complete = false
		}
	}
	as.mu.Lock()
	defer as.mu.Unlock()
	loaded := make(map[string]bool, len(as.loaded))
	for k, v := range as.loaded {
		loaded[k] = v
	}
	return Snapshot{
		Payload:  Merge(as.slots...),
		Loaded:   loaded,
		Failures: append([]SourceFailure(nil), as.failures...),
		Complete: complete,
	}
}
