package progress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"godam/infrastructure/backend"
	"godam/infrastructure/metrics"
)

// FromMovements adapts backend movement rows to stage events.
func FromMovements(rows []backend.Movement) []MovementEvent {
	out := make([]MovementEvent, 0, len(rows))
	for _, m := range rows {
		out = append(out, MovementEvent{PartNumber: m.PartNumber, MovementType: m.MovementType})
	}
	return out
}

// OutboundLookup resolves an order id to its outbound header.
type OutboundLookup interface {
	GetOutbound(ctx context.Context, orderID int64) (*backend.OutboundInfo, error)
}

type indexEntry struct {
	outbound string
	used     time.Time
}

// OrderIndex caches orderId -> outbound number for pick frames that only
// carry the order id.
type OrderIndex struct {
	api     OutboundLookup
	timeout time.Duration

	mu   sync.Mutex
	byID map[int64]indexEntry
}

func NewOrderIndex(api OutboundLookup, timeout time.Duration) *OrderIndex {
	return &OrderIndex{api: api, timeout: timeout, byID: make(map[int64]indexEntry)}
}

// Remember records a known mapping, e.g. from a frame that carried both.
func (x *OrderIndex) Remember(orderID int64, outbound string) {
	outbound = strings.TrimSpace(outbound)
	if orderID <= 0 || outbound == "" {
		return
	}
	x.mu.Lock()
	x.byID[orderID] = indexEntry{outbound: outbound, used: time.Now()}
	x.mu.Unlock()
}

// Outbound returns the outbound number of orderID, asking the backend on a miss.
func (x *OrderIndex) Outbound(ctx context.Context, orderID int64) (string, error) {
	if orderID <= 0 {
		return "", fmt.Errorf("order id %d", orderID)
	}
	x.mu.Lock()
	if e, ok := x.byID[orderID]; ok {
		e.used = time.Now()
		x.byID[orderID] = e
		x.mu.Unlock()
		return e.outbound, nil
	}
	x.mu.Unlock()

	if x.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}
	info, err := x.api.GetOutbound(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("resolve order %d: %w", orderID, err)
	}
	if info == nil || strings.TrimSpace(info.OutboundNumber) == "" {
		return "", fmt.Errorf("order %d has no outbound number", orderID)
	}
	x.Remember(orderID, info.OutboundNumber)
	return strings.TrimSpace(info.OutboundNumber), nil
}

// Sweep forgets mappings not used since cutoff.
func (x *OrderIndex) Sweep(cutoff time.Time) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	n := 0
	for id, e := range x.byID {
		if e.used.Before(cutoff) {
			delete(x.byID, id)
			n++
		}
	}
	return n
}

// PickHandler folds live pick frames into the tracker. Frames that name only
// the order id are placed through idx; without idx they are dropped.
func PickHandler(ctx context.Context, t *Tracker, idx *OrderIndex) func(backend.PickEvent) {
	return func(ev backend.PickEvent) {
		outbound := strings.TrimSpace(ev.OutboundNumber)
		switch {
		case outbound != "" && idx != nil:
			idx.Remember(ev.OrderID, outbound)
		case outbound == "" && idx != nil:
			var err error
			outbound, err = idx.Outbound(ctx, ev.OrderID)
			if err != nil {
				metrics.StageUpdates.WithLabelValues("ignored").Inc()
				slog.Warn("pick frame not placed", slog.Int64("orderId", ev.OrderID), slog.String("part", ev.PartNumber), slog.Any("err", err))
				return
			}
		case outbound == "":
			metrics.StageUpdates.WithLabelValues("ignored").Inc()
			slog.Debug("pick without outbound number", slog.Int64("orderId", ev.OrderID), slog.String("part", ev.PartNumber))
			return
		}
		t.Apply(outbound, MovementEvent{PartNumber: ev.PartNumber, MovementType: ev.Movement()})
	}
}
