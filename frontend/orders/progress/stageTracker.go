package progress

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"godam/infrastructure/metrics"
)

// StageChange is pushed to subscribers when a part advances.
type StageChange struct {
	OutboundNumber string `json:"outboundNumber"`
	PartNumber     string `json:"partNumber"`
	Stage          int    `json:"stage"`
	StageName      string `json:"stageName"`
}

// PartStage is one row of an order's progress.
type PartStage struct {
	PartNumber string
	Stage      int
}

// Tracker holds the stage of every part per outbound order. Apply is
// commutative and idempotent, so events may arrive in any order or twice.
type Tracker struct {
	mu      sync.RWMutex
	orders  map[string]map[string]int
	touched map[string]time.Time
	subs    map[string]map[chan StageChange]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{
		orders:  make(map[string]map[string]int),
		touched: make(map[string]time.Time),
		subs:    make(map[string]map[chan StageChange]struct{}),
	}
}

func orderKey(outbound string) string {
	return strings.TrimSpace(outbound)
}

// Seed folds a batch of movements into the order and returns the resulting stages.
func (t *Tracker) Seed(outbound string, events []MovementEvent) map[string]int {
	for part, stage := range ReduceStages(events) {
		t.set(orderKey(outbound), part, stage)
	}
	return t.Snapshot(outbound)
}

// Apply folds one movement into the order. It reports whether the part advanced.
func (t *Tracker) Apply(outbound string, ev MovementEvent) bool {
	key := orderKey(outbound)
	part := strings.TrimSpace(ev.PartNumber)
	if key == "" || part == "" || strings.TrimSpace(ev.MovementType) == "" {
		metrics.StageUpdates.WithLabelValues("ignored").Inc()
		return false
	}
	stage := ClassifyStage(ev.MovementType)
	if !KnownMovementCode(ev.MovementType) {
		metrics.UnknownMovementCodes.Inc()
	}
	if t.set(key, part, stage) {
		metrics.StageUpdates.WithLabelValues("advanced").Inc()
		return true
	}
	metrics.StageUpdates.WithLabelValues("unchanged").Inc()
	return false
}

func (t *Tracker) set(key, part string, stage int) bool {
	t.mu.Lock()
	parts, ok := t.orders[key]
	if !ok {
		parts = make(map[string]int)
		t.orders[key] = parts
	}
	t.touched[key] = time.Now()
	cur, seen := parts[part]
	if seen && stage <= cur {
		t.mu.Unlock()
		return false
	}
	parts[part] = stage
	change := StageChange{OutboundNumber: key, PartNumber: part, Stage: stage, StageName: StageName(stage)}
	for ch := range t.subs[key] {
		select {
		case ch <- change:
		default:
		}
	}
	t.mu.Unlock()
	return !seen || stage > cur
}

// Snapshot copies the current stages of an order.
func (t *Tracker) Snapshot(outbound string) map[string]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]int, len(t.orders[orderKey(outbound)]))
	for part, stage := range t.orders[orderKey(outbound)] {
		out[part] = stage
	}
	return out
}

// Rows returns the order's stages sorted by part number.
func (t *Tracker) Rows(outbound string) []PartStage {
	snap := t.Snapshot(outbound)
	rows := make([]PartStage, 0, len(snap))
	for part, stage := range snap {
		rows = append(rows, PartStage{PartNumber: part, Stage: stage})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PartNumber < rows[j].PartNumber })
	return rows
}

// Subscribe streams changes for one order. Slow subscribers miss changes
// rather than block writers. Call cancel to stop.
func (t *Tracker) Subscribe(outbound string) (<-chan StageChange, func()) {
	key := orderKey(outbound)
	ch := make(chan StageChange, 64)
	t.mu.Lock()
	if t.subs[key] == nil {
		t.subs[key] = make(map[chan StageChange]struct{})
	}
	t.subs[key][ch] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs[key], ch)
			if len(t.subs[key]) == 0 {
				delete(t.subs, key)
			}
			t.mu.Unlock()
			close(ch)
		})
	}
}

// Sweep forgets orders nobody watches that have not changed since cutoff.
// A forgotten order is rebuilt from movement history on its next page load.
func (t *Tracker) Sweep(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for key, at := range t.touched {
		if len(t.subs[key]) > 0 || !at.Before(cutoff) {
			continue
		}
		delete(t.orders, key)
		delete(t.touched, key)
		n++
	}
	return n
}

// Len reports how many orders are held.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.orders)
}

// Run sweeps orders idle for longer than idle, every interval, until ctx ends.
// Each extra sweeper shares the same cutoff.
func (t *Tracker) Run(ctx context.Context, interval, idle time.Duration, also ...func(cutoff time.Time) int) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			cutoff := now.Add(-idle)
			n := t.Sweep(cutoff)
			for _, sweep := range also {
				sweep(cutoff)
			}
			if n > 0 {
				slog.Debug("forgot idle orders", slog.Int("count", n))
			}
		}
	}
}
