package printsurface

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"godam/infrastructure/metrics"
)

// Session is one open print page: its bridge plus caller-owned metadata.
type Session struct {
	ID      string
	Bridge  *Bridge
	Meta    any
	Created time.Time
}

// Registry holds print sessions by id and expires idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{sessions: make(map[string]*Session), ttl: ttl}
}

func (r *Registry) Create(meta any) *Session {
	s := &Session{ID: uuid.NewString(), Bridge: NewBridge(), Meta: meta, Created: time.Now()}
	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.ActivePrintSessions.Set(float64(n))
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()
	if ok {
		s.Bridge.close()
	}
	metrics.ActivePrintSessions.Set(float64(n))
}

// Sweep removes detached sessions idle for longer than the registry ttl and
// returns how many.
func (r *Registry) Sweep(now time.Time) int {
	var stale []string
	r.mu.RLock()
	for id, s := range r.sessions {
		if s.Bridge.Attached() {
			continue
		}
		if now.Sub(s.Bridge.idleSince()) > r.ttl {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()
	for _, id := range stale {
		r.Remove(id)
	}
	return len(stale)
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Sweep(now); n > 0 {
				slog.Debug("expired print sessions", slog.Int("count", n))
			}
		}
	}
}

// IDs lists the open session ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
