package printsurface

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"godam/infrastructure/metrics"
)

// Bridge relays the latest payload, language and print requests to whichever
// surface is currently attached. Messages sent before a surface is ready are
// not queued; the current payload is replayed on attach instead.
type Bridge struct {
	mu         sync.Mutex
	payload    any
	hasPayload bool
	lang       string
	ch         Channel
	touched    time.Time
}

func NewBridge() *Bridge {
	return &Bridge{touched: time.Now()}
}

// Attach waits for ch to become ready, then makes it the active surface and
// replays the current payload and language. It returns false if ch closed or
// ctx ended first.
func (b *Bridge) Attach(ctx context.Context, ch Channel) bool {
	select {
	case <-ch.Ready():
	case <-ch.Done():
		return false
	case <-ctx.Done():
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.ch = ch
	b.touched = time.Now()
	if b.hasPayload {
		b.send(RefreshData(b.payload))
	}
	if b.lang != "" {
		b.send(SetLanguage(b.lang))
	}
	return true
}

// Detach forgets ch if it is still the active surface.
func (b *Bridge) Detach(ch Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ch == ch {
		b.ch = nil
	}
}

// Deliver stores payload and sends it to the active surface, without diffing.
func (b *Bridge) Deliver(payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payload = payload
	b.hasPayload = true
	b.touched = time.Now()
	b.send(RefreshData(payload))
}

// TriggerPrint asks the surface to print. It is a no-op without a ready surface.
func (b *Bridge) TriggerPrint() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touched = time.Now()
	return b.send(Print())
}

// SetLanguage relays a language switch and remembers it for later attaches.
func (b *Bridge) SetLanguage(lang string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lang = NormalizeLanguage(lang)
	b.touched = time.Now()
	b.send(SetLanguage(b.lang))
}

// Payload returns the last delivered payload.
func (b *Bridge) Payload() (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payload, b.hasPayload
}

// Language returns the last requested language, "en" when none.
func (b *Bridge) Language() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lang == "" {
		return "en"
	}
	return b.lang
}

// Attached reports whether a ready surface is connected.
func (b *Bridge) Attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ch != nil
}

func (b *Bridge) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched
}

func (b *Bridge) close() {
	b.mu.Lock()
	ch := b.ch
	b.ch = nil
	b.mu.Unlock()
	if ch != nil {
		_ = ch.Close()
	}
}

// send must be called with b.mu held.
func (b *Bridge) send(m Message) bool {
	if b.ch == nil {
		metrics.SurfaceMessages.WithLabelValues(m.Type, "skipped").Inc()
		return false
	}
	if err := b.ch.Send(m); err != nil {
		slog.Warn("print surface send failed", slog.String("type", m.Type), slog.Any("err", err))
		metrics.SurfaceMessages.WithLabelValues(m.Type, "failed").Inc()
		return false
	}
	metrics.SurfaceMessages.WithLabelValues(m.Type, "sent").Inc()
	return true
}
