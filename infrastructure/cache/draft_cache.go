package cache

import (
	"encoding/json"
	"sync"
	"time"
)

type draftEntry struct {
	raw      json.RawMessage
	storedAt time.Time
}

// DraftCache holds one staged delivery-note draft per login session.
// The print page reads it; only the draft form writes it.
type DraftCache struct {
	mu     sync.RWMutex
	drafts map[string]draftEntry
}

func NewDraftCache() *DraftCache {
	return &DraftCache{drafts: make(map[string]draftEntry)}
}

// Put replaces the draft staged for sessionToken.
func (c *DraftCache) Put(sessionToken string, raw json.RawMessage) {
	cp := make(json.RawMessage, len(raw))
	copy(cp, raw)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[sessionToken] = draftEntry{raw: cp, storedAt: time.Now()}
}

// Get returns the staged draft, if any.
func (c *DraftCache) Get(sessionToken string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.drafts[sessionToken]
	if !ok {
		return nil, false
	}
	return e.raw, true
}

func (c *DraftCache) Delete(sessionToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, sessionToken)
}

// PurgeOlderThan drops drafts staged before cutoff.
func (c *DraftCache) PurgeOlderThan(cutoff time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for token, e := range c.drafts {
		if e.storedAt.Before(cutoff) {
			delete(c.drafts, token)
			n++
		}
	}
	return n
}
