package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"ames-casefile/internal/casefile"
	"ames-casefile/internal/model"

	"github.com/google/uuid"
)

// CaseEntry is a parsed case held by the cache.
type CaseEntry struct {
	ID          string
	ContentHash string
	Source      string
	Case        *model.CaseData
	Warnings    []casefile.Warning
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// CaseCache keeps finished cases in memory so they are parsed once. Entries
// are found by id or by the hash of the text they were parsed from.
type CaseCache struct {
	mu     sync.RWMutex
	byID   map[string]*CaseEntry
	byHash map[string]string
	ttl    time.Duration
	now    func() time.Time
}

// NewCaseCache returns an empty cache. A ttl of zero keeps entries forever.
func NewCaseCache(ttl time.Duration) *CaseCache {
	return &CaseCache{
		byID:   make(map[string]*CaseEntry),
		byHash: make(map[string]string),
		ttl:    ttl,
		now:    time.Now,
	}
}

// ContentHash is the key Lookup uses for raw case text.
func ContentHash(raw []byte) string {
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}

// Put stores a finished case and returns its new id. Storing the same text
// again replaces the earlier entry.
func (c *CaseCache) Put(raw []byte, source string, res *casefile.Result) *CaseEntry {
	now := c.now()
	e := &CaseEntry{
		ID:          uuid.NewString(),
		ContentHash: ContentHash(raw),
		Source:      source,
		Case:        res.Case,
		Warnings:    res.Warnings,
		CreatedAt:   now,
	}
	if c.ttl > 0 {
		e.ExpiresAt = now.Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.byHash[e.ContentHash]; ok {
		delete(c.byID, old)
	}
	c.byID[e.ID] = e
	c.byHash[e.ContentHash] = e.ID
	return e
}

// Get retrieves a cached case if available and not expired.
func (c *CaseCache) Get(id string) (*CaseEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[id]
	if !ok || c.expired(e) {
		return nil, false
	}
	return e, true
}

// Lookup finds the entry parsed from exactly this text.
func (c *CaseCache) Lookup(raw []byte) (*CaseEntry, bool) {
	c.mu.RLock()
	id, ok := c.byHash[ContentHash(raw)]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

func (c *CaseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Clear removes all entries from the cache.
func (c *CaseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]*CaseEntry)
	c.byHash = make(map[string]string)
}

// Prune drops expired entries and returns how many were removed.
func (c *CaseCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.byID {
		if c.expired(e) {
			delete(c.byID, id)
			delete(c.byHash, e.ContentHash)
			n++
		}
	}
	return n
}

// RunCleanup prunes every interval until ctx is done.
func (c *CaseCache) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Prune()
		}
	}
}

func (c *CaseCache) expired(e *CaseEntry) bool {
	return !e.ExpiresAt.IsZero() && c.now().After(e.ExpiresAt)
}
