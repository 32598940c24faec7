package history

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
)

// MaxEntries caps the continue-watching history. Once full, an insert evicts
// from the tail of the stored order.
const MaxEntries = 20

// Cache is the local-first continue-watching history.
//
// Two orders coexist on purpose: the stored order (new titles prepended,
// in-place updates keep their slot) drives cap eviction, while List sorts by
// LastWatchedAt on every read. They drift apart when an old entry is
// re-watched; unify them only if product confirms eviction should follow
// recency, since that silently changes which titles survive the cap.
type Cache struct {
	store  domain.Store
	syncer domain.ProgressSyncer
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries []domain.ProgressEntry
	index   map[int]int // externalID -> position in entries
	states  map[int]domain.SyncState
	gen     uint64
}

// NewCache creates a history cache seeded from the store
func NewCache(store domain.Store, syncer domain.ProgressSyncer, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		store:  store,
		syncer: syncer,
		logger: logger,
		now:    time.Now,
		index:  make(map[int]int),
		states: make(map[int]domain.SyncState),
	}
	if entries, ok := store.GetHistory(); ok {
		c.entries = entries
		c.reindexLocked()
	}
	logger.Debug("history loaded", "count", len(c.entries))
	return c
}

// Upsert records playback progress for item. An existing entry for the same
// externalID is replaced wholesale (never merged field-by-field) with a
// refreshed LastWatchedAt; a new title is inserted at the head and may evict
// the tail entry once the cap is hit. Season and episode are zero for films.
//
// The local update always applies immediately. The remote push is debounced
// per title inside the syncer; a skipped push is invisible to the caller.
func (c *Cache) Upsert(item domain.CatalogItem, percentComplete float64, season, episode int, profileID string) {
	percentComplete = clampPercent(percentComplete)

	c.mu.Lock()
	entry := domain.ProgressEntry{
		ExternalID:      item.ExternalID,
		Kind:            item.Kind,
		Title:           item.Title,
		PosterPath:      item.PosterPath,
		Rating:          item.Rating,
		PercentComplete: percentComplete,
		LastWatchedAt:   c.now(),
		Season:          season,
		Episode:         episode,
	}

	if pos, exists := c.index[item.ExternalID]; exists {
		// Replace in place: the stored slot is kept so eviction order stays
		// by insertion, not recency.
		c.entries[pos] = entry
	} else {
		c.entries = append([]domain.ProgressEntry{entry}, c.entries...)
		for len(c.entries) > MaxEntries {
			evicted := c.entries[len(c.entries)-1]
			c.entries = c.entries[:len(c.entries)-1]
			delete(c.states, evicted.ExternalID)
			c.logger.Debug("history entry evicted", "externalID", evicted.ExternalID, "title", evicted.Title)
		}
		c.reindexLocked()
	}
	c.states[item.ExternalID] = domain.SyncLocalOnly
	gen := c.gen
	c.persistLocked()
	c.mu.Unlock()

	if profileID == "" {
		return
	}
	c.syncer.PushUpsert(profileID, entry, func(err error) {
		c.markSynced(gen, item.ExternalID, err)
	})
}

// Remove drops the entry for externalID locally and, with a non-empty
// profileID, fires a remote delete
func (c *Cache) Remove(externalID int, profileID string) {
	c.mu.Lock()
	pos, exists := c.index[externalID]
	if !exists {
		c.mu.Unlock()
		return
	}
	c.entries = append(c.entries[:pos], c.entries[pos+1:]...)
	delete(c.states, externalID)
	c.reindexLocked()
	c.persistLocked()
	c.mu.Unlock()

	if profileID == "" {
		return
	}
	c.syncer.PushRemove(profileID, externalID, nil)
}

// Contains reports whether externalID has a history entry
func (c *Cache) Contains(externalID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.index[externalID]
	return exists
}

// Progress returns the entry for externalID, if present
func (c *Cache) Progress(externalID int) (domain.ProgressEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, exists := c.index[externalID]
	if !exists {
		return domain.ProgressEntry{}, false
	}
	return c.entries[pos], true
}

// List returns the history sorted by LastWatchedAt descending. Sorting
// happens on every read because the stored order is insertion order.
func (c *Cache) List() []domain.ProgressEntry {
	c.mu.RLock()
	out := make([]domain.ProgressEntry, len(c.entries))
	copy(out, c.entries)
	c.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastWatchedAt.After(out[j].LastWatchedAt)
	})
	return out
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry locally; with a non-empty profileID it also fires
// the remote clear-all the history contract supports.
func (c *Cache) Clear(profileID string) {
	c.mu.Lock()
	c.entries = nil
	c.index = make(map[int]int)
	c.states = make(map[int]domain.SyncState)
	c.gen++
	c.persistLocked()
	c.mu.Unlock()

	if profileID == "" {
		return
	}
	c.syncer.PushClear(profileID, nil)
}

// Reconcile fetches server history for profileID and replaces local state
// wholesale. Server progress and watch times become authoritative; any
// local-only unsynced progress is discarded. On fetch failure the local
// snapshot is left untouched.
func (c *Cache) Reconcile(ctx context.Context, profileID string) error {
	remote, err := c.syncer.Pull(ctx, profileID)
	if err != nil {
		c.logger.Warn("history reconcile failed, keeping local snapshot", "profileID", profileID, "error", err)
		return err
	}
	if len(remote) > MaxEntries {
		remote = remote[:MaxEntries]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = remote
	c.states = make(map[int]domain.SyncState)
	c.reindexLocked()
	for id := range c.index {
		c.states[id] = domain.SyncConfirmed
	}
	c.persistLocked()
	c.logger.Debug("history reconciled", "profileID", profileID, "count", len(remote))
	return nil
}

// SyncStateOf reports where an entry stands relative to the server
func (c *Cache) SyncStateOf(externalID int) (domain.SyncState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, exists := c.states[externalID]
	return state, exists
}

func (c *Cache) markSynced(gen uint64, externalID int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if _, exists := c.index[externalID]; !exists {
		return
	}
	if err != nil {
		c.states[externalID] = domain.SyncFailed
		return
	}
	c.states[externalID] = domain.SyncConfirmed
}

func (c *Cache) reindexLocked() {
	c.index = make(map[int]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.ExternalID] = i
	}
}

func (c *Cache) persistLocked() {
	if err := c.store.SaveHistory(c.entries); err != nil {
		c.logger.Warn("failed to persist history", "error", err)
	}
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
