package watchlist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
)

// Cache is the local-first watchlist. Mutations apply to memory and the
// persistent store synchronously; the remote half of each mutation is
// fire-and-forget and never rolls the local change back on failure.
//
// A Cache works fully without a profile: pass an empty profileID and the
// remote half of every mutation is skipped.
type Cache struct {
	store  domain.Store
	syncer domain.ListSyncer
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries []domain.ListEntry
	index   map[int]int // externalID -> position in entries
	states  map[int]domain.SyncState
	gen     uint64 // bumped on reconcile/clear; stale push results check it
}

// NewCache creates a watchlist cache seeded from the store. A corrupt or
// absent slot seeds an empty list.
func NewCache(store domain.Store, syncer domain.ListSyncer, logger *slog.Logger) *Cache {
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
	if entries, ok := store.GetWatchlist(); ok {
		c.entries = entries
		c.reindexLocked()
	}
	logger.Debug("watchlist loaded", "count", len(c.entries))
	return c
}

// Add appends a saved-for-later entry for item. A second add for the same
// externalID is a no-op. With a non-empty profileID a remote create is
// fired; its failure is logged and the local add stands.
func (c *Cache) Add(item domain.CatalogItem, profileID string) {
	c.mu.Lock()
	if _, exists := c.index[item.ExternalID]; exists {
		c.mu.Unlock()
		return
	}

	entry := domain.ListEntry{
		ExternalID: item.ExternalID,
		Kind:       item.Kind,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		Rating:     item.Rating,
		AddedAt:    c.now(),
	}
	c.entries = append(c.entries, entry)
	c.index[item.ExternalID] = len(c.entries) - 1
	c.states[item.ExternalID] = domain.SyncLocalOnly
	gen := c.gen
	c.persistLocked()
	c.mu.Unlock()

	if profileID == "" {
		return
	}
	c.syncer.PushAdd(profileID, item, func(err error) {
		c.markSynced(gen, item.ExternalID, err)
	})
}

// Remove drops the entry for externalID locally and, with a non-empty
// profileID, fires a remote delete. Removing an absent entry is a no-op.
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
	// Outcome is logged by the bridge; there is no entry left to mark.
	c.syncer.PushRemove(profileID, externalID, nil)
}

// Contains reports whether externalID is in the watchlist
func (c *Cache) Contains(externalID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.index[externalID]
	return exists
}

// Entries returns a copy of the watchlist in insertion order
func (c *Cache) Entries() []domain.ListEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.ListEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops every entry locally. The remote contract has no bulk watchlist
// delete, so the server is deliberately left untouched.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.index = make(map[int]int)
	c.states = make(map[int]domain.SyncState)
	c.gen++
	c.persistLocked()
}

// Reconcile fetches the full remote watchlist for profileID and replaces
// local state with it, last-reconciled-wins. On fetch failure the local
// snapshot is left untouched. Callers invoke this explicitly, typically
// right after profile selection.
func (c *Cache) Reconcile(ctx context.Context, profileID string) error {
	remote, err := c.syncer.Pull(ctx, profileID)
	if err != nil {
		c.logger.Warn("watchlist reconcile failed, keeping local snapshot", "profileID", profileID, "error", err)
		return err
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
	c.logger.Debug("watchlist reconciled", "profileID", profileID, "count", len(remote))
	return nil
}

// SyncStateOf reports where an entry stands relative to the server.
// Advisory only; ok is false when the entry is not present.
func (c *Cache) SyncStateOf(externalID int) (domain.SyncState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state, exists := c.states[externalID]
	return state, exists
}

// markSynced records a push outcome. Results from before a reconcile or
// clear (stale generation) are dropped so a late response cannot overwrite
// newer state.
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

// reindexLocked rebuilds the externalID index. Caller holds mu.
func (c *Cache) reindexLocked() {
	c.index = make(map[int]int, len(c.entries))
	for i, e := range c.entries {
		c.index[e.ExternalID] = i
	}
}

// persistLocked writes the collection through to the store. Persistence
// failure is swallowed: memory stays authoritative for the session.
// Caller holds mu.
func (c *Cache) persistLocked() {
	if err := c.store.SaveWatchlist(c.entries); err != nil {
		c.logger.Warn("failed to persist watchlist", "error", err)
	}
}
