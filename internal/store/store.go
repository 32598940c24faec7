package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names, one per logical cache slot
var (
	bucketWatchlist = []byte("watchlist")
	bucketHistory   = []byte("continue-watching")
	bucketProfile   = []byte("profile")
)

const (
	keyEntries  = "entries"
	keyIdentity = "identity"
)

// ClientStore implements domain.Store using BoltDB.
// Reads go through an in-memory byte cache so the caches get synchronous
// loads on the hot path; the durable write happens on every save.
type ClientStore struct {
	db     *bolt.DB
	logger *slog.Logger
	mu     sync.RWMutex // Protects memory cache

	cache map[string][]byte
}

// NewClientStore opens (or creates) the backing database under dataDir.
// An empty dataDir gives a memory-only store with no persistence, which is
// what tests use.
func NewClientStore(dataDir string, logger *slog.Logger) (*ClientStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dataDir == "" {
		// Memory-only mode (no persistence)
		return &ClientStore{cache: make(map[string][]byte), logger: logger}, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "pulsemovies.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWatchlist, bucketHistory, bucketProfile} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &ClientStore{db: db, cache: make(map[string][]byte), logger: logger}, nil
}

func (s *ClientStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// get loads and decodes one slot. A missing or unparseable blob reads as
// ok=false; corrupt data is discarded, never surfaced as an error.
func (s *ClientStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return s.decode(cacheKey, data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return s.decode(cacheKey, data, dest)
}

func (s *ClientStore) decode(cacheKey string, data []byte, dest interface{}) bool {
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("discarding corrupt slot", "slot", cacheKey, "error", err)
		return false
	}
	return true
}

func (s *ClientStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *ClientStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Watchlist slot ===

func (s *ClientStore) GetWatchlist() ([]domain.ListEntry, bool) {
	var entries []domain.ListEntry
	ok := s.get(bucketWatchlist, keyEntries, &entries)
	return entries, ok
}

func (s *ClientStore) SaveWatchlist(entries []domain.ListEntry) error {
	return s.set(bucketWatchlist, keyEntries, entries)
}

// === Continue-watching slot ===

func (s *ClientStore) GetHistory() ([]domain.ProgressEntry, bool) {
	var entries []domain.ProgressEntry
	ok := s.get(bucketHistory, keyEntries, &entries)
	return entries, ok
}

func (s *ClientStore) SaveHistory(entries []domain.ProgressEntry) error {
	return s.set(bucketHistory, keyEntries, entries)
}

// === Active profile slot ===

func (s *ClientStore) GetProfile() (*domain.ProfileIdentity, bool) {
	var p domain.ProfileIdentity
	if !s.get(bucketProfile, keyIdentity, &p) {
		return nil, false
	}
	if p.ProfileID == "" {
		return nil, false
	}
	return &p, true
}

func (s *ClientStore) SaveProfile(p *domain.ProfileIdentity) error {
	return s.set(bucketProfile, keyIdentity, p)
}

func (s *ClientStore) ClearProfile() {
	s.delete(bucketProfile, keyIdentity)
}
