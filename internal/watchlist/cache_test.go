package watchlist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSyncer records pushes. With deferDone set, done callbacks are captured
// instead of invoked, letting tests deliver late results on demand.
type fakeSyncer struct {
	mu        sync.Mutex
	adds      int
	removes   int
	pulls     int
	pullOut   []domain.ListEntry
	pullErr   error
	pushErr   error
	deferDone bool
	pending   []func(error)
}

func (f *fakeSyncer) PushAdd(profileID string, item domain.CatalogItem, done func(error)) {
	f.mu.Lock()
	f.adds++
	deferDone := f.deferDone
	if deferDone {
		f.pending = append(f.pending, done)
	}
	err := f.pushErr
	f.mu.Unlock()
	if !deferDone && done != nil {
		done(err)
	}
}

func (f *fakeSyncer) PushRemove(profileID string, externalID int, done func(error)) {
	f.mu.Lock()
	f.removes++
	err := f.pushErr
	f.mu.Unlock()
	if done != nil {
		done(err)
	}
}

func (f *fakeSyncer) Pull(ctx context.Context, profileID string) ([]domain.ListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pulls++
	return f.pullOut, f.pullErr
}

func (f *fakeSyncer) pushCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adds + f.removes
}

func memStore(t *testing.T) *store.ClientStore {
	t.Helper()
	s, err := store.NewClientStore("", discardLogger())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func matrix() domain.CatalogItem {
	return domain.CatalogItem{ExternalID: 603, Kind: domain.MediaKindMovie, Title: "The Matrix", Rating: 8.2}
}

func TestAddIsIdempotent(t *testing.T) {
	syncer := &fakeSyncer{}
	c := NewCache(memStore(t), syncer, discardLogger())

	c.Add(matrix(), "p1")
	c.Add(matrix(), "p1")

	if c.Len() != 1 {
		t.Errorf("expected exactly one entry, got %d", c.Len())
	}
	if syncer.adds != 1 {
		t.Errorf("duplicate add must not fire a second remote create, got %d", syncer.adds)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	st := memStore(t)
	c := NewCache(st, &fakeSyncer{}, discardLogger())

	c.Add(matrix(), "")
	c.Remove(603, "")

	if c.Contains(603) {
		t.Error("entry still present after remove")
	}
	persisted, ok := st.GetWatchlist()
	if !ok {
		t.Fatal("expected a persisted watchlist blob")
	}
	if len(persisted) != 0 {
		t.Errorf("persisted blob should be empty, got %d entries", len(persisted))
	}
}

func TestNoProfileSkipsRemote(t *testing.T) {
	syncer := &fakeSyncer{}
	c := NewCache(memStore(t), syncer, discardLogger())

	c.Add(matrix(), "")
	c.Remove(603, "")
	c.Add(matrix(), "")

	if c.Len() != 1 {
		t.Errorf("local mutations must apply without a profile, len=%d", c.Len())
	}
	if syncer.pushCount() != 0 {
		t.Errorf("expected zero remote calls without a profile, got %d", syncer.pushCount())
	}
}

func TestAddedAtIsSet(t *testing.T) {
	c := NewCache(memStore(t), &fakeSyncer{}, discardLogger())
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	c.Add(matrix(), "")

	entries := c.Entries()
	if len(entries) != 1 || !entries[0].AddedAt.Equal(fixed) {
		t.Errorf("expected AddedAt %v, got %+v", fixed, entries)
	}
}

func TestRemoteFailureDoesNotRollBack(t *testing.T) {
	syncer := &fakeSyncer{pushErr: errors.New("network down")}
	c := NewCache(memStore(t), syncer, discardLogger())

	c.Add(matrix(), "p1")

	if !c.Contains(603) {
		t.Error("failed remote create must not roll back the local add")
	}
	if state, ok := c.SyncStateOf(603); !ok || state != domain.SyncFailed {
		t.Errorf("expected SyncFailed, got %v ok=%v", state, ok)
	}
}

func TestSyncStateConfirmedOnSuccess(t *testing.T) {
	c := NewCache(memStore(t), &fakeSyncer{}, discardLogger())

	c.Add(matrix(), "p1")

	if state, ok := c.SyncStateOf(603); !ok || state != domain.SyncConfirmed {
		t.Errorf("expected SyncConfirmed, got %v ok=%v", state, ok)
	}
}

func TestReconcileReplacesLocalState(t *testing.T) {
	syncer := &fakeSyncer{pullOut: []domain.ListEntry{
		{ExternalID: 2, Kind: domain.MediaKindMovie, Title: "B"},
		{ExternalID: 3, Kind: domain.MediaKindSeries, Title: "C"},
	}}
	c := NewCache(memStore(t), syncer, discardLogger())

	c.Add(domain.CatalogItem{ExternalID: 1, Kind: domain.MediaKindMovie, Title: "A"}, "")
	c.Add(domain.CatalogItem{ExternalID: 2, Kind: domain.MediaKindMovie, Title: "B"}, "")

	if err := c.Reconcile(context.Background(), "p1"); err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}

	if c.Contains(1) {
		t.Error("entry A should be gone: reconcile replaces, it does not merge")
	}
	if !c.Contains(2) || !c.Contains(3) {
		t.Error("entries B and C should be present after reconcile")
	}
	if state, _ := c.SyncStateOf(3); state != domain.SyncConfirmed {
		t.Errorf("reconciled entries are server-confirmed, got %v", state)
	}
}

func TestReconcileFailureKeepsLocalSnapshot(t *testing.T) {
	syncer := &fakeSyncer{pullErr: errors.New("503")}
	c := NewCache(memStore(t), syncer, discardLogger())
	c.Add(matrix(), "")

	if err := c.Reconcile(context.Background(), "p1"); err == nil {
		t.Fatal("expected reconcile error")
	}
	if !c.Contains(603) {
		t.Error("failed reconcile must not clear local data")
	}
}

func TestStalePushResultIgnoredAfterReconcile(t *testing.T) {
	syncer := &fakeSyncer{
		deferDone: true,
		pullOut:   []domain.ListEntry{{ExternalID: 603, Kind: domain.MediaKindMovie, Title: "The Matrix"}},
	}
	c := NewCache(memStore(t), syncer, discardLogger())

	c.Add(matrix(), "p1")
	if err := c.Reconcile(context.Background(), "p1"); err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}

	// The push from before the reconcile finally fails; its result is stale
	// and must not flip the reconciled entry.
	syncer.pending[0](errors.New("late failure"))

	if state, _ := c.SyncStateOf(603); state != domain.SyncConfirmed {
		t.Errorf("stale push result overwrote reconciled state: got %v", state)
	}
}

func TestClearIsLocalOnly(t *testing.T) {
	syncer := &fakeSyncer{}
	st := memStore(t)
	c := NewCache(st, syncer, discardLogger())
	c.Add(matrix(), "")

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected empty list after clear, got %d", c.Len())
	}
	if syncer.pushCount() != 0 || syncer.pulls != 0 {
		t.Error("clear must never call the remote")
	}
	if persisted, ok := st.GetWatchlist(); !ok || len(persisted) != 0 {
		t.Errorf("clear should persist the empty collection: ok=%v len=%d", ok, len(persisted))
	}
}

func TestCacheSeedsFromStore(t *testing.T) {
	st := memStore(t)
	first := NewCache(st, &fakeSyncer{}, discardLogger())
	first.Add(matrix(), "")

	second := NewCache(st, &fakeSyncer{}, discardLogger())
	if !second.Contains(603) {
		t.Error("a fresh cache over the same store should see persisted entries")
	}
}
