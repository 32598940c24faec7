package store

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	bolt "go.etcd.io/bbolt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEntries() []domain.ListEntry {
	return []domain.ListEntry{
		{ExternalID: 603, Kind: domain.MediaKindMovie, Title: "The Matrix", Rating: 8.2, AddedAt: time.Now().UTC().Truncate(time.Second)},
		{ExternalID: 1396, Kind: domain.MediaKindSeries, Title: "Breaking Bad", Rating: 8.9, AddedAt: time.Now().UTC().Truncate(time.Second)},
	}
}

func TestWatchlistSlotRoundTrip(t *testing.T) {
	s, err := NewClientStore(t.TempDir(), discardLogger())
	if err != nil {
		t.Fatalf("NewClientStore returned error: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetWatchlist(); ok {
		t.Fatal("expected empty store to report no watchlist")
	}

	want := testEntries()
	if err := s.SaveWatchlist(want); err != nil {
		t.Fatalf("SaveWatchlist returned error: %v", err)
	}

	got, ok := s.GetWatchlist()
	if !ok {
		t.Fatal("expected watchlist after save")
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	if got[0].ExternalID != 603 || got[0].Title != "The Matrix" {
		t.Errorf("unexpected first entry: %+v", got[0])
	}
}

func TestSlotsSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewClientStore(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewClientStore returned error: %v", err)
	}
	if err := s.SaveWatchlist(testEntries()); err != nil {
		t.Fatalf("SaveWatchlist returned error: %v", err)
	}
	if err := s.SaveHistory([]domain.ProgressEntry{
		{ExternalID: 1396, Kind: domain.MediaKindSeries, Title: "Breaking Bad", PercentComplete: 42.5, Season: 2, Episode: 3},
	}); err != nil {
		t.Fatalf("SaveHistory returned error: %v", err)
	}
	if err := s.SaveProfile(&domain.ProfileIdentity{ProfileID: "p1", DisplayName: "Alex"}); err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := NewClientStore(dir, discardLogger())
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	if entries, ok := reopened.GetWatchlist(); !ok || len(entries) != 2 {
		t.Errorf("watchlist did not survive reopen: ok=%v len=%d", ok, len(entries))
	}
	history, ok := reopened.GetHistory()
	if !ok || len(history) != 1 {
		t.Fatalf("history did not survive reopen: ok=%v len=%d", ok, len(history))
	}
	if history[0].PercentComplete != 42.5 || history[0].Season != 2 {
		t.Errorf("unexpected history entry: %+v", history[0])
	}
	p, ok := reopened.GetProfile()
	if !ok || p.ProfileID != "p1" || p.DisplayName != "Alex" {
		t.Errorf("profile did not survive reopen: ok=%v p=%+v", ok, p)
	}
}

func TestCorruptSlotReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()

	s, err := NewClientStore(dir, discardLogger())
	if err != nil {
		t.Fatalf("NewClientStore returned error: %v", err)
	}
	if err := s.SaveWatchlist(testEntries()); err != nil {
		t.Fatalf("SaveWatchlist returned error: %v", err)
	}
	s.Close()

	// Scribble over the persisted blob out-of-band.
	db, err := bolt.Open(filepath.Join(dir, "pulsemovies.db"), 0600, nil)
	if err != nil {
		t.Fatalf("failed to open db for corruption: %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWatchlist).Put([]byte(keyEntries), []byte("{not json at all"))
	})
	db.Close()
	if err != nil {
		t.Fatalf("failed to corrupt slot: %v", err)
	}

	reopened, err := NewClientStore(dir, discardLogger())
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	if entries, ok := reopened.GetWatchlist(); ok || entries != nil {
		t.Errorf("expected corrupt slot to read as empty, got ok=%v entries=%v", ok, entries)
	}

	// The slot is writable again after the corrupt read.
	if err := reopened.SaveWatchlist(testEntries()); err != nil {
		t.Fatalf("SaveWatchlist after corruption returned error: %v", err)
	}
	if entries, ok := reopened.GetWatchlist(); !ok || len(entries) != 2 {
		t.Errorf("expected slot recovery after save: ok=%v len=%d", ok, len(entries))
	}
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewClientStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewClientStore returned error: %v", err)
	}
	defer s.Close()

	if _, ok := s.GetHistory(); ok {
		t.Fatal("expected empty memory store to report no history")
	}
	if err := s.SaveHistory([]domain.ProgressEntry{{ExternalID: 1, Title: "Dune"}}); err != nil {
		t.Fatalf("SaveHistory returned error: %v", err)
	}
	if entries, ok := s.GetHistory(); !ok || len(entries) != 1 {
		t.Errorf("memory store lost history: ok=%v len=%d", ok, len(entries))
	}
}

func TestClearProfile(t *testing.T) {
	s, err := NewClientStore("", discardLogger())
	if err != nil {
		t.Fatalf("NewClientStore returned error: %v", err)
	}
	defer s.Close()

	if err := s.SaveProfile(&domain.ProfileIdentity{ProfileID: "p1", DisplayName: "Alex"}); err != nil {
		t.Fatalf("SaveProfile returned error: %v", err)
	}
	s.ClearProfile()
	if _, ok := s.GetProfile(); ok {
		t.Error("expected no profile after ClearProfile")
	}
}
