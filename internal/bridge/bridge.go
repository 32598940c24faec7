package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultPushWindow is the minimum gap between remote history pushes for
	// the same title. Continuous progress reporting during playback would
	// otherwise flood the server.
	DefaultPushWindow = 15 * time.Second

	requestTimeout = 30 * time.Second
)

type cacheKind string

const (
	kindWatchlist cacheKind = "watchlist"
	kindHistory   cacheKind = "history"
)

// opKey identifies a serialization lane. Remote operations for the same
// (cache, title) run strictly in order so a rapid add-then-remove cannot
// land on the server reversed and leave a ghost record.
type opKey struct {
	kind       cacheKind
	externalID int
}

// Bridge is the fire-and-forget façade over the remote persistence API.
// Pushes return immediately; failures are logged and reported through the
// optional done callback, never propagated to the caller. Pulls are
// synchronous; reconcile is the one operation callers wait on.
type Bridge struct {
	watchlist  domain.WatchlistRemote
	history    domain.HistoryRemote
	logger     *slog.Logger
	pushWindow time.Duration

	mu       sync.Mutex
	tails    map[opKey]chan struct{}
	limiters map[int]*rate.Limiter
	wg       sync.WaitGroup
}

// New creates a sync bridge. A zero pushWindow selects DefaultPushWindow.
func New(watchlist domain.WatchlistRemote, history domain.HistoryRemote, pushWindow time.Duration, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if pushWindow <= 0 {
		pushWindow = DefaultPushWindow
	}
	return &Bridge{
		watchlist:  watchlist,
		history:    history,
		logger:     logger,
		pushWindow: pushWindow,
		tails:      make(map[opKey]chan struct{}),
		limiters:   make(map[int]*rate.Limiter),
	}
}

// Watchlist returns the watchlist-facing view of the bridge
func (b *Bridge) Watchlist() domain.ListSyncer {
	return listSyncer{b}
}

// History returns the history-facing view of the bridge
func (b *Bridge) History() domain.ProgressSyncer {
	return progressSyncer{b}
}

// Flush blocks until every enqueued push has completed. Short-lived callers
// (CLI commands, tests) call this before exit; a long-lived UI never needs to.
func (b *Bridge) Flush() {
	b.wg.Wait()
}

// enqueue schedules op on the serialization lane for key and returns
// immediately. Each op waits for its predecessor on the same lane, so lanes
// are FIFO while distinct keys proceed independently.
func (b *Bridge) enqueue(key opKey, name string, op func(ctx context.Context) error, done func(error)) {
	b.mu.Lock()
	prev := b.tails[key]
	ch := make(chan struct{})
	b.tails[key] = ch
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(ch)

		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := op(ctx)
		if err != nil {
			b.logger.Warn("remote sync failed", "op", name, "kind", string(key.kind), "externalID", key.externalID, "error", err)
		}
		if done != nil {
			done(err)
		}

		b.mu.Lock()
		if b.tails[key] == ch {
			delete(b.tails, key)
		}
		b.mu.Unlock()
	}()
}

// allowPush consults the per-title debounce limiter for history pushes.
// Limiters live for the process (one playback session); the first push for a
// title always passes, subsequent ones within the window are skipped, not
// delayed.
func (b *Bridge) allowPush(externalID int) bool {
	b.mu.Lock()
	limiter, ok := b.limiters[externalID]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(b.pushWindow), 1)
		b.limiters[externalID] = limiter
	}
	b.mu.Unlock()
	return limiter.Allow()
}

// === Watchlist view ===

type listSyncer struct {
	b *Bridge
}

func (s listSyncer) PushAdd(profileID string, item domain.CatalogItem, done func(error)) {
	s.b.enqueue(opKey{kindWatchlist, item.ExternalID}, "add", func(ctx context.Context) error {
		return s.b.watchlist.AddWatchlistItem(ctx, profileID, item)
	}, done)
}

func (s listSyncer) PushRemove(profileID string, externalID int, done func(error)) {
	s.b.enqueue(opKey{kindWatchlist, externalID}, "remove", func(ctx context.Context) error {
		return s.b.watchlist.RemoveWatchlistItem(ctx, profileID, externalID)
	}, done)
}

func (s listSyncer) Pull(ctx context.Context, profileID string) ([]domain.ListEntry, error) {
	return s.b.watchlist.GetWatchlist(ctx, profileID)
}

// === History view ===

type progressSyncer struct {
	b *Bridge
}

func (s progressSyncer) PushUpsert(profileID string, entry domain.ProgressEntry, done func(error)) bool {
	if !s.b.allowPush(entry.ExternalID) {
		s.b.logger.Debug("history push debounced", "externalID", entry.ExternalID)
		return false
	}
	s.b.enqueue(opKey{kindHistory, entry.ExternalID}, "upsert", func(ctx context.Context) error {
		return s.b.history.UpsertHistoryItem(ctx, profileID, entry)
	}, done)
	return true
}

func (s progressSyncer) PushRemove(profileID string, externalID int, done func(error)) {
	s.b.enqueue(opKey{kindHistory, externalID}, "remove", func(ctx context.Context) error {
		return s.b.history.RemoveHistoryItem(ctx, profileID, externalID)
	}, done)
}

func (s progressSyncer) PushClear(profileID string, done func(error)) {
	// Clear-all is not keyed to a title; externalID 0 gives it its own lane.
	s.b.enqueue(opKey{kindHistory, 0}, "clear", func(ctx context.Context) error {
		return s.b.history.ClearHistory(ctx, profileID)
	}, done)
}

func (s progressSyncer) Pull(ctx context.Context, profileID string) ([]domain.ProgressEntry, error) {
	return s.b.history.GetHistory(ctx, profileID)
}
