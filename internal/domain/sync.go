package domain

import "context"

// ListSyncer is the watchlist-facing view of the sync bridge. Pushes are
// fire-and-forget: they return immediately, run serialized per externalID,
// and report their outcome through the optional done callback. Pull is the
// one synchronous operation; reconcile callers await it.
type ListSyncer interface {
	PushAdd(profileID string, item CatalogItem, done func(error))
	PushRemove(profileID string, externalID int, done func(error))
	Pull(ctx context.Context, profileID string) ([]ListEntry, error)
}

// ProgressSyncer is the history-facing view of the sync bridge. PushUpsert
// is debounced per externalID; it reports whether a remote push was actually
// scheduled. False means the push was skipped inside the debounce window and
// the done callback will not be invoked.
type ProgressSyncer interface {
	PushUpsert(profileID string, entry ProgressEntry, done func(error)) bool
	PushRemove(profileID string, externalID int, done func(error))
	PushClear(profileID string, done func(error))
	Pull(ctx context.Context, profileID string) ([]ProgressEntry, error)
}
