package domain

import "context"

// WatchlistRemote is the remote persistence API surface for the watchlist.
// Every call is scoped by profileID; the server verifies the profile belongs
// to the authenticated session (403 maps to ErrProfileForbidden).
type WatchlistRemote interface {
	// GetWatchlist returns the full server-side watchlist for a profile.
	GetWatchlist(ctx context.Context, profileID string) ([]ListEntry, error)

	// AddWatchlistItem creates a server-side watchlist record.
	AddWatchlistItem(ctx context.Context, profileID string, item CatalogItem) error

	// RemoveWatchlistItem deletes the record keyed by (profileID, externalID).
	RemoveWatchlistItem(ctx context.Context, profileID string, externalID int) error
}

// HistoryRemote is the remote persistence API surface for watch history.
// The server deduplicates on (profileID, externalID), so an upsert replaces
// any prior record for the same title.
type HistoryRemote interface {
	// GetHistory returns the full server-side history for a profile.
	GetHistory(ctx context.Context, profileID string) ([]ProgressEntry, error)

	// UpsertHistoryItem creates or replaces the record for entry.ExternalID.
	UpsertHistoryItem(ctx context.Context, profileID string, entry ProgressEntry) error

	// RemoveHistoryItem deletes the record keyed by (profileID, externalID).
	RemoveHistoryItem(ctx context.Context, profileID string, externalID int) error

	// ClearHistory deletes every history record for a profile.
	ClearHistory(ctx context.Context, profileID string) error
}

// CatalogRepository is the external metadata provider. It is a read-only
// collaborator consumed by the browsing UI; nothing in the sync engine
// depends on it beyond the CatalogItem shape it hands back.
type CatalogRepository interface {
	// Search performs a title search against the provider.
	Search(ctx context.Context, query string) ([]CatalogItem, error)

	// GetItem returns detail metadata for a single title.
	GetItem(ctx context.Context, externalID int, kind MediaKind) (*CatalogItem, error)
}
