package domain

import (
	"fmt"
	"time"
)

// MediaKind distinguishes the two catalog content types.
type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// CatalogItem is a read-only record from the external metadata provider.
// Display metadata only; it may be stale versus the provider and is never
// authoritative.
type CatalogItem struct {
	ExternalID int       `json:"externalId"`
	Kind       MediaKind `json:"mediaKind"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
}

// ListEntry is a saved-for-later marker in the watchlist.
// Entries are deduplicated by ExternalID alone; Kind is carried for display
// and for the remote payload but is not part of the dedup key.
type ListEntry struct {
	ExternalID int       `json:"externalId"`
	Kind       MediaKind `json:"mediaKind"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath,omitempty"`
	Rating     float64   `json:"rating,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// ProgressEntry is a resume-playback marker in the continue-watching history.
// Season and Episode are zero for movies.
type ProgressEntry struct {
	ExternalID      int       `json:"externalId"`
	Kind            MediaKind `json:"mediaKind"`
	Title           string    `json:"title"`
	PosterPath      string    `json:"posterPath,omitempty"`
	Rating          float64   `json:"rating,omitempty"`
	PercentComplete float64   `json:"percentComplete"`
	LastWatchedAt   time.Time `json:"lastWatchedAt"`
	Season          int       `json:"season,omitempty"`
	Episode         int       `json:"episode,omitempty"`
}

// EpisodeCode returns the formatted episode code (e.g. "S01E05"), or ""
// for movies.
func (p ProgressEntry) EpisodeCode() string {
	if p.Kind != MediaKindSeries || (p.Season == 0 && p.Episode == 0) {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", p.Season, p.Episode)
}

// ProfileIdentity is the viewing profile that scopes every remote sync call.
type ProfileIdentity struct {
	ProfileID   string `json:"profileId"`
	DisplayName string `json:"displayName"`
	AvatarRef   string `json:"avatarRef,omitempty"`
}

// SyncState tracks where an entry stands relative to the server of record.
// The state is advisory: it never changes cache behavior, it only lets the
// UI layer surface divergence if it wants to.
type SyncState int

const (
	// SyncLocalOnly means the entry exists locally with no confirmed remote
	// counterpart (no profile bound, or push still in flight).
	SyncLocalOnly SyncState = iota

	// SyncConfirmed means the last remote push (or reconcile) for this entry
	// succeeded.
	SyncConfirmed

	// SyncFailed means the last remote push for this entry failed; local
	// state was kept and never rolled back.
	SyncFailed
)

func (s SyncState) String() string {
	switch s {
	case SyncConfirmed:
		return "confirmed"
	case SyncFailed:
		return "failed"
	default:
		return "local-only"
	}
}
