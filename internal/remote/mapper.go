package remote

import (
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
)

// mapListEntries converts server watchlist rows to domain entries
func mapListEntries(records []watchlistRecord) []domain.ListEntry {
	entries := make([]domain.ListEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.ListEntry{
			ExternalID: r.ExternalID,
			Kind:       domain.MediaKind(r.MediaKind),
			Title:      r.Title,
			PosterPath: r.PosterPath,
			Rating:     r.Rating,
			AddedAt:    parseTimestamp(r.AddedAt),
		})
	}
	return entries
}

// mapProgressEntries converts server history rows to domain entries.
// Season/episode come back zero: the remote record does not carry them.
func mapProgressEntries(records []historyRecord) []domain.ProgressEntry {
	entries := make([]domain.ProgressEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.ProgressEntry{
			ExternalID:      r.ExternalID,
			Kind:            domain.MediaKind(r.MediaKind),
			Title:           r.Title,
			PosterPath:      r.PosterPath,
			PercentComplete: r.PercentComplete,
			LastWatchedAt:   parseTimestamp(r.LastWatchedAt),
		})
	}
	return entries
}

// parseTimestamp parses the server's RFC3339 timestamps; a missing or
// malformed value maps to the zero time rather than failing the fetch.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
