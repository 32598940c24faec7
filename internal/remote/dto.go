package remote

// watchlistRecord is a server-side watchlist row
type watchlistRecord struct {
	ID         int     `json:"id"`
	ProfileID  string  `json:"profileId,omitempty"`
	ExternalID int     `json:"externalId"`
	MediaKind  string  `json:"mediaKind"`
	Title      string  `json:"title"`
	PosterPath string  `json:"posterPath,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	AddedAt    string  `json:"addedAt,omitempty"`
}

// historyRecord is a server-side watch-history row.
// The remote contract carries no season/episode fields; those exist only in
// the local cache and do not survive a reconcile.
type historyRecord struct {
	ID              int     `json:"id"`
	ProfileID       string  `json:"profileId,omitempty"`
	ExternalID      int     `json:"externalId"`
	MediaKind       string  `json:"mediaKind"`
	Title           string  `json:"title"`
	PosterPath      string  `json:"posterPath,omitempty"`
	PercentComplete float64 `json:"percentComplete"`
	LastWatchedAt   string  `json:"lastWatchedAt,omitempty"`
}

// watchlistCreate is the POST /watchlist request body
type watchlistCreate struct {
	ProfileID  string  `json:"profileId"`
	ExternalID int     `json:"externalId"`
	MediaKind  string  `json:"mediaKind"`
	Title      string  `json:"title"`
	PosterPath string  `json:"posterPath,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// historyUpsert is the POST /history request body
type historyUpsert struct {
	ProfileID       string  `json:"profileId"`
	ExternalID      int     `json:"externalId"`
	MediaKind       string  `json:"mediaKind"`
	Title           string  `json:"title"`
	PosterPath      string  `json:"posterPath,omitempty"`
	PercentComplete float64 `json:"percentComplete"`
}

// deleteResponse is returned by every DELETE endpoint
type deleteResponse struct {
	Success bool `json:"success"`
}
