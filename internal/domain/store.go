package domain

// Store handles durable local persistence (BoltDB + memory).
// Each logical cache owns exactly one slot; nothing else may touch it.
//
// Loads report (value, ok); a corrupt or absent blob reads as ok=false and
// is treated as empty by callers. Saves are best-effort: a failed write is
// logged by the caller and swallowed, the in-memory collection stays
// authoritative for the session.
type Store interface {
	// === Watchlist slot ===
	GetWatchlist() ([]ListEntry, bool)
	SaveWatchlist(entries []ListEntry) error

	// === Continue-watching slot ===
	GetHistory() ([]ProgressEntry, bool)
	SaveHistory(entries []ProgressEntry) error

	// === Active profile slot ===
	GetProfile() (*ProfileIdentity, bool)
	SaveProfile(p *ProfileIdentity) error
	ClearProfile()

	Close() error
}
