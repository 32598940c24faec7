package profile

import (
	"log/slog"
	"sync"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
)

// Binding holds the single active viewing profile. It is the one source of
// truth for sync scoping: components read the current identity on every use
// and never cache it, so a profile switch immediately changes the scope of
// subsequent syncs.
//
// Select does not reconcile the caches. The caller orchestrating a profile
// switch invokes ListCache/ProgressCache Reconcile afterward; likewise Clear
// leaves cache contents in place (last snapshot stays visible until the next
// profile reconciles, which avoids a flicker to empty at the cost of a brief
// stale view).
type Binding struct {
	store  domain.Store
	logger *slog.Logger

	mu        sync.RWMutex
	current   *domain.ProfileIdentity
	listeners []func(*domain.ProfileIdentity)
}

// NewBinding creates a binding seeded from the persisted profile slot
func NewBinding(store domain.Store, logger *slog.Logger) *Binding {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Binding{store: store, logger: logger}
	if p, ok := store.GetProfile(); ok {
		b.current = p
		logger.Debug("restored profile", "profileID", p.ProfileID, "name", p.DisplayName)
	}
	return b
}

// Select binds identity as the active profile and persists the choice.
// Subscribers are notified so dependent UI can navigate to the main
// experience.
func (b *Binding) Select(identity domain.ProfileIdentity) {
	b.mu.Lock()
	p := identity
	b.current = &p
	if err := b.store.SaveProfile(&p); err != nil {
		b.logger.Warn("failed to persist profile selection", "error", err)
	}
	listeners := make([]func(*domain.ProfileIdentity), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	b.logger.Info("profile selected", "profileID", identity.ProfileID, "name", identity.DisplayName)
	for _, fn := range listeners {
		fn(&p)
	}
}

// Clear unbinds the active profile and persists the cleared state
func (b *Binding) Clear() {
	b.mu.Lock()
	b.current = nil
	b.store.ClearProfile()
	listeners := make([]func(*domain.ProfileIdentity), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	b.logger.Info("profile cleared")
	for _, fn := range listeners {
		fn(nil)
	}
}

// Current returns the active profile, if any
func (b *Binding) Current() (domain.ProfileIdentity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return domain.ProfileIdentity{}, false
	}
	return *b.current, true
}

// ProfileID returns the active profile ID, or "" when unbound. The empty
// string is what the caches take to mean "skip the remote half".
func (b *Binding) ProfileID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return ""
	}
	return b.current.ProfileID
}

// Subscribe registers fn to run on every Select and Clear. A nil identity
// means the profile was cleared.
func (b *Binding) Subscribe(fn func(*domain.ProfileIdentity)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}
