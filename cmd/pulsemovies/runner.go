package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/adapter"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/bridge"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/history"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/profile"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/remote"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/store"
	"github.com/SakshamKandel/Pulsemovies--sub000/internal/watchlist"
)

// Runner holds the wired sync engine for CLI command actions.
type Runner struct {
	cfg       *adapter.Config
	logger    *slog.Logger
	store     *store.ClientStore
	bridge    *bridge.Bridge
	watchlist *watchlist.Cache
	history   *history.Cache
	profiles  *profile.Binding
	output    io.Writer
}

// NewRunner wires config, logger, store, bridge, caches and the profile
// binding into a ready-to-use engine.
func NewRunner(cfg *adapter.Config, logger *slog.Logger) (*Runner, error) {
	st, err := store.NewClientStore(cfg.Storage.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	client := remote.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	br := bridge.New(client, client, time.Duration(cfg.Sync.PushWindowSeconds)*time.Second, logger)

	return &Runner{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		bridge:    br,
		watchlist: watchlist.NewCache(st, br.Watchlist(), logger),
		history:   history.NewCache(st, br.History(), logger),
		profiles:  profile.NewBinding(st, logger),
		output:    os.Stdout,
	}, nil
}

// Close drains in-flight pushes and releases the store. Commands are
// short-lived, so without the flush the fire-and-forget pushes would die
// with the process.
func (r *Runner) Close() error {
	r.bridge.Flush()
	return r.store.Close()
}

// profileID returns the active profile scope, or "" for local-only mode
func (r *Runner) profileID() string {
	return r.profiles.ProfileID()
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.output, format, args...)
}

func (r *Runner) printListEntry(e domain.ListEntry) {
	r.printf("%8d  %-6s  %-40s  added %s\n", e.ExternalID, e.Kind, e.Title, e.AddedAt.Format("2006-01-02 15:04"))
}

func (r *Runner) printProgressEntry(e domain.ProgressEntry) {
	code := e.EpisodeCode()
	if code != "" {
		code = " " + code
	}
	r.printf("%8d  %-6s  %-40s%s  %5.1f%%  watched %s\n",
		e.ExternalID, e.Kind, e.Title, code, e.PercentComplete, e.LastWatchedAt.Format("2006-01-02 15:04"))
}
