package main

import (
	"context"
	"fmt"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	"github.com/urfave/cli/v3"
)

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		r.profileCommand(),
		r.watchlistCommand(),
		r.historyCommand(),
		r.reconcileCommand(),
	}
}

func titleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "id", Usage: "Catalog external ID", Required: true},
		&cli.StringFlag{Name: "kind", Usage: "Media kind: movie or series", Value: "movie"},
		&cli.StringFlag{Name: "title", Usage: "Display title", Required: true},
		&cli.StringFlag{Name: "poster", Usage: "Poster path"},
		&cli.FloatFlag{Name: "rating", Usage: "Catalog rating (0-10)"},
	}
}

func catalogItemFromFlags(cmd *cli.Command) (domain.CatalogItem, error) {
	kind := domain.MediaKind(cmd.String("kind"))
	if kind != domain.MediaKindMovie && kind != domain.MediaKindSeries {
		return domain.CatalogItem{}, fmt.Errorf("unknown media kind %q", cmd.String("kind"))
	}
	return domain.CatalogItem{
		ExternalID: int(cmd.Int("id")),
		Kind:       kind,
		Title:      cmd.String("title"),
		PosterPath: cmd.String("poster"),
		Rating:     cmd.Float("rating"),
	}, nil
}

func (r *Runner) profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the active viewing profile",
		Commands: []*cli.Command{
			{
				Name:  "select",
				Usage: "Bind a viewing profile and reconcile both caches against it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Profile ID", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "avatar", Usage: "Avatar reference"},
				},
				Action: r.ProfileSelect,
			},
			{
				Name:   "clear",
				Usage:  "Sign the active profile out (cache contents are kept until the next reconcile)",
				Action: r.ProfileClear,
			},
			{
				Name:   "show",
				Usage:  "Show the active profile",
				Action: r.ProfileShow,
			},
		},
	}
}

// ProfileSelect binds the profile and then reconciles both caches, the same
// orchestration the UI performs on the who's-watching screen.
func (r *Runner) ProfileSelect(ctx context.Context, cmd *cli.Command) error {
	identity := domain.ProfileIdentity{
		ProfileID:   cmd.String("id"),
		DisplayName: cmd.String("name"),
		AvatarRef:   cmd.String("avatar"),
	}
	r.profiles.Select(identity)

	if err := r.watchlist.Reconcile(ctx, identity.ProfileID); err != nil {
		r.printf("warning: watchlist reconcile failed, local snapshot kept: %v\n", err)
	}
	if err := r.history.Reconcile(ctx, identity.ProfileID); err != nil {
		r.printf("warning: history reconcile failed, local snapshot kept: %v\n", err)
	}
	r.printf("profile %s (%s) selected\n", identity.DisplayName, identity.ProfileID)
	return nil
}

func (r *Runner) ProfileClear(ctx context.Context, cmd *cli.Command) error {
	r.profiles.Clear()
	r.printf("profile cleared\n")
	return nil
}

func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	identity, ok := r.profiles.Current()
	if !ok {
		r.printf("no profile selected (local-only mode)\n")
		return nil
	}
	r.printf("%s (%s)\n", identity.DisplayName, identity.ProfileID)
	return nil
}

func (r *Runner) watchlistCommand() *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Saved-for-later list",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Save a title for later",
				Flags:  titleFlags(),
				Action: r.WatchlistAdd,
			},
			{
				Name:  "rm",
				Usage: "Remove a title",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Catalog external ID", Required: true},
				},
				Action: r.WatchlistRemove,
			},
			{
				Name:   "ls",
				Usage:  "List saved titles",
				Action: r.WatchlistList,
			},
			{
				Name:   "clear",
				Usage:  "Drop the local watchlist (server copy is untouched)",
				Action: r.WatchlistClear,
			},
		},
	}
}

func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	item, err := catalogItemFromFlags(cmd)
	if err != nil {
		return err
	}
	r.watchlist.Add(item, r.profileID())
	r.printf("added %q to watchlist\n", item.Title)
	return nil
}

func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	externalID := int(cmd.Int("id"))
	if !r.watchlist.Contains(externalID) {
		r.printf("%d is not on the watchlist\n", externalID)
		return nil
	}
	r.watchlist.Remove(externalID, r.profileID())
	r.printf("removed %d from watchlist\n", externalID)
	return nil
}

func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	entries := r.watchlist.Entries()
	if len(entries) == 0 {
		r.printf("watchlist is empty\n")
		return nil
	}
	for _, e := range entries {
		r.printListEntry(e)
	}
	return nil
}

func (r *Runner) WatchlistClear(ctx context.Context, cmd *cli.Command) error {
	r.watchlist.Clear()
	r.printf("watchlist cleared locally\n")
	return nil
}

func (r *Runner) historyCommand() *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"cw"},
		Usage:   "Continue-watching history",
		Commands: []*cli.Command{
			{
				Name:  "upsert",
				Usage: "Record playback progress for a title",
				Flags: append(titleFlags(),
					&cli.FloatFlag{Name: "percent", Usage: "Completion percentage (0-100)", Required: true},
					&cli.IntFlag{Name: "season", Usage: "Season number (series only)"},
					&cli.IntFlag{Name: "episode", Usage: "Episode number (series only)"},
				),
				Action: r.HistoryUpsert,
			},
			{
				Name:  "rm",
				Usage: "Remove a title from history",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Usage: "Catalog external ID", Required: true},
				},
				Action: r.HistoryRemove,
			},
			{
				Name:   "ls",
				Usage:  "List history, most recently watched first",
				Action: r.HistoryList,
			},
			{
				Name:   "clear",
				Usage:  "Clear history locally and, with a profile bound, on the server",
				Action: r.HistoryClear,
			},
		},
	}
}

func (r *Runner) HistoryUpsert(ctx context.Context, cmd *cli.Command) error {
	item, err := catalogItemFromFlags(cmd)
	if err != nil {
		return err
	}
	r.history.Upsert(item, cmd.Float("percent"), int(cmd.Int("season")), int(cmd.Int("episode")), r.profileID())
	r.printf("recorded progress for %q\n", item.Title)
	return nil
}

func (r *Runner) HistoryRemove(ctx context.Context, cmd *cli.Command) error {
	externalID := int(cmd.Int("id"))
	if !r.history.Contains(externalID) {
		r.printf("%d is not in history\n", externalID)
		return nil
	}
	r.history.Remove(externalID, r.profileID())
	r.printf("removed %d from history\n", externalID)
	return nil
}

func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	entries := r.history.List()
	if len(entries) == 0 {
		r.printf("history is empty\n")
		return nil
	}
	for _, e := range entries {
		r.printProgressEntry(e)
	}
	return nil
}

func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	r.history.Clear(r.profileID())
	r.printf("history cleared\n")
	return nil
}

func (r *Runner) reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:   "reconcile",
		Usage:  "Replace both local caches with the server record set for the active profile",
		Action: r.Reconcile,
	}
}

func (r *Runner) Reconcile(ctx context.Context, cmd *cli.Command) error {
	profileID := r.profileID()
	if profileID == "" {
		return domain.ErrNoProfile
	}
	if err := r.watchlist.Reconcile(ctx, profileID); err != nil {
		return fmt.Errorf("watchlist reconcile: %w", err)
	}
	if err := r.history.Reconcile(ctx, profileID); err != nil {
		return fmt.Errorf("history reconcile: %w", err)
	}
	r.printf("reconciled %d watchlist entries, %d history entries\n", r.watchlist.Len(), r.history.Len())
	return nil
}
