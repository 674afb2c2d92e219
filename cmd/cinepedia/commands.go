package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cinepedia/cinepedia/internal/adapter"
	"github.com/cinepedia/cinepedia/internal/domain"
	"github.com/cinepedia/cinepedia/internal/search"
	"github.com/cinepedia/cinepedia/internal/settings"
	"github.com/spf13/cobra"
)

const requestTimeout = 150 * time.Second

func newFetchCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>...",
		Short: "Fetch records by IMDb ID and merge them into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			a.catalog.Load()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			res, err := a.commands.FetchBatch(ctx, args)
			a.printNotices(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d fetched, catalog holds %d\n", res.Accepted, res.Requested, a.catalog.Len())
			return nil
		}),
	}
}

func newSearchCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Replace the catalog with the top OMDb matches for query",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			a.catalog.Load()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			out, err := a.commands.Search(ctx, strings.Join(args, " "))
			a.printNotices(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if out.Accepted > 0 {
				a.printRecords(cmd.OutOrStdout(), a.catalog.Records())
			}
			return nil
		}),
	}
}

func newLookupCmd(r *runner) *cobra.Command {
	var add bool

	cmd := &cobra.Command{
		Use:   "lookup <title>",
		Short: "Preview the best OMDb match for a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			a.catalog.Load()

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			rec, found, err := a.commands.LookupTitle(ctx, strings.Join(args, " "))
			if err != nil || !found {
				a.printNotices(cmd.OutOrStdout())
				return err
			}

			a.printRecord(cmd.OutOrStdout(), rec)
			for _, d := range a.queries.FindByTitle(rec.Title) {
				if d.ID == rec.ID {
					fmt.Fprintln(cmd.OutOrStdout(), a.theme().Dim.Render("already in library"))
				}
			}

			if add {
				if err := a.commands.AddToLibrary(rec); err != nil {
					a.printNotices(cmd.OutOrStdout())
					return err
				}
			}
			a.printNotices(cmd.OutOrStdout())
			return nil
		}),
	}

	cmd.Flags().BoolVar(&add, "add", false, "add the match to the front of the catalog")
	return cmd
}

func newListCmd(r *runner) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog, bootstrapping it from the seed IDs when empty",
		Args:  cobra.NoArgs,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.ready(cmd.Context()); err != nil {
				return err
			}

			records := a.catalog.Records()
			if filter != "" {
				results := search.Filter(filter, records)
				records = make([]domain.Record, len(results))
				for i, res := range results {
					records[i] = res.Record
				}
			}
			a.printRecords(cmd.OutOrStdout(), records)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on titles")
	return cmd
}

func newDeleteCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a record from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			a.catalog.Load()

			err := a.commands.RemoveFromLibrary(args[0])
			a.printNotices(cmd.OutOrStdout())
			return err
		}),
	}
}

func newEditCmd(r *runner) *cobra.Command {
	var title, year, genre, plot, rating string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of a catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			a.catalog.Load()

			rec, ok := a.queries.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrRecordNotFound, args[0])
			}

			flags := cmd.Flags()
			for name, field := range map[string]*string{
				"title":  &rec.Title,
				"year":   &rec.Year,
				"genre":  &rec.Genre,
				"plot":   &rec.Plot,
				"rating": &rec.Rating,
			} {
				if flags.Changed(name) {
					*field, _ = flags.GetString(name)
				}
			}

			err := a.commands.EditRecord(rec)
			a.printNotices(cmd.OutOrStdout())
			return err
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&year, "year", "", "new release year")
	cmd.Flags().StringVar(&genre, "genre", "", "new genre list")
	cmd.Flags().StringVar(&plot, "plot", "", "new plot summary")
	cmd.Flags().StringVar(&rating, "rating", "", "new rating")
	return cmd
}

func newWatchlistCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "watchlist <id>",
		Short: "Toggle a catalog record on the watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			rec, err := a.record(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = a.profile.ToggleWatch(rec)
			a.printNotices(cmd.OutOrStdout())
			return err
		}),
	}
}

func newWatchCmd(r *runner) *cobra.Command {
	var noLaunch bool

	cmd := &cobra.Command{
		Use:   "watch <id>",
		Short: "Start a watch session and open the trailer",
		Args:  cobra.ExactArgs(1),
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			rec, err := a.record(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if _, err := a.profile.NewWatchSession(rec).Start(); err != nil {
				return err
			}
			a.printNotices(cmd.OutOrStdout())

			if noLaunch {
				fmt.Fprintln(cmd.OutOrStdout(), rec.VideoURL)
				return nil
			}
			return a.launcher.Launch(rec.VideoURL)
		}),
	}

	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "print the trailer URL instead of opening it")
	return cmd
}

func newProfileCmd(r *runner) *cobra.Command {
	var clearSearches bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the local profile",
		Args:  cobra.NoArgs,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			if clearSearches {
				if err := a.profile.ClearSearchHistory(); err != nil {
					return err
				}
			}
			a.catalog.Load()
			a.printProfile(cmd.OutOrStdout())
			return nil
		}),
	}

	cmd.Flags().BoolVar(&clearSearches, "clear-searches", false, "clear the search history first")
	return cmd
}

func newThemeCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [name]",
		Short:     "Show or switch the visual theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: settings.Themes,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			if len(args) == 0 {
				current := a.settings.Theme()
				for _, name := range settings.Themes {
					if name == current {
						fmt.Fprintln(cmd.OutOrStdout(), a.theme().Accent.Render("* "+name))
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), "  "+name)
					}
				}
				return nil
			}

			err := a.settings.SetTheme(args[0])
			a.printNotices(cmd.OutOrStdout())
			return err
		}),
	}
}

func newMaintenanceCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:       "maintenance on|off",
		Short:     "Toggle maintenance mode for the gallery",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			return a.settings.SetMaintenance(args[0] == "on")
		}),
	}
}

func newAnnounceCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "announce [text]",
		Short: "Set the global announcement banner; no text clears it",
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			return a.settings.SetAnnouncement(strings.Join(args, " "))
		}),
	}
}

func newResetCmd(r *runner) *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the stored catalog, profile and settings",
		Args:  cobra.NoArgs,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			if purge {
				if err := a.store.Close(); err != nil {
					return err
				}
				a.store = nil
				if err := adapter.RemoveData(a.cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "removed", a.cfg.Storage.Path)
				return nil
			}

			if err := a.store.Clear(); err != nil {
				return fmt.Errorf("failed to clear store: %w", err)
			}
			a.catalog.Reset()
			if err := a.profile.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local data cleared")
			return nil
		}),
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "delete the store file instead of emptying it")
	return cmd
}

func newConfigCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the default config file",
		Args:  cobra.NoArgs,
		RunE: r.with(func(cmd *cobra.Command, args []string, a *app) error {
			path, err := adapter.SaveConfig(a.cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		}),
	})
	return cmd
}

// record finds id in the catalog, bootstrapping it first when empty
func (a *app) record(ctx context.Context, id string) (domain.Record, error) {
	if err := a.ready(ctx); err != nil {
		return domain.Record{}, err
	}
	rec, ok := a.queries.Get(id)
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return rec, nil
}
