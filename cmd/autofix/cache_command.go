package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"autofix/internal/linkcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the short link cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func cachePath(ctx *commandContext) (string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Paths.CachePath == "" {
		return "", errors.New("link cache disabled (paths.cache_path is empty)")
	}
	return cfg.Paths.CachePath, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show link cache size and age",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintf(out, "Link cache %s does not exist yet\n", path)
				return nil
			}
			store, err := linkcache.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Path", stats.Path},
				{"Entries", humanize.Comma(int64(stats.Entries))},
				{"Size", humanize.Bytes(uint64(stats.FileSize))},
			}
			if stats.Entries > 0 {
				rows = append(rows,
					[]string{"Oldest", humanize.Time(stats.Oldest)},
					[]string{"Newest", humanize.Time(stats.Newest)},
				)
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Link cache", ""},
				rows:    rows,
			}))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached short links",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cachePath(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if reset {
				if err := linkcache.Remove(path); err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed link cache %s\n", path)
				return nil
			}

			store, err := linkcache.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared %s cached links\n", humanize.Comma(n))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete the cache database instead of emptying it")
	return cmd
}
