package main

import (
	"context"

	"github.com/spf13/cobra"

	"pagesmith/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the published-site page cache",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush [host...]",
	Short: "Drop cached pages for the given hosts, or for every host",
	RunE:  runCacheFlush,
}

func init() {
	cacheCmd.AddCommand(cacheFlushCmd)
}

func runCacheFlush(cmd *cobra.Command, hosts []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := cache.Connect(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer client.Close()

	pages := cache.NewPageCache(client, cache.DefaultPageTTL)
	if len(hosts) == 0 {
		pages.InvalidateAll(ctx)
		return nil
	}
	for _, host := range hosts {
		pages.Invalidate(ctx, host)
	}
	return nil
}
