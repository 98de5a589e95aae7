package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search result cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete cached search results older than a given age",
	RunE:  runCachePurge,
}

var cachePurgeOlderThan time.Duration

func init() {
	cachePurgeCmd.Flags().DurationVar(&cachePurgeOlderThan, "older-than", 0, "Maximum age to keep (default: search_cache_ttl)")
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	if appConfig.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the search cache")
	}
	maxAge := cachePurgeOlderThan
	if maxAge <= 0 {
		maxAge = appConfig.CacheTTL()
	}

	ctx := cmd.Context()
	database, err := openCache(ctx, appConfig.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.PurgeSearchResults(ctx, maxAge)
	if err != nil {
		return fmt.Errorf("failed to purge search cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached searches older than %s\n", n, maxAge)
	return nil
}
