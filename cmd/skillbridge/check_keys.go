package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/skillbridge/internal/analysis"
	"github.com/jonathan/skillbridge/internal/config"
	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 30 * time.Second

var checkKeysCmd = &cobra.Command{
	Use:   "check-keys",
	Short: "Verify the configured API keys",
	Long:  "Check the reasoning and search service keys for obvious mistakes, then send one small request to each service.",
	RunE:  runCheckKeys,
}

var checkKeysOffline bool

func init() {
	checkKeysCmd.Flags().BoolVar(&checkKeysOffline, "offline", false, "Only check key formats, send no requests")
	rootCmd.AddCommand(checkKeysCmd)
}

// keyCheck is the outcome for one service.
type keyCheck struct {
	Name string
	Err  error
}

func runCheckKeys(cmd *cobra.Command, _ []string) error {
	checks := make([]keyCheck, 2)
	g, ctx := errgroup.WithContext(cmd.Context())

	// Probes never fail the group so every service is reported.
	g.Go(func() error {
		checks[0] = keyCheck{Name: appConfig.LLMKeyName(), Err: probeLLM(ctx, appConfig)}
		return nil
	})
	g.Go(func() error {
		checks[1] = keyCheck{Name: appConfig.SearchKeyName(), Err: probeSearch(ctx, appConfig)}
		return nil
	})
	_ = g.Wait()

	failed := 0
	for _, c := range checks {
		if c.Err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", c.Name, c.Err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK   %s\n", c.Name)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d key checks failed", failed, len(checks))
	}
	return nil
}

func probeLLM(ctx context.Context, cfg *config.Config) error {
	if err := config.ValidateAPIKey(cfg.LLMKeyName(), cfg.LLMAPIKey()); err != nil {
		return err
	}
	if checkKeysOffline {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.LLMAPIKey())
	if err != nil {
		return err
	}
	defer client.Close()
	return analysis.New(client, cfg.AnalysisOptions()).Probe(ctx)
}

func probeSearch(ctx context.Context, cfg *config.Config) error {
	if err := config.ValidateAPIKey(cfg.SearchKeyName(), cfg.SearchAPIKey()); err != nil {
		return err
	}
	if checkKeysOffline {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	searcher, err := search.New(ctx, cfg.SearchConfig())
	if err != nil {
		return err
	}
	_, err = searcher.Search(ctx, search.Query{Text: "Go tutorial", Count: 1})
	return err
}
