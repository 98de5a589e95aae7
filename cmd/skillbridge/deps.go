package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/skillbridge/internal/analysis"
	"github.com/jonathan/skillbridge/internal/config"
	"github.com/jonathan/skillbridge/internal/db"
	"github.com/jonathan/skillbridge/internal/llm"
	"github.com/jonathan/skillbridge/internal/pipeline"
	"github.com/jonathan/skillbridge/internal/recommend"
	"github.com/jonathan/skillbridge/internal/retry"
	"github.com/jonathan/skillbridge/internal/search"
)

// needs selects which external services a command talks to.
type needs struct {
	analysis bool
	search   bool
}

// deps holds the services built from the configuration.
type deps struct {
	client   llm.Client
	database *db.DB
	pipeline *pipeline.Pipeline
}

// buildDeps validates the keys the command needs and wires the pipeline.
// Services a command does not need stay nil.
func buildDeps(ctx context.Context, cfg *config.Config, n needs) (*deps, error) {
	if n.analysis {
		if err := config.ValidateAPIKey(cfg.LLMKeyName(), cfg.LLMAPIKey()); err != nil {
			return nil, err
		}
	}
	if n.search {
		if err := config.ValidateAPIKey(cfg.SearchKeyName(), cfg.SearchAPIKey()); err != nil {
			return nil, err
		}
	}

	d := &deps{}
	var analyzer pipeline.Analyzer
	if n.analysis {
		client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.LLMAPIKey())
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		d.client = client
		analyzer = analysis.New(client, cfg.AnalysisOptions())
	}

	var recommender pipeline.Recommender
	if n.search {
		searcher, err := search.New(ctx, cfg.SearchConfig())
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to create search client: %w", err)
		}

		if cfg.DatabaseURL != "" {
			database, err := openCache(ctx, cfg.DatabaseURL)
			if err != nil {
				d.Close()
				return nil, err
			}
			d.database = database
			searcher = search.NewCached(searcher, database, cfg.CacheTTL())
			slog.Debug("search cache enabled", slog.Duration("ttl", cfg.CacheTTL()))
		}

		recommender = recommend.New(searcher, recommend.Options{
			MaxCandidates: cfg.NumResults,
			Retry:         retry.DefaultPolicy,
		})
	}

	d.pipeline = pipeline.New(analyzer, recommender, cfg.DocumentOptions())
	return d, nil
}

func openCache(ctx context.Context, databaseURL string) (*db.DB, error) {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to prepare search cache: %w", err)
	}
	return database, nil
}

// Close releases the LLM client and the database pool.
func (d *deps) Close() {
	if d.client != nil {
		if err := d.client.Close(); err != nil {
			slog.Debug("closing LLM client", slog.Any("error", err))
		}
	}
	if d.database != nil {
		d.database.Close()
	}
}
