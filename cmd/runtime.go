package cmd

import (
	"fmt"
	"strings"

	"hourlog/config"
	"hourlog/extract"
	"hourlog/remote"
	"hourlog/storage"
	"hourlog/taxonomy"
)

// newExtractionService loads the taxonomy and builds the strategy chain.
// A non-empty strategies list replaces the configured order.
func newExtractionService(cfg *config.Config, strategies []string) (*extract.Service, *taxonomy.Index, error) {
	index, err := taxonomy.Load(cfg.Taxonomy.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load taxonomy: %w", err)
	}

	order := cfg.Extract.Strategies
	if len(strategies) > 0 {
		order = strategies
	}

	built, err := extract.BuildStrategies(order, extract.Dependencies{
		Taxonomy: index,
		OpenAI: remote.OpenAIConfig{
			APIKey:      cfg.OpenAI.APIKey,
			Model:       cfg.OpenAI.Model,
			BaseURL:     cfg.OpenAI.BaseURL,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Temperature: cfg.OpenAI.Temperature,
			Timeout:     cfg.Remote.Timeout,
		},
		Gemini: remote.GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			URL:     cfg.Gemini.URL,
			Timeout: cfg.Remote.Timeout,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	orchestrator := extract.NewOrchestrator(built, extract.WithErrorReporting(cfg.Extract.ReportErrors))
	return extract.NewService(orchestrator), index, nil
}

// openOptionalStore opens the database at path, or returns nil for an empty path.
func openOptionalStore(path string) (*storage.SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	return storage.OpenSQLite(path)
}
