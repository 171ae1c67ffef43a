package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/chat"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/schemas"
	embedded "github.com/jonathan/resume-builder/schemas"
	"github.com/rs/zerolog"
)

// newService connects to the model provider. The returned func releases the client.
func newService(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*generation.GeminiService, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("API key is required (set %s or api_key in the config file)", config.EnvAPIKey)
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig().WithOverrides(cfg.Models), cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	svc := generation.NewGeminiService(client, cfg.RequestsPerMinute, logger)
	return svc, func() { _ = client.Close() }, nil
}

// newOrchestrator builds an orchestrator configured from cfg
func newOrchestrator(svc generation.Service, cfg *config.Config, logger zerolog.Logger) *generation.Orchestrator {
	return generation.NewOrchestrator(svc, nil, logger,
		generation.WithExperienceLevel(cfg.ExperienceLevel),
		generation.WithParallelism(cfg.Parallelism),
	)
}

// newFetcher returns a job description fetcher, with the browser fallback when enabled
func newFetcher(cfg *config.Config, forceBrowser bool, logger zerolog.Logger) *fetch.Fetcher {
	opts := []fetch.Option{fetch.WithLogger(logger)}
	if cfg.UseBrowser || forceBrowser {
		opts = append(opts, fetch.WithRenderer(fetch.NewChromeRenderer(logger)))
	}
	return fetch.New(opts...)
}

// openHistory picks the chat history backend: Redis when configured, then
// PostgreSQL when database is non-nil, otherwise process memory
func openHistory(ctx context.Context, cfg *config.Config, database *db.DB, logger zerolog.Logger) (chat.HistoryStore, func(), error) {
	if cfg.RedisURL != "" {
		ttl, err := cfg.HistoryTTL()
		if err != nil {
			return nil, nil, err
		}
		store, err := chat.NewRedisStoreFromURL(ctx, cfg.RedisURL, ttl)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("chat history stored in redis")
		return store, func() { _ = store.Close() }, nil
	}
	if database != nil {
		logger.Info().Msg("chat history stored in postgres")
		return database.ChatHistory(), func() {}, nil
	}
	logger.Warn().Msg("chat history kept in memory only")
	return chat.NewMemoryStore(), func() {}, nil
}

// readDocument loads a schema-valid résumé from path
func readDocument(path string) (resume.Document, error) {
	if path == "" {
		return resume.Document{}, errors.New("input file is required (--in)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return resume.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(embedded.Resume, data); err != nil {
		return resume.Document{}, err
	}
	return resume.Decode(data)
}

// writeDocument stores doc as indented JSON
func writeDocument(path string, doc resume.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
