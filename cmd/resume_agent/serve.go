package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes résumé editing, generation and chat endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig
	if servePort != 0 {
		cfg.Port = servePort
	}

	svc, closeService, err := newService(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeService()

	var (
		store    server.Store
		database *db.DB
	)
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		store = database
	} else {
		appLogger.Warn().Msg("DATABASE_URL not set, résumés are kept in memory")
		store = server.NewMemoryStore()
	}

	history, closeHistory, err := openHistory(ctx, cfg, database, appLogger)
	if err != nil {
		return err
	}
	defer closeHistory()

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		Store:           store,
		History:         history,
		Service:         svc,
		Fetcher:         newFetcher(cfg, false, appLogger),
		Logger:          appLogger,
		RateLimit:       ratelimit.LoadConfig(nil),
		ExperienceLevel: cfg.ExperienceLevel,
		Parallelism:     cfg.Parallelism,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
