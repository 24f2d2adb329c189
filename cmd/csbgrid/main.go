package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sutherm/glos-geo/internal/aggregate"
	"github.com/sutherm/glos-geo/internal/config"
	"github.com/sutherm/glos-geo/internal/ingest"
	"github.com/sutherm/glos-geo/internal/metrics"
	"github.com/sutherm/glos-geo/internal/pipeline"
	"github.com/sutherm/glos-geo/internal/version"
	"github.com/sutherm/glos-geo/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/csbgrid.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting csbgrid",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Manifest == "" {
		logger.Error("config names no source manifest")
		os.Exit(1)
	}

	manifest, err := config.LoadManifest(cfg.Manifest)
	if err != nil {
		logger.Error("failed to load manifest", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"run", cfg.Run.Name,
		"mode", cfg.Run.Mode,
		"sources", len(manifest.Sources),
		"resolutions", cfg.Grid.Resolutions,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Start the metrics server when enabled
	var m *metrics.Metrics
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
		metricsServer = metrics.NewServer(fmt.Sprintf(":%d", cfg.Metrics.Port), cfg.Metrics.Path, logger)
		go func() {
			if err := metricsServer.Start(); err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	// Resolve manifest sources into pipeline inputs
	inputs, err := buildInputs(manifest)
	if err != nil {
		logger.Error("failed to prepare sources", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Outputs.Dir, 0755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	w := writer.New(writer.Config{
		Dir:       cfg.Outputs.Dir,
		Overwrite: cfg.Outputs.Overwrite,
	}, logger)

	pipeCfg := pipeline.Config{
		Name:        cfg.Run.Name,
		Mode:        aggregate.Mode(cfg.Run.Mode),
		Resolutions: cfg.Grid.Resolutions,
		Workers:     cfg.Run.Workers,
		Formats:     cfg.Outputs.Formats,
	}
	if cfg.Grid.BBox != nil {
		box := cfg.Grid.BBox.BoundingBox()
		pipeCfg.BBox = &box
	}

	p := pipeline.New(pipeCfg, w, m, logger)

	summary, err := p.Run(ctx, inputs)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		metricsServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	logger.Info("csbgrid finished",
		"run_id", summary.RunID,
		"complete", summary.Complete,
		"outputs", len(summary.Outputs),
	)

	if !summary.Complete {
		// Partial runs still publish artifacts, but the exit status should
		// tell schedulers something went wrong.
		os.Exit(1)
	}
}

// buildInputs converts manifest sources into pipeline inputs, resolving
// platform metadata where configured. Metadata supplies the survey identity;
// the manifest's source_url carries over since metadata documents have none.
func buildInputs(manifest *config.Manifest) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, 0, len(manifest.Sources))
	for _, sc := range manifest.Sources {
		survey := sc.Survey.SurveyInfo()
		if sc.MetadataPath != "" {
			md, err := ingest.ReadPlatformMetadata(sc.MetadataPath)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", sc.Name, err)
			}
			info := md.SurveyInfo()
			info.SourceURL = survey.SourceURL
			survey = info
		}
		if err := survey.Validate(); err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.Name, err)
		}

		src, err := ingest.New(sc.Format, survey, ingest.DepthUnit(sc.DepthUnit))
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", sc.Name, err)
		}
		inputs = append(inputs, pipeline.Input{Name: sc.Name, Path: sc.Path, Source: src})
	}
	return inputs, nil
}
