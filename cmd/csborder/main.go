package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sutherm/glos-geo/internal/api"
	"github.com/sutherm/glos-geo/internal/config"
	"github.com/sutherm/glos-geo/internal/poller"
	"github.com/sutherm/glos-geo/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/csbgrid.local.yaml", "path to config file")
	start := flag.String("start", "", "bulk order start date (YYYY-MM-DD)")
	end := flag.String("end", "", "bulk order end date (YYYY-MM-DD)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting csborder",
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
	if cfg.Order.URL == "" {
		logger.Error("config has no order.url")
		os.Exit(1)
	}
	if cfg.Grid.BBox == nil {
		logger.Error("config has no grid.bbox to order")
		os.Exit(1)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		logger.Error("invalid -start date", "error", err)
		os.Exit(1)
	}
	endDate, err := time.Parse("2006-01-02", *end)
	if err != nil {
		logger.Error("invalid -end date", "error", err)
		os.Exit(1)
	}

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

	// Create API client
	client := api.NewClient(
		cfg.Order.URL,
		cfg.Order.Contact,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Order.Timeout),
		api.WithRetries(cfg.Order.MaxRetries, time.Second),
	)

	orderID, err := client.SubmitOrder(ctx, api.OrderRequest{
		BBox:      cfg.Grid.BBox.BoundingBox(),
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		logger.Error("failed to submit order", "error", err)
		os.Exit(1)
	}

	logger.Info("awaiting order",
		"order_id", orderID,
		"interval", cfg.Order.PollInterval,
		"max_wait", cfg.Order.MaxWait,
	)

	pollerCfg := poller.Config{
		Interval: cfg.Order.PollInterval,
		MaxWait:  cfg.Order.MaxWait,
		Timeout:  cfg.Order.Timeout,
	}
	status, err := poller.New(pollerCfg, client, logger).Await(ctx, orderID)
	if err != nil {
		logger.Error("order did not finish", "error", err)
		os.Exit(1)
	}

	logger.Info("order complete",
		"order_id", status.OrderID,
		"output_location", status.OutputLocation,
	)

	// Print the artifact location alone for script consumption.
	fmt.Println(status.OutputLocation)
}
