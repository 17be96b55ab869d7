package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/treasury-dashboard/internal/balance_feed"
	"github.com/treasury-dashboard/internal/config"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/events"
	"github.com/treasury-dashboard/internal/logger"
	"github.com/treasury-dashboard/internal/platform/messaging/consumers"
	"github.com/treasury-dashboard/internal/platform/messaging/producers"
	"github.com/treasury-dashboard/internal/platform/metrics"
	"github.com/treasury-dashboard/internal/reporting"
	"github.com/treasury-dashboard/internal/treasury_api"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("treasury_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Treasury API",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
		"seed_source", cfg.Treasury.SeedSource,
		"transition_policy", cfg.Treasury.TransitionPolicy,
	)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(cfg.Metrics.Namespace)
	if err := collector.Register(registry); err != nil {
		log.Error("Failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Load the treasury state
	state, err := loadState(appCtx, log, cfg, collector)
	if err != nil {
		log.Error("Failed to load treasury state", "error", err)
		os.Exit(1)
	}
	log.Info("Treasury state loaded", "version", state.Version())

	rates := treasury.NewStaticRates(cfg.Treasury.BaseCurrency, cfg.Treasury.FXRates)

	// Create error channel for service errors
	errChan := make(chan error, 2)

	// Create wait group for background workers
	var wg sync.WaitGroup

	// Start the Kafka integration
	var (
		publisher       *events.GuardedPublisher
		changePublisher *events.ChangePublisher
		dlqProducer     *producers.DLQProducer
		feedConsumer    *consumers.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		eventProducer, err := producers.NewEventProducer(appCtx, log, &cfg.Kafka)
		if err != nil {
			log.Error("Failed to initialize events Kafka producer", "error", err)
			os.Exit(1)
		}
		publisher = events.NewGuardedPublisher(eventProducer, &cfg.CircuitBreaker, cfg.Kafka.PublishTimeout, collector, log)

		changePublisher, err = events.NewChangePublisher(state, publisher, cfg.WorkerPool.Size, cfg.Treasury.SubscriberBuffer, log)
		if err != nil {
			log.Error("Failed to initialize change publisher", "error", err)
			os.Exit(1)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			changePublisher.Run(appCtx)
		}()

		dlqProducer, err = producers.NewDLQProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.BalanceFeedTopic)
		if err != nil {
			log.Error("Failed to initialize DLQ Kafka producer", "error", err)
			os.Exit(1)
		}
		// dlqProducer is nil when no DLQ topic is configured
		var deadLetters producers.DeadLetterPublisher
		if dlqProducer != nil {
			deadLetters = dlqProducer
		}

		if err := producers.EnsureTopic(appCtx, log, &cfg.Kafka, cfg.Kafka.BalanceFeedTopic); err != nil {
			log.Error("Failed to ensure balance feed topic", "error", err)
			os.Exit(1)
		}
		feedHandler := balance_feed.NewHandler(log, state, deadLetters, collector)
		feedConsumer = consumers.NewKafkaConsumer(log, &cfg.Kafka, cfg.Kafka.BalanceFeedTopic)
		if err := feedConsumer.Subscribe(appCtx, feedHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}

		if cfg.Reporter.Enabled {
			reporter := reporting.NewPositionReporter(state, publisher, rates, cfg.Reporter.Interval, log)
			wg.Add(1)
			go func() {
				defer wg.Done()
				reporter.Start(appCtx)
			}()
		}
	} else {
		log.Info("Kafka disabled: change events, balance feed and position reports are off")
	}

	// Initialize REST server
	api := service.NewTreasuryService(log, state, rates)
	server := treasury_api.NewServer(log, cfg, api, registry, collector)

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	// Stop accepting requests first so no mutation races the teardown
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	// Cancel the application context
	cancelAppCtx()

	// Wait for background workers
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()
	select {
	case <-wgChan:
		log.Info("Background workers stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if changePublisher != nil {
		changePublisher.Shutdown(cfg.Server.ShutdownTimeout)
	}
	if feedConsumer != nil {
		if err := feedConsumer.Close(); err != nil {
			log.Error("Error closing Kafka consumer", "error", err)
		}
	}
	if err := dlqProducer.Close(); err != nil {
		log.Error("Error closing DLQ Kafka producer", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing events Kafka producer", "error", err)
		}
	}

	// Final status
	if serviceErr != nil {
		log.Error("Treasury API shutdown completed with errors", "error", serviceErr)
		os.Exit(1)
	}
	log.Info("Treasury API shutdown completed successfully")
}
