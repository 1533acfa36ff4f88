package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EquipWatch/internal/engine"
	internalrepo "EquipWatch/internal/repository"
	"EquipWatch/internal/usecase"
	"EquipWatch/pkg/cache"
	pkgch "EquipWatch/pkg/clickhouse"
	"EquipWatch/pkg/config"
	xhttp "EquipWatch/pkg/http"
	pkgkafka "EquipWatch/pkg/kafka"
	applogger "EquipWatch/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	eng         *engine.Engine
	collector   *usecase.ReadingCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	cache       cache.Service
	producer    *pkgkafka.Producer
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	ReadingProc *usecase.ReadingProcessor
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	eng *engine.Engine,
	collector *usecase.ReadingCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	c cache.Service,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		l:         l,
		eng:       eng,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		cache:     c,
		producer:  producer,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.l

	// Aggregate error logs and ship batches to the events topic. The
	// /api/system/logs endpoint reads the same collector's ring.
	collectorCfg := &applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		RetainRecords:  200,
	}
	if a.producer != nil && a.cfg.Kafka.EventsTopic != "" {
		collectorCfg.Topic = a.cfg.Kafka.EventsTopic
		collectorCfg.Publisher = internalrepo.NewLogSink(a.producer)
	}
	l.AddCollector(collectorCfg)

	// Start the analytics dispatcher before any request can reach it.
	a.eng.Start(ctx)
	l.Info("analytics engine started")

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestLogger(l, 500*time.Millisecond),
	)

	// Start collector when a gateway endpoint is configured; the API
	// still serves analysis over stored data without one.
	if a.cfg.Gateway.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("collector started", applogger.Strings("equipment", a.cfg.Gateway.Equipment))
	} else {
		l.Warn("gateway url not configured, ingestion disabled")
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.l
	l.Info("shutting down...")

	// Stop ingestion first so nothing new enters the system.
	if a.collector != nil && a.cfg.Gateway.WebSocketURL != "" {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Drain queued analysis requests, then stop the engine worker.
	a.eng.Stop()

	// Close processor resources (publisher/storage)
	if a.ReadingProc != nil {
		a.ReadingProc.Close()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	l.RemoveCollector()
	return nil
}
