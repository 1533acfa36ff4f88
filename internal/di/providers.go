package di

import (
	"context"
	"fmt"
	"time"

	"EquipWatch/internal/domain/repository"
	domsvc "EquipWatch/internal/domain/service"
	"EquipWatch/internal/engine"
	"EquipWatch/internal/handler/api"
	mid "EquipWatch/internal/middleware"
	internalrepo "EquipWatch/internal/repository"
	"EquipWatch/internal/service/gateway"
	"EquipWatch/internal/usecase"
	"EquipWatch/pkg/cache"
	pkgch "EquipWatch/pkg/clickhouse"
	"EquipWatch/pkg/config"
	xhttp "EquipWatch/pkg/http"
	pkgkafka "EquipWatch/pkg/kafka"
	applogger "EquipWatch/pkg/logger"
	"EquipWatch/pkg/metrics"
	"EquipWatch/pkg/server"
)

// ProvideLogger creates the shared application logger. The HTTP log
// endpoint reads from the collector attached to this instance, so the
// whole app must use the same one.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the analytics engine.
func ProvideEngine(cfg *config.Config, m repository.Metrics) *engine.Engine {
	opts := []engine.Option{engine.WithMetrics(m)}
	if cfg.Engine.QueueSize > 0 {
		opts = append(opts, engine.WithQueueSize(cfg.Engine.QueueSize))
	}
	return engine.New(opts...)
}

// ProvideAnalyticsEngine exposes the engine behind its domain interface.
func ProvideAnalyticsEngine(e *engine.Engine) domsvc.AnalyticsEngine {
	return e
}

// ProvideCache creates the result cache: Redis when configured,
// in-process otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Enabled || cfg.Cache.Addr == "" {
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Cache.Addr),
		cache.WithRedisPassword(cfg.Cache.Password),
		cache.WithRedisDB(cfg.Cache.DB),
	)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideReadingStorage creates the ClickHouse reading store and makes
// sure its schema exists before anything writes to it.
func ProvideReadingStorage(chClient *pkgch.Client, l *applogger.Logger) (repository.Storage, error) {
	store := internalrepo.NewClickHouseReadingStore(chClient)
	if s, ok := store.(*internalrepo.ClickHouseReadingStore); ok {
		s.SetLogger(l)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("readings schema: %w", err)
	}
	return store, nil
}

// ProvideReadingPublisher creates the Kafka readings publisher.
func ProvideReadingPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaReadingPublisher(producer, cfg.Kafka.ReadingsTopic)
}

// ProvideEventPublisher creates the Kafka analysis-events publisher.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EventPublisher {
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideGatewayStream creates the plant gateway WebSocket stream.
func ProvideGatewayStream(cfg *config.Config) repository.SensorStream {
	return gateway.New(
		cfg.Gateway.APIKey,
		cfg.Gateway.WebSocketURL,
		cfg.Gateway.Equipment,
		cfg.Gateway.ReconnectDelay,
		cfg.Gateway.PingInterval,
	)
}

// ProvideReadingProcessor creates the reading processor use case.
func ProvideReadingProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.ReadingProcessor {
	return usecase.NewReadingProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideReadingCollector creates the reading collector with the ingest
// pipeline between the gateway stream and the processor.
func ProvideReadingCollector(
	stream repository.SensorStream,
	processor *usecase.ReadingProcessor,
	m repository.Metrics,
) *usecase.ReadingCollector {
	pipe := mid.NewIngestPipeline(processor, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewReadingCollector(stream, processor, m, pipe)
}

// ProvideKafkaReadingsHandler registers the handler for the readings topic.
func ProvideKafkaReadingsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaReadingsHandler {
	return usecase.NewKafkaReadingsHandler(cfg.Kafka.ReadingsTopic, store, m)
}

// ProvideReadingsUseCase creates the range-query use case.
func ProvideReadingsUseCase(store repository.Storage) *usecase.ReadingsUseCase {
	return usecase.NewReadingsUseCase(store)
}

// ProvideAnalyticsRunner creates the analytics runner.
func ProvideAnalyticsRunner(
	eng domsvc.AnalyticsEngine,
	store repository.Storage,
	m repository.Metrics,
	c cache.Service,
	events repository.EventPublisher,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalyticsRunner {
	ttl := cfg.Engine.ResultTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return usecase.NewAnalyticsRunner(eng, store, m,
		usecase.WithResultCache(c, ttl),
		usecase.WithOptimizeBudget(cfg.Engine.OptimizeRPS, cfg.Engine.OptimizeBurst),
		usecase.WithEventPublisher(events),
		usecase.WithRunnerLogger(l),
	)
}

// ProvideAPIHandler creates the Echo route handler.
func ProvideAPIHandler(
	l *applogger.Logger,
	runner *usecase.AnalyticsRunner,
	readings *usecase.ReadingsUseCase,
	store repository.Storage,
) xhttp.Handler {
	return api.NewAnalyticsEchoHandler(l, runner, readings, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	eng *engine.Engine,
	collector *usecase.ReadingCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaReadingsHandler,
	chClient *pkgch.Client,
	c cache.Service,
	producer *pkgkafka.Producer,
	handler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, eng, collector, consumer, kh, chClient, c, producer)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.ReadingProc = collector.Processor()
	}
	return app
}
