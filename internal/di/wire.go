//go:build wireinject
// +build wireinject

package di

import (
	"EquipWatch/pkg/config"
	"EquipWatch/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideReadingStorage,
		ProvideReadingPublisher,
		ProvideEventPublisher,
		ProvideGatewayStream,

		// Analytics engine
		ProvideEngine,
		ProvideAnalyticsEngine,

		// Use cases
		ProvideReadingProcessor,
		ProvideReadingCollector,
		ProvideKafkaReadingsHandler,
		ProvideReadingsUseCase,
		ProvideAnalyticsRunner,

		// HTTP
		ProvideAPIHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
