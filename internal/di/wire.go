//go:build wireinject
// +build wireinject

package di

import (
	"LRRBrain/pkg/config"
	"LRRBrain/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideGateway,
		ProvideSignalChannel,
		ProvideStateStore,
		ProvideDecisionJournal,

		// Engine collaborators
		ProvideSnapshotCache,
		ProvideMonitor,
		ProvideNewsFilter,
		ProvideResolver,
		ProvideStructureDetector,
		ProvideSessionTable,
		ProvideKeeper,
		ProvideTracker,
		ProvideSpreadGuard,
		ProvidePositionManager,
		ProvideHeartbeatHandler,
		ProvideAlertsHandler,

		// Engine and application server
		ProvideEngine,
		ProvideApp,
	)
	return &server.App{}, nil
}
