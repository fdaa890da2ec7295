//go:build wireinject
// +build wireinject

package di

import (
	"DemandCast/pkg/config"
	"DemandCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Durable state
		ProvideDurableStore,

		// Core services
		ProvideNotifier,
		ProvideSessionManager,
		ProvideGateway,
		ProvideCatalogLoader,
		ProvideWorkflow,
		ProvideInsights,
		ProvideUploader,

		// Debug surface
		ProvideStateHandler,

		// Application shell
		ProvideApp,
	)
	return &server.App{}, nil
}
