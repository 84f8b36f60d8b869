//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"ptd/internal"
	"ptd/internal/clients"
	"ptd/internal/controllers"
	"ptd/internal/engine"
	"ptd/internal/providers"
	"ptd/internal/services"
	"ptd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewClockProvider,
		providers.NewNotifierProvider,
		providers.NewAudioProvider,

		services.NewTimerService,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		clients.NewBackendClient,
		engine.NewPinStoreProvider,
		engine.NewEngine,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
