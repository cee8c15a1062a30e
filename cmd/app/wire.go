//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-advice/internal/bootstrap"
	"github.com/yanqian/weather-advice/internal/domain/advisor"
	"github.com/yanqian/weather-advice/internal/infra/config"
	"github.com/yanqian/weather-advice/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/weather-advice/internal/interface/http"
	"github.com/yanqian/weather-advice/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAdvisorConfig,
		provideOpenMeteoConfig,
		provideForecastCache,
		provideLocationHistory,
		openmeteo.NewForecastClient,
		openmeteo.NewGeocodingClient,
		wire.Bind(new(advisor.ForecastClient), new(*openmeteo.ForecastClient)),
		wire.Bind(new(advisor.Geocoder), new(*openmeteo.GeocodingClient)),
		advisor.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
