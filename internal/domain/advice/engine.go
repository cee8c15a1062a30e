// Package advice turns daily forecast observations into per-category
// recommendations and free-text notes. Every function in this package is
// pure: the same observation always yields the same bundle.
package advice

// MaxBundles caps Assemble at today and tomorrow.
const MaxBundles = 2

// HumidityPlaceholder is emitted because the upstream daily series carries
// no humidity. Consumers must not treat it as a measurement.
const HumidityPlaceholder = 60

// BuildBundle computes the complete advice bundle for one day. today is the
// caller's current date in YYYY-MM-DD form.
func BuildBundle(obs Observation, today string) DailyBundle {
	return DailyBundle{
		Date:                     obs.Date,
		IsToday:                  obs.Date == today,
		AverageTemperatureC:      (obs.MaxTemperatureC + obs.MinTemperatureC) / 2,
		MaxTemperatureC:          obs.MaxTemperatureC,
		MinTemperatureC:          obs.MinTemperatureC,
		WeatherCode:              obs.WeatherCode,
		WeatherDescription:       Describe(obs.WeatherCode),
		Humidity:                 HumidityPlaceholder,
		WindSpeedMs:              obs.MaxWindSpeedMs,
		PrecipitationProbability: float64(obs.PrecipitationProbability) / 100,
		Advice:                   Evaluate(obs),
		Notes:                    Notes(obs),
	}
}

// Assemble builds bundles for the first two days of the series. Shorter
// series produce fewer bundles.
func Assemble(series []Observation, today string) []DailyBundle {
	if len(series) > MaxBundles {
		series = series[:MaxBundles]
	}
	return AssembleAll(series, today)
}

// AssembleAll builds a bundle for every day in the series.
func AssembleAll(series []Observation, today string) []DailyBundle {
	bundles := make([]DailyBundle, 0, len(series))
	for _, obs := range series {
		bundles = append(bundles, BuildBundle(obs, today))
	}
	return bundles
}
