package advice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotesOrdering(t *testing.T) {
	notes := Notes(Observation{MaxTemperatureC: 35, MinTemperatureC: 20, PrecipitationProbability: 60, MaxWindSpeedMs: 10, WeatherCode: 81})

	// 35-20 exceeds the 10 degree swing threshold, so the layering note leads.
	require.Equal(t, []string{
		NoteTemperatureSwing,
		NoteDaytimeHeat,
		NoteRainLikely,
		NoteStrongWind,
		NoteShowers,
	}, notes)
	require.NotContains(t, notes, NoteColdMornings)
}

func TestNotesThresholds(t *testing.T) {
	tests := []struct {
		name  string
		obs   Observation
		notes []string
	}{
		{
			name:  "nothing at the boundaries",
			obs:   Observation{MaxTemperatureC: 30, MinTemperatureC: 20, PrecipitationProbability: 50, MaxWindSpeedMs: 8, WeatherCode: 61},
			notes: []string{},
		},
		{
			name:  "cold morning with swing",
			obs:   Observation{MaxTemperatureC: 15, MinTemperatureC: 4.9, WeatherCode: 0},
			notes: []string{NoteTemperatureSwing, NoteColdMornings},
		},
		{
			name:  "thunderstorm",
			obs:   Observation{MaxTemperatureC: 22, MinTemperatureC: 18, PrecipitationProbability: 70, WeatherCode: 99},
			notes: []string{NoteRainLikely, NoteThunderstorms},
		},
		{
			name:  "wind just above limit",
			obs:   Observation{MaxTemperatureC: 22, MinTemperatureC: 18, MaxWindSpeedMs: 8.01, WeatherCode: 3},
			notes: []string{NoteStrongWind},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.notes, Notes(tc.obs))
		})
	}
}
