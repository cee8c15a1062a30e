package advice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBicycleBoundaries(t *testing.T) {
	edge := Observation{MaxTemperatureC: 30, MinTemperatureC: 10, PrecipitationProbability: 29, MaxWindSpeedMs: 9.99, WeatherCode: 0}

	got := Bicycle(edge)
	require.True(t, got.Recommended)
	require.Equal(t, "good weather for cycling", got.Reason)
	require.Equal(t, "🚴", got.Icon)

	cold := edge
	cold.MinTemperatureC = 9.99
	got = Bicycle(cold)
	require.False(t, got.Recommended)
	require.Contains(t, got.Reason, "min temp too low (9.99°C)")
	require.Equal(t, "❌", got.Icon)
}

func TestBicycleReasons(t *testing.T) {
	tests := []struct {
		name   string
		obs    Observation
		reason string
	}{
		{
			name:   "every failure listed in order",
			obs:    Observation{MaxTemperatureC: 35, MinTemperatureC: 5, PrecipitationProbability: 50, MaxWindSpeedMs: 15, WeatherCode: 95},
			reason: "min temp too low (5°C), max temp too high (35°C), precip probability high (50%), wind too strong (15 m/s), possible thunderstorm",
		},
		{
			name:   "snow only",
			obs:    Observation{MaxTemperatureC: 15, MinTemperatureC: 12, PrecipitationProbability: 10, MaxWindSpeedMs: 3, WeatherCode: 73},
			reason: "possible snow",
		},
		{
			name:   "thresholds are inclusive for precipitation and wind failures",
			obs:    Observation{MaxTemperatureC: 20, MinTemperatureC: 12, PrecipitationProbability: 30, MaxWindSpeedMs: 10, WeatherCode: 2},
			reason: "precip probability high (30%), wind too strong (10 m/s)",
		},
		{
			name:   "negative temperatures",
			obs:    Observation{MaxTemperatureC: 1.5, MinTemperatureC: -2.5, WeatherCode: 0},
			reason: "min temp too low (-2.5°C)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Bicycle(tc.obs)
			require.False(t, got.Recommended)
			require.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestBicycleUnknownHarshCodeIsNotRecommended(t *testing.T) {
	got := Bicycle(Observation{MaxTemperatureC: 20, MinTemperatureC: 12, WeatherCode: 12})
	require.False(t, got.Recommended)
	require.Equal(t, "good weather for cycling", got.Reason)
}

func TestVentilation(t *testing.T) {
	ok := Ventilation(Observation{MaxTemperatureC: 35, MinTemperatureC: 5, PrecipitationProbability: 49, MaxWindSpeedMs: 14.9, WeatherCode: 45})
	require.True(t, ok.Recommended)
	require.Equal(t, "good weather for ventilation", ok.Reason)
	require.Equal(t, "💨", ok.Icon)

	bad := Ventilation(Observation{MaxTemperatureC: 36, MinTemperatureC: 4, PrecipitationProbability: 50, MaxWindSpeedMs: 15, WeatherCode: 71})
	require.False(t, bad.Recommended)
	require.Equal(t, "min temp too low (4°C), max temp too high (36°C), precip probability high (50%), wind too strong (15 m/s), bad weather", bad.Reason)
	require.Equal(t, "❌", bad.Icon)

	weatherOnly := Ventilation(Observation{MaxTemperatureC: 20, MinTemperatureC: 10, WeatherCode: 99})
	require.False(t, weatherOnly.Recommended)
	require.Equal(t, "bad weather", weatherOnly.Reason)
}

func TestWindowOpening(t *testing.T) {
	ok := WindowOpening(Observation{MaxTemperatureC: 30, MinTemperatureC: 10, PrecipitationProbability: 29, MaxWindSpeedMs: 7.99, WeatherCode: 3})
	require.True(t, ok.Recommended)
	require.Equal(t, "good weather to open windows", ok.Reason)
	require.Equal(t, "🪟", ok.Icon)

	windy := WindowOpening(Observation{MaxTemperatureC: 25, MinTemperatureC: 15, PrecipitationProbability: 0, MaxWindSpeedMs: 8, WeatherCode: 0})
	require.False(t, windy.Recommended)
	require.Equal(t, "wind too strong (8 m/s)", windy.Reason)
}

func TestCarFrost(t *testing.T) {
	tests := []struct {
		name        string
		minTemp     float64
		code        int
		recommended bool
		reason      string
		icon        string
	}{
		{"mild", 10, 0, false, "no frost risk", "✅"},
		{"cold boundary", 3, 0, true, "watch for windshield frost: low min temp (3°C)", "❄️"},
		{"just above boundary", 3.01, 0, false, "no frost risk", "✅"},
		{"snow on a mild night", 10, 71, true, "watch for windshield frost: possible snow", "❄️"},
		{"cold and snowy", -4, 86, true, "watch for windshield frost: low min temp (-4°C), possible snow", "❄️"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CarFrost(tc.minTemp, tc.code)
			require.Equal(t, CategoryCarFrost, got.Category)
			require.Equal(t, tc.recommended, got.Recommended)
			require.Equal(t, tc.reason, got.Reason)
			require.Equal(t, tc.icon, got.Icon)
		})
	}
}

func TestAirConditioning(t *testing.T) {
	tests := []struct {
		name        string
		maxTemp     float64
		minTemp     float64
		recommended bool
		reason      string
	}{
		{"hot and cold", 25, 5, true, "large temperature swing, A/C recommended"},
		{"hot", 30, 20, true, "hot, cooling recommended"},
		{"cold", 12, 2, true, "cold, heating recommended"},
		{"comfortable", 24.99, 5.01, false, "A/C not needed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := AirConditioning(tc.maxTemp, tc.minTemp)
			require.Equal(t, tc.recommended, got.Recommended)
			require.Equal(t, tc.reason, got.Reason)
			if tc.recommended {
				require.Equal(t, "❄️", got.Icon)
			} else {
				require.Equal(t, "✅", got.Icon)
			}
		})
	}
}

func TestWindDoesNotAffectFrostOrAirConditioning(t *testing.T) {
	base := Observation{Date: "2024-02-01", MaxTemperatureC: 27, MinTemperatureC: 1, PrecipitationProbability: 20, WeatherCode: 0}

	reference := BuildBundle(base, "")
	for _, wind := range []float64{0, 7.99, 8, 9.99, 10, 15, 42} {
		obs := base
		obs.MaxWindSpeedMs = wind
		bundle := BuildBundle(obs, "")
		for _, category := range []Category{CategoryCarFrost, CategoryAirConditioning} {
			want, _ := reference.Find(category)
			got, _ := bundle.Find(category)
			require.Equal(t, want, got, "wind=%v category=%s", wind, category)
		}
	}
}
