package advice

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	iconRejected = "❌"
	iconClear    = "✅"
	iconFrost    = "❄️"

	reasonBadWeather = "bad weather"
)

// envelope is the comfortable range for an outdoor-facing activity.
// Temperatures are inclusive, precipitation and wind limits are exclusive.
type envelope struct {
	minTemp   float64
	maxTemp   float64
	maxPrecip int
	maxWind   float64
}

var (
	bicycleEnvelope     = envelope{minTemp: 10, maxTemp: 30, maxPrecip: 30, maxWind: 10}
	ventilationEnvelope = envelope{minTemp: 5, maxTemp: 35, maxPrecip: 50, maxWind: 15}
	windowEnvelope      = envelope{minTemp: 10, maxTemp: 30, maxPrecip: 30, maxWind: 8}
)

type envelopeCheck struct {
	minTempOK bool
	maxTempOK bool
	precipOK  bool
	windOK    bool
	weatherOK bool
}

func (e envelope) check(obs Observation) envelopeCheck {
	return envelopeCheck{
		minTempOK: obs.MinTemperatureC >= e.minTemp,
		maxTempOK: obs.MaxTemperatureC <= e.maxTemp,
		precipOK:  obs.PrecipitationProbability < e.maxPrecip,
		windOK:    obs.MaxWindSpeedMs < e.maxWind,
		weatherOK: IsBenign(obs.WeatherCode),
	}
}

func (c envelopeCheck) passed() bool {
	return c.minTempOK && c.maxTempOK && c.precipOK && c.windOK && c.weatherOK
}

// failures lists one clause per failed numeric condition. The weather
// condition is phrased by the caller.
func (c envelopeCheck) failures(obs Observation) []string {
	reasons := make([]string, 0, 5)
	if !c.minTempOK {
		reasons = append(reasons, fmt.Sprintf("min temp too low (%s°C)", formatNumber(obs.MinTemperatureC)))
	}
	if !c.maxTempOK {
		reasons = append(reasons, fmt.Sprintf("max temp too high (%s°C)", formatNumber(obs.MaxTemperatureC)))
	}
	if !c.precipOK {
		reasons = append(reasons, fmt.Sprintf("precip probability high (%d%%)", obs.PrecipitationProbability))
	}
	if !c.windOK {
		reasons = append(reasons, fmt.Sprintf("wind too strong (%s m/s)", formatNumber(obs.MaxWindSpeedMs)))
	}
	return reasons
}

// Bicycle decides whether the day suits cycling.
func Bicycle(obs Observation) CategoryAdvice {
	check := bicycleEnvelope.check(obs)
	recommended := check.passed()

	reasons := check.failures(obs)
	switch {
	case IsThunderstorm(obs.WeatherCode):
		reasons = append(reasons, "possible thunderstorm")
	case IsSnow(obs.WeatherCode):
		reasons = append(reasons, "possible snow")
	}

	reason := "good weather for cycling"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, ", ")
	}
	return newAdvice(CategoryBicycle, recommended, reason, iconFor(recommended, "🚴", iconRejected))
}

// Ventilation decides whether the day suits airing out the home.
func Ventilation(obs Observation) CategoryAdvice {
	return envelopeAdvice(CategoryVentilation, ventilationEnvelope, obs, "good weather for ventilation", "💨")
}

// WindowOpening decides whether windows can stay open during the day.
func WindowOpening(obs Observation) CategoryAdvice {
	return envelopeAdvice(CategoryWindowOpening, windowEnvelope, obs, "good weather to open windows", "🪟")
}

func envelopeAdvice(category Category, env envelope, obs Observation, positive, icon string) CategoryAdvice {
	check := env.check(obs)
	if check.passed() {
		return newAdvice(category, true, positive, icon)
	}
	reasons := check.failures(obs)
	if !check.weatherOK {
		reasons = append(reasons, reasonBadWeather)
	}
	return newAdvice(category, false, strings.Join(reasons, ", "), iconRejected)
}

// CarFrost flags a windshield frost risk. Only the minimum temperature and
// the weather code matter.
func CarFrost(minTempC float64, code int) CategoryAdvice {
	cold := minTempC <= 3
	snow := IsSnow(code)
	if !cold && !snow {
		return newAdvice(CategoryCarFrost, false, "no frost risk", iconClear)
	}

	reasons := make([]string, 0, 2)
	if cold {
		reasons = append(reasons, fmt.Sprintf("low min temp (%s°C)", formatNumber(minTempC)))
	}
	if snow {
		reasons = append(reasons, "possible snow")
	}
	return newAdvice(CategoryCarFrost, true, "watch for windshield frost: "+strings.Join(reasons, ", "), iconFrost)
}

// AirConditioning flags days that need cooling, heating or both.
func AirConditioning(maxTempC, minTempC float64) CategoryAdvice {
	hot := maxTempC >= 25
	cold := minTempC <= 5

	var reason string
	switch {
	case hot && cold:
		reason = "large temperature swing, A/C recommended"
	case hot:
		reason = "hot, cooling recommended"
	case cold:
		reason = "cold, heating recommended"
	default:
		reason = "A/C not needed"
	}
	recommended := hot || cold
	return newAdvice(CategoryAirConditioning, recommended, reason, iconFor(recommended, iconFrost, iconClear))
}

// Evaluate runs every category rule in presentation order.
func Evaluate(obs Observation) []CategoryAdvice {
	return []CategoryAdvice{
		Bicycle(obs),
		Ventilation(obs),
		CarFrost(obs.MinTemperatureC, obs.WeatherCode),
		WindowOpening(obs),
		AirConditioning(obs.MaxTemperatureC, obs.MinTemperatureC),
	}
}

func newAdvice(category Category, recommended bool, reason, icon string) CategoryAdvice {
	return CategoryAdvice{
		Category:    category,
		Title:       category.Title(),
		Recommended: recommended,
		Reason:      reason,
		Icon:        icon,
	}
}

func iconFor(recommended bool, yes, no string) string {
	if recommended {
		return yes
	}
	return no
}

// formatNumber renders the shortest decimal form: 9.99, 10, -2.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
