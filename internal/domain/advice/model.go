package advice

// Observation is one day of forecast data as supplied by the upstream provider.
type Observation struct {
	Date                     string  `json:"date"`
	MaxTemperatureC          float64 `json:"maxTemperatureC"`
	MinTemperatureC          float64 `json:"minTemperatureC"`
	PrecipitationProbability int     `json:"precipitationProbability"`
	MaxWindSpeedMs           float64 `json:"maxWindSpeedMs"`
	WeatherCode              int     `json:"weatherCode"`
}

// Category enumerates the advice topics produced for every day.
type Category string

const (
	CategoryBicycle         Category = "BICYCLE"
	CategoryVentilation     Category = "VENTILATION"
	CategoryCarFrost        Category = "CAR_FROST"
	CategoryWindowOpening   Category = "WINDOW_OPENING"
	CategoryAirConditioning Category = "AIR_CONDITIONING"
)

// Categories returns every category in presentation order.
func Categories() []Category {
	return []Category{
		CategoryBicycle,
		CategoryVentilation,
		CategoryCarFrost,
		CategoryWindowOpening,
		CategoryAirConditioning,
	}
}

// Title is the short label shown next to the advice.
func (c Category) Title() string {
	switch c {
	case CategoryBicycle:
		return "🚴 Bicycle"
	case CategoryVentilation:
		return "💨 Ventilation"
	case CategoryCarFrost:
		return "❄️ Car frost"
	case CategoryWindowOpening:
		return "🪟 Window opening"
	case CategoryAirConditioning:
		return "❄️ Air conditioning"
	default:
		return string(c)
	}
}

// CategoryAdvice is the verdict for a single category on a single day.
type CategoryAdvice struct {
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Recommended bool     `json:"recommended"`
	Reason      string   `json:"reason"`
	Icon        string   `json:"icon"`
}

// DailyBundle groups the advice and notes computed for one day.
type DailyBundle struct {
	Date                     string           `json:"date"`
	IsToday                  bool             `json:"isToday"`
	AverageTemperatureC      float64          `json:"averageTemperatureC"`
	MaxTemperatureC          float64          `json:"maxTemperatureC"`
	MinTemperatureC          float64          `json:"minTemperatureC"`
	WeatherCode              int              `json:"weatherCode"`
	WeatherDescription       string           `json:"weatherDescription"`
	Humidity                 int              `json:"humidity"`
	WindSpeedMs              float64          `json:"windSpeedMs"`
	PrecipitationProbability float64          `json:"precipitationProbability"`
	Advice                   []CategoryAdvice `json:"advice"`
	Notes                    []string         `json:"notes"`
}

// Find returns the advice for the given category.
func (b DailyBundle) Find(category Category) (CategoryAdvice, bool) {
	for _, item := range b.Advice {
		if item.Category == category {
			return item, true
		}
	}
	return CategoryAdvice{}, false
}
