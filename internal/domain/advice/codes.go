package advice

// WMO weather interpretation codes as reported by Open-Meteo.
var (
	benignCodes = codeSet(0, 1, 2, 3, 45, 48, 51, 53, 55, 56, 57, 61, 63, 65, 66, 67, 80, 81, 82)
	snowCodes   = codeSet(71, 73, 75, 77, 85, 86)
	stormCodes  = codeSet(95, 96, 99)
	showerCodes = codeSet(80, 81, 82)
)

func codeSet(codes ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// IsBenign reports whether the code is acceptable for outdoor activities:
// clear, cloudy, fog, drizzle, rain and rain showers.
func IsBenign(code int) bool {
	_, ok := benignCodes[code]
	return ok
}

// IsSnow reports whether the code describes snowfall.
func IsSnow(code int) bool {
	_, ok := snowCodes[code]
	return ok
}

// IsThunderstorm reports whether the code describes a thunderstorm.
func IsThunderstorm(code int) bool {
	_, ok := stormCodes[code]
	return ok
}

// IsShower reports whether the code describes rain showers.
func IsShower(code int) bool {
	_, ok := showerCodes[code]
	return ok
}

// Describe maps a weather code to a human readable description.
// Unknown codes yield "unknown".
func Describe(code int) string {
	switch code {
	case 0:
		return "clear"
	case 1, 2, 3:
		return "cloudy"
	case 45, 48:
		return "fog"
	case 51, 53, 55:
		return "light rain"
	case 56, 57:
		return "freezing light rain"
	case 61, 63, 65:
		return "rain"
	case 66, 67:
		return "freezing rain"
	case 71, 73, 75:
		return "snow"
	case 77:
		return "snow grains"
	case 80, 81, 82:
		return "rain showers"
	case 85, 86:
		return "snow showers"
	case 95:
		return "thunderstorm"
	case 96, 99:
		return "thunderstorm with hail"
	default:
		return "unknown"
	}
}
