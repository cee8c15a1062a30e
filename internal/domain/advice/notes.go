package advice

const (
	NoteTemperatureSwing = "large daily temperature swing — dress in layers."
	NoteColdMornings     = "cold mornings and evenings expected."
	NoteDaytimeHeat      = "watch for heat during the day."
	NoteRainLikely       = "high chance of rain — bring an umbrella."
	NoteStrongWind       = "strong wind — secure laundry/umbrellas."
	NoteShowers          = "possible sudden showers."
	NoteThunderstorms    = "possible thunderstorms."
)

// Notes returns contextual hints for the day. Each rule is evaluated
// independently and the output order is fixed.
func Notes(obs Observation) []string {
	notes := make([]string, 0, 6)
	if obs.MaxTemperatureC-obs.MinTemperatureC > 10 {
		notes = append(notes, NoteTemperatureSwing)
	}
	if obs.MinTemperatureC < 5 {
		notes = append(notes, NoteColdMornings)
	}
	if obs.MaxTemperatureC > 30 {
		notes = append(notes, NoteDaytimeHeat)
	}
	if obs.PrecipitationProbability > 50 {
		notes = append(notes, NoteRainLikely)
	}
	if obs.MaxWindSpeedMs > 8 {
		notes = append(notes, NoteStrongWind)
	}
	switch {
	case IsShower(obs.WeatherCode):
		notes = append(notes, NoteShowers)
	case IsThunderstorm(obs.WeatherCode):
		notes = append(notes, NoteThunderstorms)
	}
	return notes
}
