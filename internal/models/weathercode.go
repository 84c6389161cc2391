package models

import "sort"

// WeatherCodeEntry is the display pair for a WMO weather code
type WeatherCodeEntry struct {
	Emoji string
	Text  string
}

// UnknownWeather is returned for codes missing from the table
var UnknownWeather = WeatherCodeEntry{Emoji: "🌍", Text: "Unknown weather"}

var weatherCodes = map[int]WeatherCodeEntry{
	0:  {Emoji: "☀️", Text: "Clear sky"},
	1:  {Emoji: "🌤️", Text: "Mainly clear"},
	2:  {Emoji: "⛅", Text: "Partly cloudy"},
	3:  {Emoji: "☁️", Text: "Overcast"},
	45: {Emoji: "🌫️", Text: "Fog"},
	48: {Emoji: "🌫️", Text: "Rime fog"},
	51: {Emoji: "🌧️", Text: "Light drizzle"},
	53: {Emoji: "🌧️", Text: "Moderate drizzle"},
	55: {Emoji: "🌧️", Text: "Heavy drizzle"},
	61: {Emoji: "🌧️", Text: "Slight rain"},
	63: {Emoji: "🌧️", Text: "Moderate rain"},
	65: {Emoji: "🌧️", Text: "Heavy rain"},
	71: {Emoji: "❄️", Text: "Light snow"},
	73: {Emoji: "❄️", Text: "Moderate snow"},
	75: {Emoji: "❄️", Text: "Heavy snow"},
	80: {Emoji: "🌦️", Text: "Rain showers"},
	81: {Emoji: "🌦️", Text: "Heavy showers"},
	82: {Emoji: "⛈️", Text: "Violent showers"},
	95: {Emoji: "⛈️", Text: "Thunderstorm"},
	99: {Emoji: "⛈️", Text: "Severe thunderstorm"},
}

// ResolveCondition maps a WMO code to its emoji and text, falling back to UnknownWeather
func ResolveCondition(code int) WeatherCodeEntry {
	if entry, ok := weatherCodes[code]; ok {
		return entry
	}
	return UnknownWeather
}

// KnownWeatherCodes returns every code in the table in ascending order
func KnownWeatherCodes() []int {
	codes := make([]int, 0, len(weatherCodes))
	for code := range weatherCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}
