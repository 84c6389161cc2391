package models

import "testing"

func TestResolveCondition_KnownCodes(t *testing.T) {
	tests := []struct {
		code     int
		wantText string
		wantIcon string
	}{
		{0, "Clear sky", "☀️"},
		{2, "Partly cloudy", "⛅"},
		{45, "Fog", "🌫️"},
		{63, "Moderate rain", "🌧️"},
		{75, "Heavy snow", "❄️"},
		{81, "Heavy showers", "🌦️"},
		{95, "Thunderstorm", "⛈️"},
		{99, "Severe thunderstorm", "⛈️"},
	}

	for _, tt := range tests {
		t.Run(tt.wantText, func(t *testing.T) {
			got := ResolveCondition(tt.code)
			if got.Text != tt.wantText {
				t.Errorf("ResolveCondition(%d).Text = %q, want %q", tt.code, got.Text, tt.wantText)
			}
			if got.Emoji != tt.wantIcon {
				t.Errorf("ResolveCondition(%d).Emoji = %q, want %q", tt.code, got.Emoji, tt.wantIcon)
			}
		})
	}
}

func TestResolveCondition_EveryTableEntry(t *testing.T) {
	for _, code := range KnownWeatherCodes() {
		if got := ResolveCondition(code); got != weatherCodes[code] {
			t.Errorf("ResolveCondition(%d) = %+v, want %+v", code, got, weatherCodes[code])
		}
		if ResolveCondition(code) == UnknownWeather {
			t.Errorf("ResolveCondition(%d) returned the default entry", code)
		}
	}
}

func TestResolveCondition_UnknownCodes(t *testing.T) {
	for _, code := range []int{-1, 4, 56, 96, 100, 1000} {
		if got := ResolveCondition(code); got != UnknownWeather {
			t.Errorf("ResolveCondition(%d) = %+v, want default entry", code, got)
		}
	}
}

func TestKnownWeatherCodes_Sorted(t *testing.T) {
	codes := KnownWeatherCodes()
	if len(codes) != 20 {
		t.Fatalf("len(KnownWeatherCodes()) = %d, want 20", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not ascending at %d: %d >= %d", i, codes[i-1], codes[i])
		}
	}
}
