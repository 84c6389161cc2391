package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderWeatherPane renders the current conditions pane
func (m Model) renderWeatherPane(width int) string {
	if m.weather == nil {
		return paneStyle.Width(width).Render(mutedStyle.Render("No weather data available"))
	}
	w := m.weather

	headline := lipgloss.JoinHorizontal(lipgloss.Center,
		emojiStyle.Render(w.Emoji),
		lipgloss.JoinVertical(lipgloss.Left,
			temperatureStyle.Render(w.Temperature),
			mutedStyle.Render(w.FeelsLike),
		),
	)

	var content strings.Builder
	content.WriteString(headline)
	content.WriteString("\n\n")
	content.WriteString(valueStyle.Bold(true).Render(w.Condition))
	content.WriteString("\n\n")
	content.WriteString(detailLine("Humidity", w.Humidity))
	content.WriteString(detailLine("Wind", w.Wind))
	content.WriteString(detailLine("Pressure", w.Pressure))
	content.WriteString("\n")
	content.WriteString(titleStyle.Render("📍 " + w.Location))

	if !w.UpdatedAt.IsZero() {
		content.WriteString("\n")
		content.WriteString(mutedStyle.Render(fmt.Sprintf("updated %s", w.UpdatedAt.Local().Format("15:04"))))
	}

	return paneStyle.Width(width).Render(content.String())
}

func detailLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value) + "\n"
}
