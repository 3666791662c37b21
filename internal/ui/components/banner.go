package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"pajama/internal/ui/theme"
)

var bannerStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Foreground(theme.Text).
	Padding(0, 1)

// StreakText summarises history for the picker header. It is empty when
// nothing has been recorded yet.
func StreakText(streak, total, thisWeek, weeklyGoal int) string {
	var text string
	switch {
	case streak >= 2:
		text = fmt.Sprintf("%d day streak · %d workouts", streak, total)
	case total == 1:
		text = "1 workout completed"
	case total > 0:
		text = fmt.Sprintf("%d workouts completed", total)
	default:
		return ""
	}
	if weeklyGoal > 0 {
		text += fmt.Sprintf(" · %d/%d this week", thisWeek, weeklyGoal)
	}
	return text
}

// Banner renders text in a bordered box, or nothing for empty text.
func Banner(text string, width int) string {
	if text == "" {
		return ""
	}
	if width < 20 {
		return bannerStyle.Render(text)
	}
	return bannerStyle.Width(width - 2).Render(text)
}
