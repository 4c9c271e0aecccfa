package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillgap/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for "n of total" progress.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

func NewProgressBar(done, total, width int) ProgressBar {
	return ProgressBar{Done: done, Total: total, Width: width}
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Done) / float64(p.Total)
	return max(0, min(1, f))
}

func (p ProgressBar) View() string {
	label := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(4, p.Width-len(label))

	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
