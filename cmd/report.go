package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/skillgap/internal/assessment"
	"github.com/abhisek/skillgap/internal/profile"
	"github.com/abhisek/skillgap/internal/recommend"
	"github.com/abhisek/skillgap/internal/skill"
	"github.com/abhisek/skillgap/internal/ui/theme"
)

func heading(w io.Writer, title string) {
	lipgloss.Fprintln(w)
	lipgloss.Fprintln(w, theme.Title.Render(title))
	lipgloss.Fprintln(w, theme.Tag.Render(strings.Repeat("─", 48)))
}

func newTable(headers ...string) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cell.Bold(true).Foreground(theme.Primary)
			}
			return cell.Foreground(theme.Text)
		})
}

func printSkills(w io.Writer, skills skill.Profile) {
	if len(skills) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("  No topics scored yet."))
		return
	}
	for _, topic := range skills.Topics() {
		e := skills[topic]
		lipgloss.Fprintf(w, "  %-14s %7.2f%%  %s\n", topic, e.Score, theme.Level(e.Level).Render(string(e.Level)))
	}
}

func printTrends(w io.Writer, trends map[string]profile.Trend, tips bool) {
	for _, topic := range sortedKeys(trends) {
		t := trends[topic]
		line := fmt.Sprintf("  %-14s %s", topic, t)
		if tips {
			line += theme.Hint.Render("  " + recommend.TrendTip(t))
		}
		lipgloss.Fprintln(w, line)
	}
}

func printPath(w io.Writer, path []recommend.Step) {
	if len(path) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("  Nothing to recommend yet. Take a quiz first."))
		return
	}
	for i, step := range path {
		lipgloss.Fprintf(w, "  %d. %s %s\n     %s\n",
			i+1, theme.Selected.Render("["+step.Topic+"]"), step.Action, theme.Hint.Render(step.Reason))
	}
}

func printResult(w io.Writer, res *assessment.Result) {
	heading(w, "Results")
	printSkills(w, res.Skills)
	lipgloss.Fprintf(w, "\n  Overall: %s   Attempts so far: %d\n",
		theme.Level(res.Overall).Render(string(res.Overall)), res.QuizAttempts)

	heading(w, "Learning trends")
	printTrends(w, res.Trends, true)

	heading(w, "Learning path")
	printPath(w, res.LearningPath)

	heading(w, "Summary")
	lipgloss.Fprintln(w, "  "+res.Summary)
}

func printProfile(w io.Writer, p *profile.Profile) {
	heading(w, "Profile")
	lipgloss.Fprintf(w, "  Student:       %s\n", p.StudentID)
	lipgloss.Fprintf(w, "  Created:       %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	if p.LastUpdated != nil {
		lipgloss.Fprintf(w, "  Last updated:  %s\n", p.LastUpdated.Local().Format("2006-01-02 15:04"))
	}
	lipgloss.Fprintf(w, "  Quiz attempts: %d\n", p.QuizAttempts)

	heading(w, "Current levels")
	printSkills(w, profile.CurrentSkills(p))

	heading(w, "History")
	topics := sortedKeys(p.Topics)
	if len(topics) == 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("  No history yet."))
	}
	for _, topic := range topics {
		scores := make([]string, 0, len(p.Topics[topic].History))
		for _, h := range p.Topics[topic].History {
			scores = append(scores, fmt.Sprintf("%.2f", h.Score))
		}
		lipgloss.Fprintf(w, "  %-14s %s\n", topic, strings.Join(scores, " → "))
	}

	heading(w, "Trends")
	printTrends(w, profile.Trends(p), false)

	heading(w, "Learning speed")
	behaviors := profile.Behaviors(p)
	for _, topic := range sortedKeys(behaviors) {
		lipgloss.Fprintf(w, "  %-14s %s\n", topic, behaviors[topic])
	}
}

func printPlan(w io.Writer, plan *assessment.Plan) {
	heading(w, "Current levels")
	printSkills(w, plan.Skills)

	heading(w, "Learning path")
	printPath(w, plan.LearningPath)

	heading(w, "Resources")
	for _, topic := range sortedKeys(plan.Resources) {
		r := plan.Resources[topic]
		lipgloss.Fprintf(w, "  %-14s %s level, focus: %s\n", topic, r.RecommendedLevel, r.Focus)
	}

	heading(w, "Trends")
	printTrends(w, plan.Trends, true)

	if len(plan.Reasons) > 0 {
		heading(w, "Why")
		for _, topic := range sortedKeys(plan.Reasons) {
			lipgloss.Fprintln(w, theme.Hint.Render(indent(plan.Reasons[topic], "  ")))
			lipgloss.Fprintln(w)
		}
	}

	heading(w, "Summary")
	lipgloss.Fprintln(w, "  "+plan.Summary)
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
