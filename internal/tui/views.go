package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("₹ Credit what-if simulator"),
		m.renderFields(),
		m.renderScore(),
		m.renderAdvice(),
		m.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFields() string {
	var b strings.Builder
	for i := range m.inputs {
		f := field(i)
		label := fieldLabels[f]
		if f == fieldAmount {
			label = scenarioLabel(m.scenario)
		}

		labelStyle := m.theme.Label
		marker := "  "
		if f == m.focus {
			labelStyle = m.theme.Focused
			marker = "› "
		}
		b.WriteString(marker + labelStyle.Render(label) + m.inputs[i].View() + "\n")
	}
	if m.inputErr != nil {
		b.WriteString(m.theme.StatusError.Render("  "+m.inputErr.Error()) + "\n")
	}
	return b.String()
}

func scenarioLabel(t credit.ScenarioType) string {
	if t == credit.ScenarioLimitIncrease {
		return "Limit increase (₹)"
	}
	return "Debt payoff (₹)"
}

func (m Model) renderScore() string {
	a := m.assessment
	d := m.delta

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %.0f%%\n",
		m.theme.Bold.Render("Score"),
		m.theme.score(a.Score).Render(fmt.Sprintf("%d %s", a.Score, a.Band)),
		m.theme.Bold.Render("Utilization"),
		a.Utilization)

	if d.Scenario.Amount > 0 {
		change := m.theme.Muted.Render(fmt.Sprintf("%+d", d.Improvement))
		if d.Improvement > 0 {
			change = m.theme.StatusSuccess.Render(fmt.Sprintf("%+d", d.Improvement))
		}
		fmt.Fprintf(&b, "%s %s → %s (%s)\n",
			m.theme.Bold.Render("What-if"),
			d.Scenario.Describe(),
			m.theme.score(d.Projected).Render(fmt.Sprint(d.Projected)),
			change)
	}

	for _, item := range a.Advice {
		fmt.Fprintf(&b, "%s %s\n", item.Icon, item.Title)
	}
	return m.theme.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderAdvice() string {
	switch {
	case m.advisor == nil:
		return ""
	case m.loading:
		return m.theme.Muted.Render("Asking the advisory service…")
	case m.advice != nil:
		text := m.advice.Text
		if m.width > 8 {
			text = lipgloss.NewStyle().Width(m.width - 4).Render(text)
		}
		return m.theme.Box.Render(text)
	default:
		return m.theme.Muted.Render("Press Enter for advice on this scenario.")
	}
}

func (m Model) renderHelp() string {
	bindings := m.keymap.ShortHelp()
	if m.showHelp {
		bindings = m.keymap.FullHelp()
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, helpEntry(b))
	}
	return m.theme.Muted.Render(strings.Join(parts, " • "))
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return h.Key + " " + h.Desc
}
