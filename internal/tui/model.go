// Package tui implements the interactive credit what-if simulator.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Advisor produces advice for a what-if delta. It must not fail.
type Advisor interface {
	Advise(ctx context.Context, delta credit.Delta) advisory.Result
}

type field int

const (
	fieldLimit field = iota
	fieldDebt
	fieldLate
	fieldAge
	fieldAmount
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldLimit:  "Total credit limit (₹)",
	fieldDebt:   "Outstanding debt (₹)",
	fieldLate:   "Late payments (24 months)",
	fieldAge:    "Oldest account (years)",
	fieldAmount: "Scenario amount (₹)",
}

// Model holds the simulator state. Scores are recomputed on every edit; the
// advisory call only runs on request.
type Model struct {
	ctx        context.Context
	advisor    Advisor
	inputErr   error
	advice     *advisory.Result
	theme      Theme
	keymap     KeyMap
	initial    credit.Inputs
	inputs     []textinput.Model
	assessment credit.Assessment
	delta      credit.Delta
	scenario   credit.ScenarioType
	focus      field
	width      int
	loading    bool
	showHelp   bool
	quitting   bool
}

// New creates a simulator seeded with initial. advisor may be nil, in which
// case the advice panel is disabled.
func New(ctx context.Context, advisor Advisor, initial credit.Inputs) Model {
	m := Model{
		ctx:      ctx,
		advisor:  advisor,
		theme:    DefaultTheme,
		keymap:   DefaultKeyMap(),
		initial:  initial,
		scenario: credit.ScenarioPayoff,
	}
	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 15
		ti.Placeholder = "0"
		m.inputs[i] = ti
	}
	m.load(initial)
	m.inputs[m.focus].Focus()
	m.recompute()
	return m
}

func (m *Model) load(in credit.Inputs) {
	m.inputs[fieldLimit].SetValue(formatFloat(in.TotalCreditLimit))
	m.inputs[fieldDebt].SetValue(formatFloat(in.OutstandingDebt))
	m.inputs[fieldLate].SetValue(strconv.Itoa(in.LatePayments24m))
	m.inputs[fieldAge].SetValue(formatFloat(in.OldestAccountYears))
	m.inputs[fieldAmount].SetValue("")
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case adviceMsg:
		if msg.delta == m.delta {
			m.advice = &msg.result
			m.loading = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keymap.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)

	case key.Matches(msg, m.keymap.ToggleScenario):
		if m.scenario == credit.ScenarioPayoff {
			m.scenario = credit.ScenarioLimitIncrease
		} else {
			m.scenario = credit.ScenarioPayoff
		}
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.load(m.initial)
		m.recompute()
		return m, nil

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.Advise):
		if m.advisor == nil || m.inputErr != nil || m.loading {
			return m, nil
		}
		m.loading = true
		m.advice = nil
		return m, requestAdvice(m.ctx, m.advisor, m.delta)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.recompute()
	return m, cmd
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = f
	return m.inputs[m.focus].Focus()
}

// recompute re-derives the score and delta from the current field values.
// Advice belongs to a specific delta and is dropped when the delta moves.
func (m *Model) recompute() {
	in, scenario, err := m.parse()
	m.inputErr = err
	if err != nil {
		return
	}

	assessment, err := credit.Assess(in)
	if err != nil {
		m.inputErr = err
		return
	}
	delta, err := credit.Simulate(in, scenario)
	if err != nil {
		m.inputErr = err
		return
	}

	if delta != m.delta {
		m.advice = nil
		m.loading = false
	}
	m.assessment = assessment
	m.delta = delta
}

func (m Model) parse() (credit.Inputs, credit.Scenario, error) {
	var (
		in  credit.Inputs
		s   = credit.Scenario{Type: m.scenario}
		err error
	)
	if in.TotalCreditLimit, err = parseFloat(m.inputs[fieldLimit].Value(), "total credit limit"); err != nil {
		return in, s, err
	}
	if in.OutstandingDebt, err = parseFloat(m.inputs[fieldDebt].Value(), "outstanding debt"); err != nil {
		return in, s, err
	}
	late, err := parseFloat(m.inputs[fieldLate].Value(), "late payments")
	if err != nil {
		return in, s, err
	}
	if late != float64(int(late)) {
		return in, s, common.NewValidationError("late payments", late, "must be a whole number")
	}
	in.LatePayments24m = int(late)
	if in.OldestAccountYears, err = parseFloat(m.inputs[fieldAge].Value(), "oldest account age"); err != nil {
		return in, s, err
	}
	if s.Amount, err = parseFloat(m.inputs[fieldAmount].Value(), "scenario amount"); err != nil {
		return in, s, err
	}
	return in, s, nil
}

func requestAdvice(ctx context.Context, advisor Advisor, delta credit.Delta) tea.Cmd {
	return func() tea.Msg {
		return adviceMsg{result: advisor.Advise(ctx, delta), delta: delta}
	}
}

// parseFloat treats an empty field as zero.
func parseFloat(raw, name string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, common.NewValidationError(name, raw, "not a number")
	}
	if v < 0 {
		return 0, common.NewValidationError(name, v, "must be non-negative")
	}
	return v, nil
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
