package credit

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/taxwise/internal/common"
)

// ScenarioType names a hypothetical action.
type ScenarioType string

// Scenario types.
const (
	ScenarioPayoff        ScenarioType = "payoff"
	ScenarioLimitIncrease ScenarioType = "limit_increase"
)

// ParseScenarioType accepts the canonical names case-insensitively.
func ParseScenarioType(s string) (ScenarioType, error) {
	switch ScenarioType(strings.ToLower(strings.TrimSpace(s))) {
	case ScenarioPayoff:
		return ScenarioPayoff, nil
	case ScenarioLimitIncrease:
		return ScenarioLimitIncrease, nil
	default:
		return "", common.NewValidationError("scenario type", s, "expected payoff or limit_increase")
	}
}

// Scenario is a hypothetical change to a profile.
type Scenario struct {
	Type   ScenarioType `json:"type"`
	Amount float64      `json:"amount"`
}

// Validate rejects unknown types and negative amounts.
func (s Scenario) Validate() error {
	if _, err := ParseScenarioType(string(s.Type)); err != nil {
		return err
	}
	if s.Amount < 0 || math.IsNaN(s.Amount) {
		return common.NewValidationError("scenario amount", s.Amount, "must be non-negative")
	}
	return nil
}

// Apply returns a modified copy of in. The argument is never mutated.
func (s Scenario) Apply(in Inputs) Inputs {
	out := in
	switch s.Type {
	case ScenarioPayoff:
		out.OutstandingDebt = math.Max(0, in.OutstandingDebt-s.Amount)
	case ScenarioLimitIncrease:
		out.TotalCreditLimit = in.TotalCreditLimit + s.Amount
	}
	return out
}

// Describe renders the action in words for advisory text.
func (s Scenario) Describe() string {
	switch s.Type {
	case ScenarioPayoff:
		return fmt.Sprintf("paying off %s of high-interest debt", common.FormatINRFloat(s.Amount))
	case ScenarioLimitIncrease:
		return fmt.Sprintf("receiving a %s credit limit increase", common.FormatINRFloat(s.Amount))
	default:
		return string(s.Type)
	}
}

// Delta is the score movement a scenario produces.
type Delta struct {
	Scenario    Scenario `json:"scenario"`
	Baseline    int      `json:"current_score"`
	Projected   int      `json:"projected_score"`
	Improvement int      `json:"improvement"`
	Projection  Inputs   `json:"projected_inputs"`
}

// Simulate scores in before and after applying s.
func Simulate(in Inputs, s Scenario) (Delta, error) {
	if err := in.Validate(); err != nil {
		return Delta{}, err
	}
	if err := s.Validate(); err != nil {
		return Delta{}, err
	}

	projected := s.Apply(in)
	baseline := Score(in)
	after := Score(projected)

	return Delta{
		Scenario:    s,
		Baseline:    baseline,
		Projected:   after,
		Improvement: after - baseline,
		Projection:  projected,
	}, nil
}
