// Package credit implements a simplified CIBIL-style credit score model with
// prioritised advice and what-if projections.
package credit

import (
	"math"

	"github.com/Veraticus/taxwise/internal/common"
)

// Score bounds and baseline.
const (
	MinScore  = 300
	MaxScore  = 900
	BaseScore = 750
)

// Inputs describe a credit profile.
type Inputs struct {
	TotalCreditLimit   float64 `json:"total_credit_limit"`
	OutstandingDebt    float64 `json:"current_outstanding_debt"`
	OldestAccountYears float64 `json:"oldest_account_years"`
	LatePayments24m    int     `json:"late_payments_24m"`
}

// Validate rejects negative values.
func (in Inputs) Validate() error {
	switch {
	case in.TotalCreditLimit < 0:
		return common.NewValidationError("total_credit_limit", in.TotalCreditLimit, "must be non-negative")
	case in.OutstandingDebt < 0:
		return common.NewValidationError("current_outstanding_debt", in.OutstandingDebt, "must be non-negative")
	case in.LatePayments24m < 0:
		return common.NewValidationError("late_payments_24m", in.LatePayments24m, "must be non-negative")
	case in.OldestAccountYears < 0:
		return common.NewValidationError("oldest_account_years", in.OldestAccountYears, "must be non-negative")
	case math.IsNaN(in.TotalCreditLimit) || math.IsNaN(in.OutstandingDebt) || math.IsNaN(in.OldestAccountYears):
		return common.NewValidationError("inputs", in, "must be numbers")
	}
	return nil
}

// Utilization is debt over limit. A zero limit counts as fully utilised.
func (in Inputs) Utilization() float64 {
	if in.TotalCreditLimit == 0 {
		return 1
	}
	return in.OutstandingDebt / in.TotalCreditLimit
}

// Score computes the clamped score for in. Inputs are assumed valid.
func Score(in Inputs) int {
	score := float64(BaseScore)

	switch u := in.Utilization(); {
	case u >= 0.8:
		score -= 120
	case u >= 0.5:
		score -= 80
	case u >= 0.3:
		score -= 40
	case u < 0.1:
		score += 30
	}

	score -= 60 * float64(in.LatePayments24m)

	switch {
	case in.OldestAccountYears >= 8:
		score += 40
	case in.OldestAccountYears < 3:
		score -= 30
	}

	return clamp(int(math.Round(score)), MinScore, MaxScore)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Band labels a score.
func Band(score int) string {
	switch {
	case score >= 750:
		return "Excellent"
	case score >= 680:
		return "Good"
	case score >= 600:
		return "Fair"
	default:
		return "Poor"
	}
}

// Assessment bundles a score with its context.
type Assessment struct {
	Band        string       `json:"band"`
	Advice      []AdviceItem `json:"advice"`
	Inputs      Inputs       `json:"inputs"`
	Utilization float64      `json:"utilization_percent"`
	Score       int          `json:"score"`
}

// Assess validates in and returns its score, band and advice.
func Assess(in Inputs) (Assessment, error) {
	if err := in.Validate(); err != nil {
		return Assessment{}, err
	}
	score := Score(in)
	return Assessment{
		Inputs:      in,
		Score:       score,
		Band:        Band(score),
		Utilization: math.Round(in.Utilization() * 100),
		Advice:      Advise(in),
	}, nil
}
