package model

import "time"

// Regime identifies one of the two mutually exclusive tax regimes.
type Regime string

// Regimes.
const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// DeductionBreakdown is the per-section view stored with a calculation.
type DeductionBreakdown struct {
	Section80C float64 `json:"section_80c"`
	Section80D float64 `json:"section_80d"`
	Section80G float64 `json:"section_80g"`
	Section24B float64 `json:"section_24b"`
	Section80E float64 `json:"section_80e"`
}

// SuggestedInvestment is an unused deduction allowance and what filling it would save.
type SuggestedInvestment struct {
	InvestmentType string  `json:"investment_type"`
	Section        Section `json:"section"`
	Amount         float64 `json:"amount"`
	TaxSaving      float64 `json:"tax_saving"`
}

// TaxCalculation is the persisted and exported record of one optimisation run.
type TaxCalculation struct {
	CalculationDate      time.Time             `json:"calculation_date"`
	ID                   string                `json:"id,omitempty"`
	FinancialYear        string                `json:"financial_year"`
	RecommendedRegime    Regime                `json:"recommended_regime"`
	SuggestedInvestments []SuggestedInvestment `json:"suggested_investments"`
	DeductionBreakdown   DeductionBreakdown    `json:"deduction_breakdown"`
	TotalIncome          float64               `json:"total_income"`
	OldRegimeTax         float64               `json:"old_regime_tax"`
	NewRegimeTax         float64               `json:"new_regime_tax"`
	TotalDeductions      float64               `json:"total_deductions"`
}
