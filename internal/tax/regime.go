package tax

import (
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
)

// Deductions holds the per-section totals found in one run.
type Deductions map[model.Section]decimal.Decimal

// Get returns the total for s, or zero.
func (d Deductions) Get(s model.Section) decimal.Decimal {
	if v, ok := d[s]; ok {
		return v
	}
	return decimal.Zero
}

// Clone returns an independent copy.
func (d Deductions) Clone() Deductions {
	out := make(Deductions, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Validate rejects negative section totals.
func (d Deductions) Validate() error {
	for s, v := range d {
		if v.IsNegative() {
			return common.NewValidationError("deduction "+string(s), v.String(), "must be non-negative")
		}
	}
	return nil
}

// Result is the outcome of applying one regime to an income profile.
type Result struct {
	Regime          model.Regime    `json:"regime"`
	TaxLiability    decimal.Decimal `json:"tax_liability"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
}

// OldRegime computes liability under the old regime.
func OldRegime(gross decimal.Decimal, deductions Deductions) Result {
	return Calculate(OldPolicy(), gross, deductions)
}

// NewRegime computes liability under the new regime. Section deductions are ignored.
func NewRegime(gross decimal.Decimal, deductions Deductions) Result {
	return Calculate(NewPolicy(), gross, deductions)
}

// Calculate applies policy p to gross income and section totals.
// Section totals above their caps are truncated, never rejected.
func Calculate(p Policy, gross decimal.Decimal, deductions Deductions) Result {
	allowed := p.StandardDeduction
	for _, sc := range p.Sections {
		claimed := decimal.Max(decimal.Zero, deductions.Get(sc.Section))
		allowed = allowed.Add(decimal.Min(claimed, sc.Cap))
	}

	taxable := decimal.Max(decimal.Zero, gross.Sub(allowed))

	liability := calculateBracketTax(taxable, p.Brackets)
	if taxable.LessThanOrEqual(p.RebateLimit) {
		liability = decimal.Max(decimal.Zero, liability.Sub(p.RebateMax))
	}
	liability = liability.Mul(decimal.NewFromInt(1).Add(p.CessRate)).Round(2)

	return Result{
		Regime:          p.Regime,
		TaxLiability:    liability,
		TotalDeductions: allowed,
		TaxableIncome:   taxable,
	}
}
