package tax

import (
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
)

var investmentTypes = []struct {
	section model.Section
	label   string
}{
	{section: model.Section80C, label: "ELSS / PPF / Tax-saver FD"},
	{section: model.Section80D, label: "Health insurance premium"},
}

// SuggestInvestments reports the unused old-regime allowance for 80C and 80D
// and the exact liability reduction from filling each one to its cap.
func SuggestInvestments(gross decimal.Decimal, deductions Deductions) []model.SuggestedInvestment {
	policy := OldPolicy()
	baseline := Calculate(policy, gross, deductions).TaxLiability

	suggestions := make([]model.SuggestedInvestment, 0, len(investmentTypes))
	for _, it := range investmentTypes {
		limit, ok := policy.Cap(it.section)
		if !ok {
			continue
		}
		headroom := limit.Sub(decimal.Min(limit, deductions.Get(it.section)))
		if !headroom.IsPositive() {
			continue
		}

		filled := deductions.Clone()
		filled[it.section] = limit
		saving := baseline.Sub(Calculate(policy, gross, filled).TaxLiability)
		if !saving.IsPositive() {
			continue
		}

		suggestions = append(suggestions, model.SuggestedInvestment{
			InvestmentType: it.label,
			Section:        it.section,
			Amount:         headroom.InexactFloat64(),
			TaxSaving:      saving.InexactFloat64(),
		})
	}
	return suggestions
}
