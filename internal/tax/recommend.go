package tax

import (
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
)

// Advice shown with each recommendation.
const (
	OldRegimeAdvice = "Your existing deductions under 80C, 80D and 24B give the old regime a clear edge. " +
		"Keep maximising these investments and file under the old regime."
	NewRegimeAdvice = "The new regime's lower slab rates outweigh the deductions you would give up. " +
		"Revisit investments you hold only for tax savings."
)

// Recommendation names the cheaper regime and by how much.
type Recommendation struct {
	Regime           model.Regime    `json:"regime"`
	Advice           string          `json:"advice"`
	FinalTax         decimal.Decimal `json:"final_tax"`
	SavingsPotential decimal.Decimal `json:"savings_potential"`
}

// Recommend picks the old regime only when it is strictly cheaper; ties go to the new regime.
func Recommend(oldResult, newResult Result) Recommendation {
	savings := oldResult.TaxLiability.Sub(newResult.TaxLiability).Abs()

	if oldResult.TaxLiability.LessThan(newResult.TaxLiability) {
		return Recommendation{
			Regime:           model.RegimeOld,
			FinalTax:         oldResult.TaxLiability,
			SavingsPotential: savings,
			Advice:           OldRegimeAdvice,
		}
	}

	return Recommendation{
		Regime:           model.RegimeNew,
		FinalTax:         newResult.TaxLiability,
		SavingsPotential: savings,
		Advice:           NewRegimeAdvice,
	}
}
