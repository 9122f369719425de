package tax

import (
	"fmt"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/rules"
	"github.com/shopspring/decimal"
)

// Report is the full outcome of an optimisation run.
type Report struct {
	GrossIncome    decimal.Decimal             `json:"gross_income"`
	Deductions     Deductions                  `json:"deductions"`
	Section80E     decimal.Decimal             `json:"section_80e"`
	Old            Result                      `json:"old_regime"`
	New            Result                      `json:"new_regime"`
	Recommendation Recommendation              `json:"recommendation"`
	Suggestions    []model.SuggestedInvestment `json:"suggested_investments"`
	Transactions   int                         `json:"transactions"`
}

// Optimize aggregates classified transactions, evaluates both regimes and
// recommends one. It fails with ErrZeroIncome when no credit was found.
func Optimize(txns []model.ClassifiedTransaction, aggregation rules.SectionRules) (*Report, error) {
	gross, deductions := Aggregate(txns, aggregation)
	if gross.IsZero() {
		return nil, fmt.Errorf("optimize %d transactions: %w", len(txns), common.ErrZeroIncome)
	}

	report, err := Compare(gross, deductions)
	if err != nil {
		return nil, err
	}
	report.Section80E = sectionTotal(txns, model.Section80E)
	report.Transactions = len(txns)
	return report, nil
}

// Compare evaluates both regimes for an already-aggregated profile.
func Compare(gross decimal.Decimal, deductions Deductions) (*Report, error) {
	if gross.IsNegative() {
		return nil, common.NewValidationError("gross income", gross.String(), "must be non-negative")
	}
	if err := deductions.Validate(); err != nil {
		return nil, err
	}

	oldResult := OldRegime(gross, deductions)
	newResult := NewRegime(gross, deductions)

	return &Report{
		GrossIncome:    gross,
		Deductions:     deductions,
		Old:            oldResult,
		New:            newResult,
		Recommendation: Recommend(oldResult, newResult),
		Suggestions:    SuggestInvestments(gross, deductions),
	}, nil
}

// Record converts a report into the stored calculation shape.
func (r *Report) Record(financialYear string, now time.Time) model.TaxCalculation {
	return model.TaxCalculation{
		FinancialYear:     financialYear,
		TotalIncome:       r.GrossIncome.InexactFloat64(),
		OldRegimeTax:      r.Old.TaxLiability.InexactFloat64(),
		NewRegimeTax:      r.New.TaxLiability.InexactFloat64(),
		RecommendedRegime: r.Recommendation.Regime,
		TotalDeductions:   r.Old.TotalDeductions.InexactFloat64(),
		DeductionBreakdown: model.DeductionBreakdown{
			Section80C: r.Deductions.Get(model.Section80C).InexactFloat64(),
			Section80D: r.Deductions.Get(model.Section80D).InexactFloat64(),
			Section80G: r.Deductions.Get(model.Section80G).InexactFloat64(),
			Section24B: r.Deductions.Get(model.Section24B).InexactFloat64(),
			Section80E: r.Section80E.InexactFloat64(),
		},
		SuggestedInvestments: r.Suggestions,
		CalculationDate:      now,
	}
}

// FinancialYear returns the Indian financial year (April to March) containing t, e.g. "2024-25".
func FinancialYear(t time.Time) string {
	start := t.Year()
	if t.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FinancialYearRange returns the first and last instants of the financial year label.
func FinancialYearRange(fy string) (time.Time, time.Time, error) {
	var start, end int
	if _, err := fmt.Sscanf(fy, "%4d-%2d", &start, &end); err != nil || (start+1)%100 != end {
		return time.Time{}, time.Time{}, common.NewValidationError("financial year", fy, "expected YYYY-YY, e.g. 2024-25")
	}
	from := time.Date(start, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return from, to, nil
}

// FilterFinancialYear keeps the transactions dated inside fy.
func FilterFinancialYear(txns []model.ClassifiedTransaction, fy string) ([]model.ClassifiedTransaction, error) {
	from, to, err := FinancialYearRange(fy)
	if err != nil {
		return nil, err
	}
	out := make([]model.ClassifiedTransaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Date.Before(from) || txn.Date.After(to) {
			continue
		}
		out = append(out, txn)
	}
	return out, nil
}

// FinancialYearOf labels a batch by its latest transaction, falling back to now.
func FinancialYearOf(txns []model.ClassifiedTransaction, now time.Time) string {
	var latest time.Time
	for _, txn := range txns {
		if txn.Date.After(latest) {
			latest = txn.Date
		}
	}
	if latest.IsZero() {
		latest = now
	}
	return FinancialYear(latest)
}
