package tax

import (
	"strings"

	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/rules"
	"github.com/shopspring/decimal"
)

// Aggregate sums gross income over credits and section totals over debits.
// A debit counts toward at most one section: the first aggregation rule whose
// keyword appears in its description. Debits matching nothing are ignored.
func Aggregate(txns []model.ClassifiedTransaction, aggregation rules.SectionRules) (decimal.Decimal, Deductions) {
	gross := decimal.Zero
	deductions := make(Deductions)

	for _, txn := range txns {
		amount := txn.Amount.Abs()

		if txn.Direction.IsCredit() {
			gross = gross.Add(amount)
			continue
		}

		section, ok := aggregation.Match(strings.ToLower(txn.Description))
		if !ok {
			continue
		}
		deductions[section] = deductions.Get(section).Add(amount)
	}

	return gross, deductions
}

// sectionTotal sums debits the classifier tagged with section s.
func sectionTotal(txns []model.ClassifiedTransaction, s model.Section) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range txns {
		if !txn.Direction.IsCredit() && txn.TaxDeductible && txn.Section == s {
			total = total.Add(txn.Amount.Abs())
		}
	}
	return total
}
