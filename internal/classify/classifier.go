// Package classify assigns a category, deductibility and deduction section to
// transactions using ordered keyword rules.
package classify

import (
	"strings"

	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/rules"
)

// Classifier is safe for concurrent use; it holds no mutable state.
type Classifier struct {
	rules *rules.RuleSet
}

// New creates a classifier over rs. A nil rule set selects the defaults.
func New(rs *rules.RuleSet) *Classifier {
	if rs == nil {
		rs = rules.Default()
	}
	return &Classifier{rules: rs}
}

// Classify derives the classification of a single description and direction.
func (c *Classifier) Classify(description string, direction model.Direction) model.Classification {
	desc := strings.ToLower(description)

	if direction.IsCredit() {
		category, ok := rules.MatchCategory(c.rules.Credit, desc)
		if !ok {
			category = model.CategoryOtherIncome
		}
		return model.Classification{
			Category: category,
			Section:  model.SectionNone,
		}
	}

	category, ok := rules.MatchCategory(c.rules.Debit, desc)
	if !ok {
		category = model.CategoryOtherExpense
	}

	section, _ := c.rules.Sections.Match(desc)

	return model.Classification{
		Category:      category,
		TaxDeductible: rules.ContainsAny(desc, c.rules.Deductible),
		Section:       section,
	}
}

// ClassifyAll classifies a batch, preserving order.
func (c *Classifier) ClassifyAll(txns []model.Transaction) []model.ClassifiedTransaction {
	out := make([]model.ClassifiedTransaction, len(txns))
	for i, txn := range txns {
		out[i] = model.ClassifiedTransaction{
			Transaction:    txn,
			Classification: c.Classify(txn.Description, txn.Direction),
		}
	}
	return out
}

// Rules exposes the rule set in use.
func (c *Classifier) Rules() *rules.RuleSet {
	return c.rules
}
