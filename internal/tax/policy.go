// Package tax computes Indian income-tax liability under the old and new
// regimes and recommends the cheaper one.
package tax

import (
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
)

// taxBracket is a marginal band. Income above Min and up to Max is taxed at Rate.
type taxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal // zero means no upper limit
	Rate decimal.Decimal
}

// sectionCap is a deduction section a regime allows, with its ceiling.
type sectionCap struct {
	Section model.Section
	Cap     decimal.Decimal
}

// Policy holds every parameter of one regime.
type Policy struct {
	Regime            model.Regime
	StandardDeduction decimal.Decimal
	Sections          []sectionCap
	Brackets          []taxBracket
	RebateLimit       decimal.Decimal // rebate applies when taxable income is at or below this
	RebateMax         decimal.Decimal
	CessRate          decimal.Decimal
}

func inr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func pct(p int64) decimal.Decimal {
	return decimal.New(p, -2)
}

// OldPolicy is the old regime: standard deduction plus capped 80C, 80D and 24B.
func OldPolicy() Policy {
	return Policy{
		Regime:            model.RegimeOld,
		StandardDeduction: inr(50000),
		Sections: []sectionCap{
			{Section: model.Section80C, Cap: inr(150000)},
			{Section: model.Section80D, Cap: inr(50000)},
			{Section: model.Section24B, Cap: inr(200000)},
		},
		Brackets: []taxBracket{
			{Min: inr(0), Max: inr(250000), Rate: pct(0)},
			{Min: inr(250000), Max: inr(500000), Rate: pct(5)},
			{Min: inr(500000), Max: inr(1000000), Rate: pct(20)},
			{Min: inr(1000000), Rate: pct(30)},
		},
		RebateLimit: inr(500000),
		RebateMax:   inr(12500),
		CessRate:    pct(4),
	}
}

// NewPolicy is the new regime: standard deduction only, wider slabs, and a
// rebate that zeroes liability up to 7 lakh of taxable income.
func NewPolicy() Policy {
	return Policy{
		Regime:            model.RegimeNew,
		StandardDeduction: inr(50000),
		Brackets: []taxBracket{
			{Min: inr(0), Max: inr(300000), Rate: pct(0)},
			{Min: inr(300000), Max: inr(600000), Rate: pct(5)},
			{Min: inr(600000), Max: inr(900000), Rate: pct(10)},
			{Min: inr(900000), Max: inr(1200000), Rate: pct(15)},
			{Min: inr(1200000), Max: inr(1500000), Rate: pct(20)},
			{Min: inr(1500000), Rate: pct(30)},
		},
		RebateLimit: inr(700000),
		RebateMax:   inr(25000),
		CessRate:    pct(4),
	}
}

// Cap returns the ceiling for section s, and whether the regime allows it at all.
func (p Policy) Cap(s model.Section) (decimal.Decimal, bool) {
	for _, sc := range p.Sections {
		if sc.Section == s {
			return sc.Cap, true
		}
	}
	return decimal.Zero, false
}

// calculateBracketTax applies the marginal brackets to taxable income.
func calculateBracketTax(taxable decimal.Decimal, brackets []taxBracket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range brackets {
		if taxable.LessThanOrEqual(b.Min) {
			break
		}
		upper := taxable
		if !b.Max.IsZero() && upper.GreaterThan(b.Max) {
			upper = b.Max
		}
		total = total.Add(upper.Sub(b.Min).Mul(b.Rate))
	}
	return total
}
