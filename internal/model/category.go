package model

import "strings"

// Category is a spending or income bucket.
type Category string

// Income categories.
const (
	CategorySalary            Category = "salary"
	CategoryFreelanceIncome   Category = "freelance_income"
	CategoryInvestmentReturns Category = "investment_returns"
	CategoryOtherIncome       Category = "other_income"
)

// Expense categories.
const (
	CategoryRent           Category = "rent"
	CategoryEMI            Category = "emi"
	CategorySIP            Category = "sip"
	CategoryInsurance      Category = "insurance"
	CategoryUtilities      Category = "utilities"
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryEntertainment  Category = "entertainment"
	CategoryShopping       Category = "shopping"
	CategoryMedical        Category = "medical"
	CategoryEducation      Category = "education"
	CategoryOtherExpense   Category = "other_expense"
)

var incomeCategories = map[Category]bool{
	CategorySalary:            true,
	CategoryFreelanceIncome:   true,
	CategoryInvestmentReturns: true,
	CategoryOtherIncome:       true,
}

var expenseCategories = map[Category]bool{
	CategoryRent:           true,
	CategoryEMI:            true,
	CategorySIP:            true,
	CategoryInsurance:      true,
	CategoryUtilities:      true,
	CategoryFood:           true,
	CategoryTransportation: true,
	CategoryEntertainment:  true,
	CategoryShopping:       true,
	CategoryMedical:        true,
	CategoryEducation:      true,
	CategoryOtherExpense:   true,
}

// IsIncome reports whether c belongs to the income set.
func (c Category) IsIncome() bool {
	return incomeCategories[c]
}

// IsExpense reports whether c belongs to the expense set.
func (c Category) IsExpense() bool {
	return expenseCategories[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.IsIncome() || c.IsExpense()
}

// Section is an Indian income-tax deduction section.
type Section string

// Deduction sections.
const (
	Section80C  Section = "80C"
	Section80D  Section = "80D"
	Section80E  Section = "80E"
	Section80G  Section = "80G"
	Section24B  Section = "24B"
	SectionNone Section = "none"
)

// ParseSection normalizes a section label such as "80c" or "24b".
func ParseSection(s string) (Section, bool) {
	switch Section(strings.ToUpper(strings.TrimSpace(s))) {
	case Section80C:
		return Section80C, true
	case Section80D:
		return Section80D, true
	case Section80E:
		return Section80E, true
	case Section80G:
		return Section80G, true
	case Section24B:
		return Section24B, true
	}
	if strings.EqualFold(strings.TrimSpace(s), string(SectionNone)) {
		return SectionNone, true
	}
	return "", false
}
