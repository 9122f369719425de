package rules

import "github.com/Veraticus/taxwise/internal/model"

// Default returns a fresh copy of the built-in rule tables.
func Default() *RuleSet {
	return &RuleSet{
		Credit: []CategoryRule{
			{Category: model.CategorySalary, Keywords: []string{"salary", "payroll"}},
			{Category: model.CategoryFreelanceIncome, Keywords: []string{"freelance", "consulting"}},
			{Category: model.CategoryInvestmentReturns, Keywords: []string{"dividend", "interest"}},
		},
		Debit: []CategoryRule{
			{Category: model.CategoryRent, Keywords: []string{"rent", "lease"}},
			{Category: model.CategoryEMI, Keywords: []string{"emi", "loan"}},
			{Category: model.CategorySIP, Keywords: []string{"sip", "mutual"}},
			{Category: model.CategoryInsurance, Keywords: []string{"insurance", "premium"}},
			{Category: model.CategoryUtilities, Keywords: []string{"electricity", "water", "gas"}},
			{Category: model.CategoryFood, Keywords: []string{"food", "restaurant", "grocery"}},
			{Category: model.CategoryTransportation, Keywords: []string{"uber", "ola", "petrol"}},
			{Category: model.CategoryEntertainment, Keywords: []string{"movie", "entertainment"}},
			{Category: model.CategoryShopping, Keywords: []string{"shopping", "amazon", "flipkart"}},
			{Category: model.CategoryMedical, Keywords: []string{"medical", "hospital", "pharmacy"}},
			{Category: model.CategoryEducation, Keywords: []string{"school", "education", "course"}},
		},
		Deductible: []string{"insurance", "sip", "mutual", "ppf", "elss", "medical", "education", "home loan"},
		Sections: SectionRules{
			{Section: model.Section80D, Keywords: []string{"insurance"}},
			{Section: model.Section80C, Keywords: []string{"sip", "ppf", "elss"}},
			{Section: model.Section80D, Keywords: []string{"medical"}},
			{Section: model.Section80E, Keywords: []string{"education"}},
			{Section: model.Section24B, Keywords: []string{"home loan"}},
		},
		Aggregation: SectionRules{
			{Section: model.Section80C, Keywords: []string{"lic", "ppf", "elss", "principal repay", "nsc", "tuition"}},
			{Section: model.Section80D, Keywords: []string{"health insurance", "mediclaim"}},
			{Section: model.Section24B, Keywords: []string{"interest payment"}},
		},
	}
}
