// Package model defines the core domain models used throughout the application.
package model

// Classification is the derived view of a transaction: what it was spent on and
// whether it qualifies for a tax deduction.
type Classification struct {
	Category      Category `json:"category"`
	Section       Section  `json:"deduction_section"`
	TaxDeductible bool     `json:"tax_deductible"`
}

// ClassifiedTransaction pairs a transaction with its classification.
type ClassifiedTransaction struct {
	Transaction
	Classification
}
