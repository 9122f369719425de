// Package storage provides the data persistence layer for taxwise.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/taxwise/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCalculation = errors.New("invalid tax calculation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransactions(txns []model.ClassifiedTransaction) error {
	if txns == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(txns) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}
	for i := range txns {
		if err := validateTransaction(&txns[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

func validateTransaction(txn *model.ClassifiedTransaction) error {
	switch {
	case txn.ID == "":
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	case txn.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	case strings.TrimSpace(txn.Description) == "":
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	case txn.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	case txn.Direction != model.DirectionCredit && txn.Direction != model.DirectionDebit:
		return fmt.Errorf("%w: direction %q", ErrInvalidTransaction, txn.Direction)
	case !txn.Category.Valid():
		return fmt.Errorf("%w: category %q", ErrInvalidTransaction, txn.Category)
	}
	return nil
}

func validateCalculation(calc *model.TaxCalculation) error {
	if calc == nil {
		return fmt.Errorf("%w: calculation", ErrNilParameter)
	}
	switch {
	case calc.FinancialYear == "":
		return fmt.Errorf("%w: missing financial year", ErrInvalidCalculation)
	case calc.RecommendedRegime != model.RegimeOld && calc.RecommendedRegime != model.RegimeNew:
		return fmt.Errorf("%w: regime %q", ErrInvalidCalculation, calc.RecommendedRegime)
	case calc.TotalIncome < 0 || calc.OldRegimeTax < 0 || calc.NewRegimeTax < 0 || calc.TotalDeductions < 0:
		return fmt.Errorf("%w: negative amount", ErrInvalidCalculation)
	}
	return nil
}

func validateFilter(f TransactionFilter) error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return ErrInvalidDateRange
	}
	if f.Direction != "" && f.Direction != model.DirectionCredit && f.Direction != model.DirectionDebit {
		return fmt.Errorf("%w: direction %q", ErrInvalidTransaction, f.Direction)
	}
	return nil
}
