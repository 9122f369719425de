package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/google/uuid"
)

const calculationColumns = `id, financial_year, total_income, old_regime_tax, new_regime_tax,
	recommended_regime, total_deductions, deduction_breakdown, suggested_investments, calculation_date`

// SaveTaxCalculation stores a calculation record, assigning an ID when empty.
func (s *SQLiteStorage) SaveTaxCalculation(ctx context.Context, calc *model.TaxCalculation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCalculation(calc); err != nil {
		return err
	}

	if calc.ID == "" {
		calc.ID = uuid.NewString()
	}

	breakdown, err := json.Marshal(calc.DeductionBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal deduction breakdown: %w", err)
	}
	suggestions := calc.SuggestedInvestments
	if suggestions == nil {
		suggestions = []model.SuggestedInvestment{}
	}
	investments, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("failed to marshal suggested investments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tax_calculations (`+calculationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		calc.ID,
		calc.FinancialYear,
		calc.TotalIncome,
		calc.OldRegimeTax,
		calc.NewRegimeTax,
		string(calc.RecommendedRegime),
		calc.TotalDeductions,
		string(breakdown),
		string(investments),
		calc.CalculationDate.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save tax calculation: %w", err)
	}
	return nil
}

// GetLatestTaxCalculation returns the most recent record, optionally for one
// financial year. It returns common.ErrNotFound when there is none.
func (s *SQLiteStorage) GetLatestTaxCalculation(ctx context.Context, financialYear string) (*model.TaxCalculation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + calculationColumns + ` FROM tax_calculations`
	var args []any
	if financialYear != "" {
		query += ` WHERE financial_year = ?`
		args = append(args, financialYear)
	}
	query += ` ORDER BY calculation_date DESC, rowid DESC LIMIT 1`

	calc, err := scanCalculation(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: tax calculation", common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return calc, nil
}

// ListTaxCalculations returns records newest first. A non-positive limit returns all.
func (s *SQLiteStorage) ListTaxCalculations(ctx context.Context, limit int) ([]model.TaxCalculation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + calculationColumns + ` FROM tax_calculations ORDER BY calculation_date DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var calcs []model.TaxCalculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calcs = append(calcs, *calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tax calculations: %w", err)
	}
	return calcs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row rowScanner) (*model.TaxCalculation, error) {
	var (
		calc        model.TaxCalculation
		regime      string
		breakdown   string
		investments string
	)
	err := row.Scan(
		&calc.ID,
		&calc.FinancialYear,
		&calc.TotalIncome,
		&calc.OldRegimeTax,
		&calc.NewRegimeTax,
		&regime,
		&calc.TotalDeductions,
		&breakdown,
		&investments,
		&calc.CalculationDate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tax calculation: %w", err)
	}

	calc.RecommendedRegime = model.Regime(regime)
	if err := json.Unmarshal([]byte(breakdown), &calc.DeductionBreakdown); err != nil {
		return nil, fmt.Errorf("failed to decode deduction breakdown: %w", err)
	}
	if err := json.Unmarshal([]byte(investments), &calc.SuggestedInvestments); err != nil {
		return nil, fmt.Errorf("failed to decode suggested investments: %w", err)
	}
	return &calc, nil
}
