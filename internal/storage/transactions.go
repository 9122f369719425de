package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/model"
)

// TransactionFilter narrows ListTransactions. Zero values match everything;
// From and To are inclusive.
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	Direction model.Direction
	Category  model.Category
	Section   model.Section
	Limit     int
}

// SaveTransactions stores classified transactions, skipping any whose hash is
// already present. It returns the number of rows inserted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, txns []model.ClassifiedTransaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(txns); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, date, description, amount, direction,
			source, category, deduction_section, tax_deductible
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range txns {
		hash := txn.Hash
		if hash == "" {
			hash = txn.GenerateHash()
		}
		section := txn.Section
		if section == "" {
			section = model.SectionNone
		}

		res, execErr := stmt.ExecContext(ctx,
			txn.ID,
			hash,
			txn.Date.UTC(),
			txn.Description,
			txn.Amount.StringFixed(2),
			string(txn.Direction),
			txn.Source,
			string(txn.Category),
			string(section),
			txn.TaxDeductible,
		)
		if execErr != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, execErr)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// ListTransactions returns stored transactions in date order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.ClassifiedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.Direction != "" {
		where = append(where, "direction = ?")
		args = append(args, string(filter.Direction))
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(filter.Category))
	}
	if filter.Section != "" {
		where = append(where, "deduction_section = ?")
		args = append(args, string(filter.Section))
	}

	query := `SELECT id, hash, date, description, amount, direction, source,
		category, deduction_section, tax_deductible FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.ClassifiedTransaction
	for rows.Next() {
		var (
			txn       model.ClassifiedTransaction
			direction string
			category  string
			section   string
			source    *string
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.Hash,
			&txn.Date,
			&txn.Description,
			&txn.Amount,
			&direction,
			&source,
			&category,
			&section,
			&txn.TaxDeductible,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Direction = model.Direction(direction)
		txn.Category = model.Category(category)
		txn.Section = model.Section(section)
		if source != nil {
			txn.Source = *source
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}
