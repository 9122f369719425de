// Package ingest turns bank exports into transactions the engine can classify.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Batch is the usable output of one import.
type Batch struct {
	Transactions []model.Transaction
	Skipped      int
}

type column int

const (
	colDate column = iota
	colDescription
	colAmount
	colDebit
	colCredit
	colDirection
)

// headerAliases maps normalised bank export headers onto columns.
var headerAliases = map[string]column{
	"date":             colDate,
	"txn date":         colDate,
	"transaction date": colDate,
	"value date":       colDate,
	"description":      colDescription,
	"narration":        colDescription,
	"particulars":      colDescription,
	"remarks":          colDescription,
	"amount":           colAmount,
	"withdrawal amt.":  colDebit,
	"withdrawal amt":   colDebit,
	"withdrawal":       colDebit,
	"debit":            colDebit,
	"deposit amt.":     colCredit,
	"deposit amt":      colCredit,
	"deposit":          colCredit,
	"credit":           colCredit,
	"type":             colDirection,
	"direction":        colDirection,
	"dr/cr":            colDirection,
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
	"02-01-06",
	"02-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2006/01/02",
	time.RFC3339,
}

// ReadCSV reads a bank CSV export. Rows that cannot be parsed are skipped and
// counted; common.ErrNoUsableRows is returned only when nothing survives.
func ReadCSV(r io.Reader, source string) (Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, fmt.Errorf("%w: empty file", common.ErrNoUsableRows)
		}
		return Batch{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return Batch{}, err
	}

	var batch Batch
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			slog.Debug("skipping unreadable CSV row", "line", line, "error", err)
			batch.Skipped++
			continue
		}
		if isBlank(record) {
			continue
		}

		txn, err := parseRow(record, cols)
		if err != nil {
			slog.Debug("skipping malformed CSV row", "line", line, "error", err)
			batch.Skipped++
			continue
		}
		txn.Source = source
		txn.ID = uuid.NewString()
		txn.Hash = txn.GenerateHash()
		batch.Transactions = append(batch.Transactions, txn)
	}

	if len(batch.Transactions) == 0 {
		return batch, fmt.Errorf("%w: %d row(s) skipped", common.ErrNoUsableRows, batch.Skipped)
	}
	return batch, nil
}

func mapHeader(header []string) (map[column]int, error) {
	cols := make(map[column]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		c, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, seen := cols[c]; !seen {
			cols[c] = i
		}
	}

	if _, ok := cols[colDate]; !ok {
		return nil, common.NewValidationError("header", strings.Join(header, ","), "no date column")
	}
	if _, ok := cols[colDescription]; !ok {
		return nil, common.NewValidationError("header", strings.Join(header, ","), "no description column")
	}
	_, hasAmount := cols[colAmount]
	_, hasDebit := cols[colDebit]
	_, hasCredit := cols[colCredit]
	if !hasAmount && !hasDebit && !hasCredit {
		return nil, common.NewValidationError("header", strings.Join(header, ","), "no amount column")
	}
	return cols, nil
}

func parseRow(record []string, cols map[column]int) (model.Transaction, error) {
	field := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseDate(field(colDate))
	if err != nil {
		return model.Transaction{}, err
	}

	description := field(colDescription)
	if description == "" {
		return model.Transaction{}, errors.New("empty description")
	}

	amount, direction, err := rowAmount(field)
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   direction,
	}, nil
}

// rowAmount resolves magnitude and direction. Split debit/credit columns win;
// otherwise an explicit direction column; otherwise the amount sign.
func rowAmount(field func(column) string) (decimal.Decimal, model.Direction, error) {
	if debit, ok, err := parseAmount(field(colDebit)); err != nil {
		return decimal.Zero, "", err
	} else if ok && !debit.IsZero() {
		return debit.Abs(), model.DirectionDebit, nil
	}
	if credit, ok, err := parseAmount(field(colCredit)); err != nil {
		return decimal.Zero, "", err
	} else if ok && !credit.IsZero() {
		return credit.Abs(), model.DirectionCredit, nil
	}

	amount, ok, err := parseAmount(field(colAmount))
	if err != nil {
		return decimal.Zero, "", err
	}
	if !ok || amount.IsZero() {
		return decimal.Zero, "", errors.New("no amount")
	}

	if raw := field(colDirection); raw != "" {
		direction, ok := model.ParseDirection(raw)
		if !ok {
			return decimal.Zero, "", fmt.Errorf("unknown direction %q", raw)
		}
		return amount.Abs(), direction, nil
	}

	if amount.IsNegative() {
		return amount.Abs(), model.DirectionDebit, nil
	}
	return amount, model.DirectionCredit, nil
}

// parseAmount strips thousands separators and currency marks. ok is false for
// an empty cell.
func parseAmount(raw string) (decimal.Decimal, bool, error) {
	cleaned := strings.NewReplacer(",", "", "₹", "", "INR", "", "Rs.", "", " ", "").Replace(raw)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, false, nil
	}
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.Trim(cleaned, "()")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, true, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
