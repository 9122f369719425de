package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{name: "valid string", str: "test", paramName: "param"},
		{name: "empty string", str: "", paramName: "param", wantErr: true},
		{name: "whitespace only", str: "   ", paramName: "param", wantErr: true},
		{name: "string with spaces", str: "  test  ", paramName: "param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	valid := func() *model.ClassifiedTransaction {
		return &model.ClassifiedTransaction{
			Transaction: model.Transaction{
				ID:          "txn-1",
				Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				Description: "PPF deposit",
				Amount:      decimal.NewFromInt(5000),
				Direction:   model.DirectionDebit,
			},
			Classification: model.Classification{Category: model.CategorySIP, Section: model.Section80C},
		}
	}

	tests := []struct {
		modify func(*model.ClassifiedTransaction)
		name   string
		errMsg string
	}{
		{name: "valid", modify: func(*model.ClassifiedTransaction) {}},
		{name: "missing ID", modify: func(tx *model.ClassifiedTransaction) { tx.ID = "" }, errMsg: "missing ID"},
		{name: "zero date", modify: func(tx *model.ClassifiedTransaction) { tx.Date = time.Time{} }, errMsg: "missing date"},
		{name: "blank description", modify: func(tx *model.ClassifiedTransaction) { tx.Description = "  " }, errMsg: "missing description"},
		{name: "negative amount", modify: func(tx *model.ClassifiedTransaction) { tx.Amount = decimal.NewFromInt(-1) }, errMsg: "negative amount"},
		{name: "unknown direction", modify: func(tx *model.ClassifiedTransaction) { tx.Direction = "sideways" }, errMsg: "direction"},
		{name: "unknown category", modify: func(tx *model.ClassifiedTransaction) { tx.Category = "gambling" }, errMsg: "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := valid()
			tt.modify(txn)

			err := validateTransaction(txn)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransaction)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateTransactions(t *testing.T) {
	assert.ErrorIs(t, validateTransactions(nil), ErrNilParameter)
	assert.ErrorIs(t, validateTransactions([]model.ClassifiedTransaction{}), ErrEmptySlice)

	err := validateTransactions([]model.ClassifiedTransaction{{}})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
	assert.Contains(t, err.Error(), "index 0")
}

func TestValidateCalculation(t *testing.T) {
	tests := []struct {
		calc    *model.TaxCalculation
		name    string
		wantErr error
	}{
		{name: "nil", calc: nil, wantErr: ErrNilParameter},
		{name: "valid", calc: &model.TaxCalculation{FinancialYear: "2024-25", RecommendedRegime: model.RegimeOld}},
		{name: "missing year", calc: &model.TaxCalculation{RecommendedRegime: model.RegimeNew}, wantErr: ErrInvalidCalculation},
		{name: "unknown regime", calc: &model.TaxCalculation{FinancialYear: "2024-25", RecommendedRegime: "both"}, wantErr: ErrInvalidCalculation},
		{name: "negative tax", calc: &model.TaxCalculation{FinancialYear: "2024-25", RecommendedRegime: model.RegimeNew, OldRegimeTax: -1}, wantErr: ErrInvalidCalculation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCalculation(tt.calc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFilter(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		filter  TransactionFilter
		wantErr error
	}{
		{name: "empty", filter: TransactionFilter{}},
		{name: "open ended", filter: TransactionFilter{From: day(1)}},
		{name: "same day", filter: TransactionFilter{From: day(1), To: day(1)}},
		{name: "reversed range", filter: TransactionFilter{From: day(2), To: day(1)}, wantErr: ErrInvalidDateRange},
		{name: "credit", filter: TransactionFilter{Direction: model.DirectionCredit}},
		{name: "unknown direction", filter: TransactionFilter{Direction: "up"}, wantErr: ErrInvalidTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFilter(tt.filter)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
