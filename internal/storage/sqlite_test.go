package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func classified(id string, date time.Time, desc string, amount int64, dir model.Direction, cat model.Category, sec model.Section) model.ClassifiedTransaction {
	txn := model.ClassifiedTransaction{
		Transaction: model.Transaction{
			ID:          id,
			Date:        date,
			Description: desc,
			Amount:      decimal.NewFromInt(amount),
			Direction:   dir,
			Source:      "test.csv",
		},
		Classification: model.Classification{
			Category:      cat,
			Section:       sec,
			TaxDeductible: sec != model.SectionNone,
		},
	}
	txn.Hash = txn.GenerateHash()
	return txn
}

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleTransactions() []model.ClassifiedTransaction {
	return []model.ClassifiedTransaction{
		classified("t1", day(4, 1), "SALARY APRIL", 80000, model.DirectionCredit, model.CategorySalary, model.SectionNone),
		classified("t2", day(4, 5), "LIC premium", 20000, model.DirectionDebit, model.CategoryInsurance, model.Section80D),
		classified("t3", day(5, 10), "ELSS SIP", 5000, model.DirectionDebit, model.CategorySIP, model.Section80C),
		classified("t4", day(6, 1), "Swiggy dinner", 650, model.DirectionDebit, model.CategoryFood, model.SectionNone),
	}
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.schemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Re-running is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"transactions", "tax_calculations"} {
		var name string
		err := store.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestNewSQLiteStorageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taxwise.db")
	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Equal(t, path, store.Path())
	require.NoError(t, store.Migrate(context.Background()))
	assert.FileExists(t, path)
}

func TestNewSQLiteStorageEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestSaveTransactionsDeduplicates(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	txns := sampleTransactions()

	n, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Same content under fresh IDs is still a duplicate by hash.
	again := sampleTransactions()
	for i := range again {
		again[i].ID += "-reimport"
	}
	n, err = store.SaveTransactions(ctx, again)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := store.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListTransactionsRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	txns := sampleTransactions()

	_, err := store.SaveTransactions(ctx, txns)
	require.NoError(t, err)

	got, err := store.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, got, len(txns))

	for i := range txns {
		want := txns[i]
		assert.Equal(t, want.ID, got[i].ID)
		assert.Equal(t, want.Hash, got[i].Hash)
		assert.True(t, want.Date.Equal(got[i].Date))
		assert.Equal(t, want.Description, got[i].Description)
		assert.True(t, want.Amount.Equal(got[i].Amount), "amount %s vs %s", want.Amount, got[i].Amount)
		assert.Equal(t, want.Direction, got[i].Direction)
		assert.Equal(t, want.Source, got[i].Source)
		assert.Equal(t, want.Classification, got[i].Classification)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	_, err := store.SaveTransactions(ctx, sampleTransactions())
	require.NoError(t, err)

	tests := []struct {
		name    string
		filter  TransactionFilter
		wantIDs []string
	}{
		{name: "all", filter: TransactionFilter{}, wantIDs: []string{"t1", "t2", "t3", "t4"}},
		{name: "from", filter: TransactionFilter{From: day(5, 1)}, wantIDs: []string{"t3", "t4"}},
		{name: "to inclusive", filter: TransactionFilter{To: day(4, 5)}, wantIDs: []string{"t1", "t2"}},
		{name: "range", filter: TransactionFilter{From: day(4, 2), To: day(5, 31)}, wantIDs: []string{"t2", "t3"}},
		{name: "credits", filter: TransactionFilter{Direction: model.DirectionCredit}, wantIDs: []string{"t1"}},
		{name: "category", filter: TransactionFilter{Category: model.CategoryFood}, wantIDs: []string{"t4"}},
		{name: "section", filter: TransactionFilter{Section: model.Section80C}, wantIDs: []string{"t3"}},
		{name: "limit", filter: TransactionFilter{Limit: 2}, wantIDs: []string{"t1", "t2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListTransactions(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, txn := range got {
				ids = append(ids, txn.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListTransactionsInvalidFilter(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.ListTransactions(context.Background(), TransactionFilter{From: day(6, 1), To: day(4, 1)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = store.ListTransactions(context.Background(), TransactionFilter{Direction: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestSaveTransactionsValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.SaveTransactions(ctx, nil)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = store.SaveTransactions(ctx, []model.ClassifiedTransaction{})
	assert.ErrorIs(t, err, ErrEmptySlice)

	base := sampleTransactions()[0]
	tests := []struct {
		name   string
		mutate func(*model.ClassifiedTransaction)
	}{
		{name: "missing id", mutate: func(txn *model.ClassifiedTransaction) { txn.ID = "" }},
		{name: "missing date", mutate: func(txn *model.ClassifiedTransaction) { txn.Date = time.Time{} }},
		{name: "missing description", mutate: func(txn *model.ClassifiedTransaction) { txn.Description = " " }},
		{name: "negative amount", mutate: func(txn *model.ClassifiedTransaction) { txn.Amount = decimal.NewFromInt(-1) }},
		{name: "bad direction", mutate: func(txn *model.ClassifiedTransaction) { txn.Direction = "both" }},
		{name: "bad category", mutate: func(txn *model.ClassifiedTransaction) { txn.Category = "lottery" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base
			tt.mutate(&txn)
			_, err := store.SaveTransactions(ctx, []model.ClassifiedTransaction{txn})
			assert.ErrorIs(t, err, ErrInvalidTransaction)
		})
	}
}

func sampleCalculation(fy string, at time.Time) *model.TaxCalculation {
	return &model.TaxCalculation{
		FinancialYear:     fy,
		TotalIncome:       960000,
		OldRegimeTax:      74360,
		NewRegimeTax:      48360,
		RecommendedRegime: model.RegimeNew,
		TotalDeductions:   165000,
		DeductionBreakdown: model.DeductionBreakdown{
			Section80C: 75000,
			Section80D: 20000,
			Section24B: 20000,
			Section80E: 8000,
		},
		SuggestedInvestments: []model.SuggestedInvestment{
			{InvestmentType: "ELSS / PPF / Tax-saver FD", Section: model.Section80C, Amount: 75000, TaxSaving: 15600},
		},
		CalculationDate: at,
	}
}

func TestTaxCalculationRoundTrip(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	calc := sampleCalculation("2024-25", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveTaxCalculation(ctx, calc))
	assert.NotEmpty(t, calc.ID)

	got, err := store.GetLatestTaxCalculation(ctx, "2024-25")
	require.NoError(t, err)

	assert.Equal(t, calc.ID, got.ID)
	assert.Equal(t, calc.FinancialYear, got.FinancialYear)
	assert.InDelta(t, calc.OldRegimeTax, got.OldRegimeTax, 0.001)
	assert.Equal(t, calc.RecommendedRegime, got.RecommendedRegime)
	assert.Equal(t, calc.DeductionBreakdown, got.DeductionBreakdown)
	assert.Equal(t, calc.SuggestedInvestments, got.SuggestedInvestments)
	assert.True(t, calc.CalculationDate.Equal(got.CalculationDate))
}

func TestTaxCalculationHistory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	older := sampleCalculation("2023-24", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleCalculation("2024-25", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	newer.SuggestedInvestments = nil
	require.NoError(t, store.SaveTaxCalculation(ctx, older))
	require.NoError(t, store.SaveTaxCalculation(ctx, newer))

	latest, err := store.GetLatestTaxCalculation(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
	assert.Empty(t, latest.SuggestedInvestments)

	byYear, err := store.GetLatestTaxCalculation(ctx, "2023-24")
	require.NoError(t, err)
	assert.Equal(t, older.ID, byYear.ID)

	_, err = store.GetLatestTaxCalculation(ctx, "2019-20")
	assert.ErrorIs(t, err, common.ErrNotFound)

	all, err := store.ListTaxCalculations(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)

	limited, err := store.ListTaxCalculations(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSaveTaxCalculationValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveTaxCalculation(ctx, nil), ErrNilParameter)

	calc := sampleCalculation("", time.Now())
	assert.ErrorIs(t, store.SaveTaxCalculation(ctx, calc), ErrInvalidCalculation)

	calc = sampleCalculation("2024-25", time.Now())
	calc.RecommendedRegime = "both"
	assert.ErrorIs(t, store.SaveTaxCalculation(ctx, calc), ErrInvalidCalculation)

	calc = sampleCalculation("2024-25", time.Now())
	calc.NewRegimeTax = -1
	assert.ErrorIs(t, store.SaveTaxCalculation(ctx, calc), ErrInvalidCalculation)
}

func TestListTransactionsNilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // nil context is the case under test
	_, err := store.ListTransactions(nil, TransactionFilter{})
	assert.ErrorIs(t, err, ErrNilContext)
}
