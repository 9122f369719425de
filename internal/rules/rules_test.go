package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Debit[0].Keywords[0] = "changed"

	b := Default()
	assert.Equal(t, "rent", b.Debit[0].Keywords[0])
}

func TestParseOverridesOnlyGivenTables(t *testing.T) {
	rs, err := Parse([]byte(`
credit:
  - category: salary
    keywords: ["  SALARY ", "Stipend"]
`))
	require.NoError(t, err)

	require.Len(t, rs.Credit, 1)
	assert.Equal(t, []string{"salary", "stipend"}, rs.Credit[0].Keywords)
	assert.Equal(t, Default().Debit, rs.Debit)
	assert.Equal(t, Default().Aggregation, rs.Aggregation)
}

func TestParseNormalizesSections(t *testing.T) {
	rs, err := Parse([]byte(`
aggregation:
  - section: 80c
    keywords: [ppf]
`))
	require.NoError(t, err)
	assert.Equal(t, model.Section80C, rs.Aggregation[0].Section)
}

func TestParseRejectsBadRules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "expense category on credit side", yaml: "credit:\n  - category: rent\n    keywords: [x]\n"},
		{name: "income category on debit side", yaml: "debit:\n  - category: salary\n    keywords: [x]\n"},
		{name: "unknown category", yaml: "debit:\n  - category: yachts\n    keywords: [x]\n"},
		{name: "empty keywords", yaml: "debit:\n  - category: rent\n    keywords: []\n"},
		{name: "unknown section", yaml: "sections:\n  - section: 99Z\n    keywords: [x]\n"},
		{name: "none section", yaml: "aggregation:\n  - section: none\n    keywords: [x]\n"},
		{name: "malformed yaml", yaml: "credit: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	rs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSectionRulesMatchFirstWins(t *testing.T) {
	table := Default().Aggregation

	tests := []struct {
		desc string
		want model.Section
		ok   bool
	}{
		{desc: "lic premium payment", want: model.Section80C, ok: true},
		{desc: "hdfc home loan principal repayment", want: model.Section80C, ok: true},
		{desc: "health insurance payment - family", want: model.Section80D, ok: true},
		{desc: "hdfc home loan interest payment", want: model.Section24B, ok: true},
		{desc: "monthly rent payment", want: model.SectionNone, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := table.Match(tt.desc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchCategory(t *testing.T) {
	got, ok := MatchCategory(Default().Debit, "swiggy food order")
	assert.True(t, ok)
	assert.Equal(t, model.CategoryFood, got)

	_, ok = MatchCategory(Default().Debit, "atm withdrawal")
	assert.False(t, ok)
}
