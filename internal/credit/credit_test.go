package credit

import (
	"math"
	"testing"

	"github.com/Veraticus/taxwise/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want int
	}{
		{
			name: "worked example",
			in:   Inputs{TotalCreditLimit: 500000, OutstandingDebt: 200000, LatePayments24m: 0, OldestAccountYears: 5},
			want: 710,
		},
		{
			name: "low utilization and long history",
			in:   Inputs{TotalCreditLimit: 500000, OutstandingDebt: 10000, OldestAccountYears: 10},
			want: 820,
		},
		{
			name: "zero limit counts as fully used",
			in:   Inputs{TotalCreditLimit: 0, OutstandingDebt: 0, OldestAccountYears: 5},
			want: 630,
		},
		{
			name: "utilization boundary 0.5",
			in:   Inputs{TotalCreditLimit: 100, OutstandingDebt: 50, OldestAccountYears: 5},
			want: 670,
		},
		{
			name: "utilization just under 0.1 gets bonus",
			in:   Inputs{TotalCreditLimit: 1000, OutstandingDebt: 99, OldestAccountYears: 5},
			want: 780,
		},
		{
			name: "utilization 0.1 is neutral",
			in:   Inputs{TotalCreditLimit: 1000, OutstandingDebt: 100, OldestAccountYears: 5},
			want: 750,
		},
		{
			name: "clamped at floor",
			in:   Inputs{TotalCreditLimit: 1000, OutstandingDebt: 1000, LatePayments24m: 12, OldestAccountYears: 1},
			want: MinScore,
		},
		{
			name: "young account",
			in:   Inputs{TotalCreditLimit: 1000, OutstandingDebt: 200, OldestAccountYears: 2.9},
			want: 720,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	for limit := 0.0; limit <= 1000; limit += 250 {
		for debt := 0.0; debt <= 1500; debt += 150 {
			for late := 0; late <= 10; late += 2 {
				for age := 0.0; age <= 12; age += 3 {
					s := Score(Inputs{TotalCreditLimit: limit, OutstandingDebt: debt, LatePayments24m: late, OldestAccountYears: age})
					assert.GreaterOrEqual(t, s, MinScore)
					assert.LessOrEqual(t, s, MaxScore)
				}
			}
		}
	}
}

func TestBand(t *testing.T) {
	assert.Equal(t, "Excellent", Band(750))
	assert.Equal(t, "Good", Band(749))
	assert.Equal(t, "Good", Band(680))
	assert.Equal(t, "Fair", Band(600))
	assert.Equal(t, "Poor", Band(599))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
	}{
		{name: "negative limit", in: Inputs{TotalCreditLimit: -1}},
		{name: "negative debt", in: Inputs{OutstandingDebt: -1}},
		{name: "negative late payments", in: Inputs{LatePayments24m: -1}},
		{name: "negative age", in: Inputs{OldestAccountYears: -0.5}},
		{name: "nan debt", in: Inputs{OutstandingDebt: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.in.Validate(), common.ErrInvalidInput)
		})
	}

	assert.NoError(t, Inputs{}.Validate())
}

func TestAdvise(t *testing.T) {
	t.Run("late payments and high utilization", func(t *testing.T) {
		items := Advise(Inputs{TotalCreditLimit: 100000, OutstandingDebt: 60000, LatePayments24m: 2, OldestAccountYears: 5})
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Priority)
		assert.Equal(t, "Critical: Clear Payment History", items[0].Title)
		assert.Contains(t, items[0].Text, "2 late payment")
		assert.Equal(t, 2, items[1].Priority)
		assert.Contains(t, items[1].Text, "60%")
	})

	t.Run("clean profile praises history", func(t *testing.T) {
		items := Advise(Inputs{TotalCreditLimit: 100000, OutstandingDebt: 1000, OldestAccountYears: 9})
		require.Len(t, items, 1)
		assert.Equal(t, 4, items[0].Priority)
		assert.Equal(t, "Excellent Payment History", items[0].Title)
	})

	t.Run("moderate utilization and young history", func(t *testing.T) {
		items := Advise(Inputs{TotalCreditLimit: 100000, OutstandingDebt: 35000, OldestAccountYears: 1})
		require.Len(t, items, 3)
		assert.Equal(t, []int{3, 4, 5}, []int{items[0].Priority, items[1].Priority, items[2].Priority})
		assert.Equal(t, "Improve Utilization", items[0].Title)
		assert.Equal(t, "Build Credit History", items[2].Title)
	})

	t.Run("always sorted and non-empty", func(t *testing.T) {
		for late := 0; late < 3; late++ {
			for debt := 0.0; debt <= 100; debt += 20 {
				items := Advise(Inputs{TotalCreditLimit: 100, OutstandingDebt: debt, LatePayments24m: late, OldestAccountYears: 2})
				require.NotEmpty(t, items)
				for i := 1; i < len(items); i++ {
					assert.LessOrEqual(t, items[i-1].Priority, items[i].Priority)
				}
			}
		}
	})
}

func TestAssess(t *testing.T) {
	a, err := Assess(Inputs{TotalCreditLimit: 500000, OutstandingDebt: 200000, OldestAccountYears: 5})
	require.NoError(t, err)
	assert.Equal(t, 710, a.Score)
	assert.Equal(t, "Good", a.Band)
	assert.InDelta(t, 40, a.Utilization, 0.001)
	assert.NotEmpty(t, a.Advice)

	_, err = Assess(Inputs{OutstandingDebt: -1})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSimulate(t *testing.T) {
	base := Inputs{TotalCreditLimit: 500000, OutstandingDebt: 200000, OldestAccountYears: 5}

	t.Run("payoff", func(t *testing.T) {
		delta, err := Simulate(base, Scenario{Type: ScenarioPayoff, Amount: 160000})
		require.NoError(t, err)
		assert.Equal(t, 710, delta.Baseline)
		// 40000 / 500000 = 0.08 utilization
		assert.Equal(t, 780, delta.Projected)
		assert.Equal(t, 70, delta.Improvement)
		assert.InDelta(t, 40000, delta.Projection.OutstandingDebt, 0.001)
		assert.InDelta(t, 200000, base.OutstandingDebt, 0.001)
	})

	t.Run("payoff beyond debt floors at zero", func(t *testing.T) {
		delta, err := Simulate(base, Scenario{Type: ScenarioPayoff, Amount: 1e9})
		require.NoError(t, err)
		assert.Zero(t, delta.Projection.OutstandingDebt)
	})

	t.Run("limit increase", func(t *testing.T) {
		delta, err := Simulate(base, Scenario{Type: ScenarioLimitIncrease, Amount: 500000})
		require.NoError(t, err)
		// 200000 / 1000000 = 0.2 utilization
		assert.Equal(t, 750, delta.Projected)
		assert.Equal(t, 40, delta.Improvement)
		assert.InDelta(t, 1000000, delta.Projection.TotalCreditLimit, 0.001)
	})

	t.Run("zero amount is neutral", func(t *testing.T) {
		for _, typ := range []ScenarioType{ScenarioPayoff, ScenarioLimitIncrease} {
			delta, err := Simulate(base, Scenario{Type: typ})
			require.NoError(t, err)
			assert.Zero(t, delta.Improvement)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := Simulate(base, Scenario{Type: ScenarioPayoff, Amount: -1})
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = Simulate(base, Scenario{Type: "refinance", Amount: 1})
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = Simulate(Inputs{TotalCreditLimit: -1}, Scenario{Type: ScenarioPayoff, Amount: 1})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestSimulateIsMonotone(t *testing.T) {
	profiles := []Inputs{
		{TotalCreditLimit: 500000, OutstandingDebt: 450000, LatePayments24m: 1, OldestAccountYears: 2},
		{TotalCreditLimit: 0, OutstandingDebt: 10000, OldestAccountYears: 9},
		{TotalCreditLimit: 100000, OutstandingDebt: 0, OldestAccountYears: 4},
	}

	for _, p := range profiles {
		for _, typ := range []ScenarioType{ScenarioPayoff, ScenarioLimitIncrease} {
			for amount := 0.0; amount <= 600000; amount += 50000 {
				delta, err := Simulate(p, Scenario{Type: typ, Amount: amount})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, delta.Projected, delta.Baseline, "%+v %s %.0f", p, typ, amount)
			}
		}
	}
}

func TestParseScenarioType(t *testing.T) {
	got, err := ParseScenarioType(" Payoff ")
	require.NoError(t, err)
	assert.Equal(t, ScenarioPayoff, got)

	got, err = ParseScenarioType("LIMIT_INCREASE")
	require.NoError(t, err)
	assert.Equal(t, ScenarioLimitIncrease, got)

	_, err = ParseScenarioType("balance_transfer")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestScenarioDescribe(t *testing.T) {
	assert.Contains(t, Scenario{Type: ScenarioPayoff, Amount: 50000}.Describe(), "paying off")
	assert.Contains(t, Scenario{Type: ScenarioLimitIncrease, Amount: 50000}.Describe(), "credit limit increase")
}
