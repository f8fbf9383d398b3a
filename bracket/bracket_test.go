package bracket_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func b(lower, rate string) bracket.Bracket {
	return bracket.Bracket{LowerBound: d(lower), Rate: d(rate)}
}

var usFederal = []bracket.Bracket{
	b("0", "0.10"),
	b("9950", "0.12"),
	b("40525", "0.22"),
	b("86375", "0.24"),
}

func TestTwoBracketScenario(t *testing.T) {
	owed, err := bracket.ComputeProgressiveAmount(d("1500"), []bracket.Bracket{b("0", "0.10"), b("1000", "0.20")})
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("200.00")), "got %s", owed)
}

func TestFlatBracketAndCap(t *testing.T) {
	owed, err := bracket.ComputeProgressiveAmount(d("1800"), []bracket.Bracket{b("0", "0.12")})
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("216.00")), "got %s", owed)

	capped, err := bracket.ComputeCappedRateAmount(d("1800"), bracket.NewCappedRate(d("0.12"), d("150")))
	require.NoError(t, err)
	assert.True(t, capped.Equal(d("150.00")), "got %s", capped)

	uncapped, err := bracket.ComputeCappedRateAmount(d("1800"), bracket.FlatRate(d("0.12")))
	require.NoError(t, err)
	assert.True(t, uncapped.Equal(d("216.00")), "got %s", uncapped)
}

func TestZeroBase(t *testing.T) {
	for _, brackets := range [][]bracket.Bracket{
		usFederal,
		{b("0", "0.5")},
		{b("0", "0"), b("100", "0.3")},
	} {
		owed, err := bracket.ComputeProgressiveAmount(decimal.Zero, brackets)
		require.NoError(t, err)
		assert.True(t, owed.IsZero())
	}
}

func TestFlatTaxEquivalence(t *testing.T) {
	for _, rate := range []string{"0", "0.12", "0.5", "0.0145", "1"} {
		for _, x := range []string{"0", "0.01", "0.05", "1", "123.45", "1800", "99999.99", "1234567.891"} {
			owed, err := bracket.ComputeProgressiveAmount(d(x), []bracket.Bracket{b("0", rate)})
			require.NoError(t, err)
			want := d(x).Mul(d(rate)).Round(2)
			assert.True(t, owed.Equal(want), "x=%s rate=%s got %s want %s", x, rate, owed, want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	// 0.05*0.5=0.025，银行家舍入得0.02
	owed, err := bracket.ComputeProgressiveAmount(d("0.05"), []bracket.Bracket{b("0", "0.5")})
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("0.03")), "got %s", owed)

	assert.True(t, bracket.Round(d("2.345")).Equal(d("2.35")))
	assert.True(t, bracket.Round(d("2.344999")).Equal(d("2.34")))
}

func TestRoundOnlyOnce(t *testing.T) {
	// 每档0.105，逐档舍入会得到0.22
	owed, err := bracket.ComputeProgressiveAmount(d("2"), []bracket.Bracket{b("0", "0.105"), b("1", "0.105")})
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("0.21")), "got %s", owed)
}

func TestZeroRateBand(t *testing.T) {
	uk := []bracket.Bracket{b("0", "0"), b("12570", "0.20"), b("50270", "0.40"), b("150000", "0.45")}
	owed, err := bracket.ComputeProgressiveAmount(d("12570"), uk)
	require.NoError(t, err)
	assert.True(t, owed.IsZero())

	owed, err = bracket.ComputeProgressiveAmount(d("60000"), uk)
	require.NoError(t, err)
	// 37700*0.2 + 9730*0.4
	assert.True(t, owed.Equal(d("11432.00")), "got %s", owed)
}

func TestMonotonic(t *testing.T) {
	prev := decimal.Zero
	step := d("7.5")
	for x := decimal.Zero; x.LessThan(d("120000")); x = x.Add(step.Mul(d("13"))) {
		owed, err := bracket.ComputeProgressiveAmount(x, usFederal)
		require.NoError(t, err)
		assert.True(t, owed.GreaterThanOrEqual(prev), "x=%s owed=%s prev=%s", x, owed, prev)
		prev = owed
	}
}

func TestContinuousAtBoundaries(t *testing.T) {
	eps := d("0.01")
	for _, br := range usFederal[1:] {
		below, err := bracket.ComputeProgressiveAmount(br.LowerBound.Sub(eps), usFederal)
		require.NoError(t, err)
		at, err := bracket.ComputeProgressiveAmount(br.LowerBound, usFederal)
		require.NoError(t, err)
		above, err := bracket.ComputeProgressiveAmount(br.LowerBound.Add(eps), usFederal)
		require.NoError(t, err)
		assert.True(t, above.Sub(below).LessThanOrEqual(d("0.02")), "jump at %s: %s -> %s", br.LowerBound, below, above)
		assert.True(t, at.GreaterThanOrEqual(below))
		assert.True(t, above.GreaterThanOrEqual(at))
	}
}

func TestCapNeverExceeded(t *testing.T) {
	cr := bracket.NewCappedRate(d("0.062"), d("9932.40"))
	for _, x := range []string{"0", "1", "1000", "160200", "160201", "1000000", "99999999"} {
		owed, err := bracket.ComputeCappedRateAmount(d(x), cr)
		require.NoError(t, err)
		assert.True(t, owed.LessThanOrEqual(d("9932.40")), "x=%s owed=%s", x, owed)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	cases := map[string][]bracket.Bracket{
		"unsorted":       {b("100", "0.1"), b("0", "0.2")},
		"empty":          nil,
		"first not zero": {b("10", "0.1")},
		"duplicate":      {b("0", "0.1"), b("500", "0.2"), b("500", "0.3")},
		"negative rate":  {b("0", "-0.1")},
		"rate above one": {b("0", "0.1"), b("10", "1.5")},
	}
	for name, brackets := range cases {
		_, err := bracket.ComputeProgressiveAmount(d("50"), brackets)
		assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration, name)
		var calcErr *bracket.CalcError
		assert.True(t, errors.As(err, &calcErr), name)
	}

	_, err := bracket.ComputeCappedRateAmount(d("50"), bracket.FlatRate(d("1.01")))
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)
	_, err = bracket.ComputeCappedRateAmount(d("50"), bracket.NewCappedRate(d("0.1"), d("-1")))
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)

	_, err = bracket.Table{}.Compute(d("1"))
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)

	_, err = bracket.FromCutoffs([]decimal.Decimal{d("0"), d("1")}, []decimal.Decimal{d("0.1")})
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)
}

func TestNegativeInput(t *testing.T) {
	_, err := bracket.ComputeProgressiveAmount(d("-5"), usFederal)
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)
	assert.NotErrorIs(t, err, bracket.ErrInvalidConfiguration)

	_, err = bracket.ComputeCappedRateAmount(d("-5"), bracket.FlatRate(d("0.1")))
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)

	_, err = bracket.ComputePeriodProgressiveAmount(d("-5"), 12, usFederal)
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)
}

func TestPeriodConversion(t *testing.T) {
	monthly, err := bracket.ComputePeriodProgressiveAmount(d("8000"), 12, usFederal)
	require.NoError(t, err)
	// 年化96000：995 + 3669 + 10087 + 2310 = 17061，再除以12
	assert.True(t, monthly.Equal(d("1421.75")), "got %s", monthly)

	// 直接对月度金额套年度税率表会低估
	naive, err := bracket.ComputeProgressiveAmount(d("8000"), usFederal)
	require.NoError(t, err)
	assert.True(t, naive.LessThan(monthly))

	table := bracket.MustTable(usFederal...)
	viaTable, err := table.ComputePeriodProgressive(d("8000"), 12)
	require.NoError(t, err)
	assert.True(t, viaTable.Equal(monthly))

	ss, err := bracket.ComputePeriodCappedRateAmount(d("15000"), 12, bracket.NewCappedRate(d("0.062"), d("9932.40")))
	require.NoError(t, err)
	assert.True(t, ss.Equal(d("827.70")), "got %s", ss)

	_, err = bracket.ComputePeriodProgressiveAmount(d("8000"), 0, usFederal)
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)
}

func TestTableIsImmutable(t *testing.T) {
	src := []bracket.Bracket{b("0", "0.10"), b("1000", "0.20")}
	table, err := bracket.NewTable(src...)
	require.NoError(t, err)
	src[1].Rate = d("0.90")

	got := table.Brackets()
	got[0].Rate = d("0.99")

	owed, err := table.Compute(d("1500"))
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("200")))
	assert.Equal(t, 2, table.Len())
}

func TestConcurrentCompute(t *testing.T) {
	table := bracket.MustTable(usFederal...)
	var wg sync.WaitGroup
	results := make([]decimal.Decimal, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = table.Compute(d("96000"))
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.True(t, r.Equal(d("17061")))
	}
}
