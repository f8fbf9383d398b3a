package jurisdiction_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaults(t *testing.T) *jurisdiction.Registry {
	t.Helper()
	r, err := jurisdiction.NewRegistryFromSpecs(jurisdiction.DefaultSpecs(), "US")
	require.NoError(t, err)
	return r
}

func findTerm(terms []jurisdiction.ContributionTerm, name string) jurisdiction.ContributionTerm {
	term, _ := lo.Find(terms, func(c jurisdiction.ContributionTerm) bool { return c.Name == name })
	return term
}

func TestDefaultRegistry(t *testing.T) {
	r := defaults(t)
	assert.Equal(t, []string{"IN", "UK", "US"}, r.Codes())
	assert.Equal(t, "US", r.Default())

	s, err := r.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "US", s.Code)
	assert.Equal(t, "USD", s.Currency)
	assert.Equal(t, int64(12), s.PeriodsPerYear)

	_, err = r.Lookup("FR")
	assert.ErrorIs(t, err, jurisdiction.ErrUnknownJurisdiction)
}

func TestIncomeTaxUsesAnnualisedTable(t *testing.T) {
	s, err := defaults(t).Lookup("US")
	require.NoError(t, err)
	owed, err := s.IncomeTaxes[0].Amount(d("8000"), s.PeriodsPerYear)
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("1421.75")), "got %s", owed)
}

func TestContributionTerms(t *testing.T) {
	r := defaults(t)

	us, _ := r.Lookup("US")
	ss := findTerm(us.Contributions, "social_security")
	owed, err := ss.Amount(d("15000"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("827.70")), "got %s", owed)
	owed, err = ss.Amount(d("5000"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("310")), "got %s", owed)

	in, _ := r.Lookup("IN")
	esi := findTerm(in.Contributions, "esi")
	owed, err = esi.Amount(d("20000"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("150")), "got %s", owed)
	owed, err = esi.Amount(d("25000"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.IsZero())

	pf := findTerm(in.Contributions, "provident_fund")
	owed, err = pf.Amount(d("100000"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("1800")), "got %s", owed)

	uk, _ := r.Lookup("UK")
	levy := findTerm(uk.EmployerContributions, "apprenticeship_levy")
	owed, err = levy.Amount(d("10000"), 12, d("3000000"))
	require.NoError(t, err)
	assert.True(t, owed.IsZero())
	owed, err = levy.Amount(d("10000"), 12, d("3000001"))
	require.NoError(t, err)
	assert.True(t, owed.Equal(d("50")), "got %s", owed)

	pension := findTerm(uk.Contributions, "pension_contribution")
	owed, err = pension.Amount(d("800"), 12, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, owed.IsZero())
}

func TestFromSpecRejectsBadConfiguration(t *testing.T) {
	cases := map[string]config.Jurisdiction{
		"no code": {},
		"unsorted brackets": {Code: "XX", IncomeTaxes: []config.ProgressiveSpec{{
			Name:     "income_tax",
			Brackets: []config.BracketSpec{{LowerBound: 100, Rate: 0.1}, {LowerBound: 0, Rate: 0.2}},
		}}},
		"rate above one": {Code: "XX", Contributions: []config.ContributionSpec{{Name: "x", Rate: 1.2}}},
		"negative cap":   {Code: "XX", Contributions: []config.ContributionSpec{{Name: "x", Rate: 0.1, Cap: lo.ToPtr(-1.0)}}},
		"unknown basis":  {Code: "XX", Contributions: []config.ContributionSpec{{Name: "x", Rate: 0.1, Basis: "weekly"}}},
		"negative flat":  {Code: "XX", FlatDeductions: []config.FlatSpec{{Name: "x", Amount: -1}}},
	}
	for name, spec := range cases {
		_, err := jurisdiction.FromSpec(spec)
		assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration, name)
	}
}

func TestRegistryConstruction(t *testing.T) {
	_, err := jurisdiction.NewRegistryFromSpecs(jurisdiction.DefaultSpecs(), "FR")
	assert.ErrorIs(t, err, jurisdiction.ErrUnknownJurisdiction)

	us, err := jurisdiction.FromSpec(config.Jurisdiction{Code: "US"})
	require.NoError(t, err)
	_, err = jurisdiction.NewRegistry([]*jurisdiction.Schedule{us, us}, "US")
	assert.Error(t, err)

	specs := append(jurisdiction.DefaultSpecs(), config.Jurisdiction{Code: "US", Currency: "USN"})
	r, err := jurisdiction.NewRegistryFromSpecs(specs, "US")
	require.NoError(t, err)
	s, _ := r.Lookup("US")
	assert.Equal(t, "USN", s.Currency)
	assert.Len(t, r.Codes(), 3)
}
