package ecosim_test

import (
	"os"
	"path/filepath"
	"testing"

	economyv2 "git.fiblab.net/sim/protos/v2/go/city/economy/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/ecosim"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
	"google.golang.org/protobuf/proto"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDefaultTable(t *testing.T) {
	table := ecosim.DefaultTable()
	assert.Equal(t, len(ecosim.DefaultBracketCutoffs), table.Len())

	// 808.33*0.10 + 191.67*0.12 = 103.8334
	tax, err := table.Compute(d("1000"))
	require.NoError(t, err)
	assert.True(t, tax.Equal(d("103.83")), "got %s", tax)

	tax, err = table.Compute(d("500"))
	require.NoError(t, err)
	assert.True(t, tax.Equal(d("50")), "got %s", tax)
}

func TestCollectTaxes(t *testing.T) {
	incomes := []decimal.Decimal{d("1000"), d("500"), d("0")}

	c, err := ecosim.CollectTaxes(ecosim.DefaultTable(), incomes, true)
	require.NoError(t, err)
	assert.True(t, c.TotalTax.Equal(d("153.83")), "got %s", c.TotalTax)
	assert.True(t, c.LumpSum.Equal(d("51.28")), "got %s", c.LumpSum)
	assert.True(t, c.Government.IsZero())
	assert.True(t, c.NetIncomes[0].Equal(d("896.17")))
	assert.True(t, c.NetIncomes[2].IsZero())

	c, err = ecosim.CollectTaxes(ecosim.DefaultTable(), incomes, false)
	require.NoError(t, err)
	assert.True(t, c.Government.Equal(d("153.83")))
	assert.True(t, c.LumpSum.IsZero())

	c, err = ecosim.CollectTaxes(ecosim.DefaultTable(), nil, true)
	require.NoError(t, err)
	assert.True(t, c.TotalTax.IsZero())

	_, err = ecosim.CollectTaxes(ecosim.DefaultTable(), []decimal.Decimal{d("-1")}, false)
	assert.ErrorIs(t, err, bracket.ErrInvalidInput)
}

func TestTableFromGovernment(t *testing.T) {
	table, err := ecosim.TableFromGovernment(&economyv2.Government{
		Id:             1,
		BracketCutoffs: []float32{0, 1000},
		BracketRates:   []float32{0.1, 0.2},
	})
	require.NoError(t, err)
	tax, err := table.Compute(d("1500"))
	require.NoError(t, err)
	assert.True(t, tax.Equal(d("200")), "got %s", tax)

	table, err = ecosim.TableFromGovernment(&economyv2.Government{Id: 2})
	require.NoError(t, err)
	assert.Equal(t, ecosim.DefaultTable().Brackets(), table.Brackets())

	_, err = ecosim.TableFromGovernment(&economyv2.Government{
		BracketCutoffs: []float32{0, 1000},
		BracketRates:   []float32{0.1},
	})
	assert.ErrorIs(t, err, bracket.ErrInvalidConfiguration)
}

func TestLoadGovernmentAsJurisdiction(t *testing.T) {
	data, err := proto.Marshal(&economyv2.Government{
		Id:             7,
		BracketCutoffs: []float32{0, 1000},
		BracketRates:   []float32{0.1, 0.2},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "gov.pb")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	gov, err := ecosim.LoadGovernment(path)
	require.NoError(t, err)
	assert.Equal(t, int32(7), gov.GetId())

	spec, err := ecosim.JurisdictionSpec(gov, config.EconomyInput{Code: "ECO", Currency: "SIM"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), spec.PeriodsPerYear)

	s, err := jurisdiction.FromSpec(spec)
	require.NoError(t, err)
	tax, err := s.IncomeTaxes[0].Amount(d("1500"), s.PeriodsPerYear)
	require.NoError(t, err)
	assert.True(t, tax.Equal(d("200")), "got %s", tax)

	_, err = ecosim.LoadGovernment(filepath.Join(t.TempDir(), "missing.pb"))
	assert.Error(t, err)
}
