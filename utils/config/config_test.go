package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

const sample = `
control:
  default_region: UK
payroll:
  standard_hours: 168
jurisdictions:
  - code: XX
    currency: XXX
    periods_per_year: 12
    income_taxes:
      - name: income_tax
        category: income_tax
        brackets:
          - {lower_bound: 0, rate: 0}
          - {lower_bound: 1000, rate: 0.1}
    contributions:
      - name: pension
        rate: 0.05
        cap: 100
        eligible_annual_min: 10000
`

func TestParse(t *testing.T) {
	c, err := config.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "UK", c.Control.DefaultRegion)
	assert.Equal(t, 168.0, c.Payroll.StandardHours)
	require.Len(t, c.Jurisdictions, 1)
	j := c.Jurisdictions[0]
	assert.Equal(t, "XX", j.Code)
	require.Len(t, j.IncomeTaxes[0].Brackets, 2)
	assert.Equal(t, 0.1, j.IncomeTaxes[0].Brackets[1].Rate)
	require.NotNil(t, j.Contributions[0].Cap)
	assert.Equal(t, 100.0, *j.Contributions[0].Cap)
	assert.Nil(t, j.Contributions[0].EligibleAnnualMax)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := config.Parse([]byte("control:\n  default_regoin: US\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(sample))
	c, err := config.Load("", encoded)
	require.NoError(t, err)
	assert.Equal(t, "UK", c.Control.DefaultRegion)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("control:\n  default_currency: EUR\n"), 0o644))
	c, err = config.Load(path, encoded)
	require.NoError(t, err)
	assert.Equal(t, "EUR", c.Control.DefaultCurrency)

	_, err = config.Load("", "")
	assert.Error(t, err)
	_, err = config.Load("", "!!not-base64")
	assert.Error(t, err)
}

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})
	assert.Equal(t, "US", rc.C.DefaultRegion)

	rc = config.NewRuntimeConfig(config.Config{Control: config.Control{DefaultRegion: "IN"}})
	assert.Equal(t, "IN", rc.C.DefaultRegion)
	assert.Equal(t, "IN", rc.All.Control.DefaultRegion)
}
