package task_test

import (
	"testing"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/task"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

func TestNewContext(t *testing.T) {
	c := config.Config{
		Control: config.Control{DefaultRegion: "UK"},
		Payroll: config.Payroll{StandardHours: 168},
	}
	sidecar := syncer.NewSidecar(task.SelfName, ":0", "")
	ctx := task.NewContext("job-test", ":0", c, sidecar, false)

	require.NotNil(t, ctx.Server())
	assert.Equal(t, "UK", ctx.Registry().Default())
	assert.Equal(t, []string{"IN", "UK", "US"}, ctx.Registry().Codes())
	assert.Equal(t, "UK", ctx.RuntimeConfig().C.DefaultRegion)
	assert.Len(t, ctx.GetInput().Jurisdictions, 3)
}
