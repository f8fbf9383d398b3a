package bom_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, actual.Equal(d(expected)), "expected %s, got %s", expected, actual)
}

func widget() *bom.BOM {
	return &bom.BOM{
		ProductName:  "Advanced Widget Pro",
		Version:      "2.1",
		AnnualVolume: 5000,
		Components: []bom.Component{
			{PartNumber: "COMP-001", Description: "Main Housing", Quantity: d("1"), UnitCost: d("45.50"), Weight: d("2.1"), Supplier: "MetalWorks Inc", LeadTimeDays: 45},
			{PartNumber: "COMP-002", Description: "Control Circuit Board", Quantity: d("1"), UnitCost: d("67.80"), Weight: d("0.3"), Supplier: "ElectroTech Ltd", LeadTimeDays: 21},
			{PartNumber: "COMP-003", Description: "Mounting Screws", Quantity: d("8"), UnitCost: d("0.12"), Weight: d("0.01"), Supplier: "FastenerCorp", LeadTimeDays: 7},
		},
	}
}

func TestAnalyze(t *testing.T) {
	a := bom.Analyze(widget())
	assert.Equal(t, 3, a.TotalComponents)
	assertAmount(t, "114.26", a.TotalCost)
	assertAmount(t, "2.48", a.TotalWeight)
	assertAmount(t, "0.96", a.Components[2].TotalCost)
	assertAmount(t, "39.82", a.Components[0].CostShare)
	assertAmount(t, "59.34", a.Components[1].CostShare)
	assertAmount(t, "0.84", a.Components[2].CostShare)

	require.Len(t, a.TopCost, 3)
	assert.Equal(t, "COMP-002", a.TopCost[0].PartNumber)
	assert.Equal(t, "COMP-001", a.TopCost[1].PartNumber)
	assert.Equal(t, "COMP-003", a.TopCost[2].PartNumber)
}

func TestRunReport(t *testing.T) {
	r, err := bom.NewOptimizer(bom.DefaultPolicy()).Run(context.Background(), widget())
	require.NoError(t, err)
	assert.Equal(t, "2.1", r.Version)

	o := r.Optimizations
	require.Len(t, o.Cost, 2)
	assertAmount(t, "5.46", o.Cost[0].PotentialSavings)
	assertAmount(t, "8.14", o.Cost[1].PotentialSavings)
	require.Len(t, o.Supplier, 1)
	assert.Equal(t, "COMP-001", o.Supplier[0].PartNumber)
	assertAmount(t, "2.28", o.Supplier[0].CostImpact)
	assert.Empty(t, o.Design)
	assert.Len(t, o.Sustainability, 2)
	assert.Equal(t, []string{"Negotiate pricing for COMP-001", "Negotiate pricing for COMP-002"}, o.ByPriority(bom.PriorityHigh))
	assert.Equal(t, []string{"Backup supplier for COMP-001"}, o.ByPriority(bom.PriorityMedium))

	// 单位节省 5.46 + 8.136 = 13.596，舍入一次
	s := r.Savings
	assertAmount(t, "13.60", s.UnitCostReduction)
	assert.Equal(t, int64(5000), s.AnnualVolume)
	assertAmount(t, "67980", s.TotalAnnualSavings)
	assertAmount(t, "67980", s.CostNegotiations)
	assertAmount(t, "0", s.DesignOptimizations)
	assertAmount(t, "3399", s.SupplierOptimizations)

	assert.Equal(t, o.ByPriority(bom.PriorityHigh), r.Recommendations.PriorityChanges)
	assertAmount(t, "67980", r.Recommendations.ExpectedSavings)
	assert.Equal(t, "Medium", r.Risks.OverallRating)
	assert.Len(t, r.Risks.Factors, 3)
}

func TestDesignConsolidation(t *testing.T) {
	b := &bom.BOM{
		ProductName: "Bracket",
		Components: []bom.Component{
			{PartNumber: "P1", Quantity: d("4"), UnitCost: d("10")},
			{PartNumber: "P2", Quantity: d("20"), UnitCost: d("3")},
		},
	}
	r, err := bom.NewOptimizer(bom.DefaultPolicy()).Run(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "1.0", r.Version)
	assert.Equal(t, int64(1000), r.Savings.AnnualVolume)

	require.Len(t, r.Optimizations.Design, 2)
	// max(1, floor(4×0.1)) = 1
	assert.Equal(t, int64(1), r.Optimizations.Design[0].PotentialReduction)
	assertAmount(t, "10", r.Optimizations.Design[0].Savings)
	// max(1, floor(20×0.1)) = 2
	assert.Equal(t, int64(2), r.Optimizations.Design[1].PotentialReduction)
	assertAmount(t, "6", r.Optimizations.Design[1].Savings)
	assert.Equal(t, []string{"Design review for P1", "Design review for P2"}, r.Optimizations.ByPriority(bom.PriorityLow))
}

func TestPolicyFromConfig(t *testing.T) {
	p := bom.PolicyFromConfig(config.BOM{LongLeadTimeDays: 14, DefaultAnnualVolume: 200})
	assert.Equal(t, int32(14), p.LongLeadTimeDays)
	assert.Equal(t, int64(200), p.DefaultAnnualVolume)
	assertAmount(t, "0.12", p.NegotiationSavings)

	a := bom.Analyze(widget())
	o := bom.Optimize(a, p)
	// 交期21天的COMP-002也超过14天
	assert.Len(t, o.Supplier, 2)
}

func TestInvalidBOM(t *testing.T) {
	opt := bom.NewOptimizer(bom.DefaultPolicy())
	ctx := context.Background()

	_, err := opt.Run(ctx, nil)
	assert.ErrorIs(t, err, bom.ErrInvalidBOM)

	b := widget()
	b.ProductName = ""
	_, err = opt.Run(ctx, b)
	assert.ErrorIs(t, err, bom.ErrInvalidBOM)

	b = widget()
	b.Components = nil
	_, err = opt.Run(ctx, b)
	assert.ErrorIs(t, err, bom.ErrInvalidBOM)

	b = widget()
	b.Components[1].Quantity = d("0")
	_, err = opt.Run(ctx, b)
	assert.ErrorIs(t, err, bom.ErrInvalidBOM)
	assert.Contains(t, err.Error(), "quantity")

	b = widget()
	b.Components[0].PartNumber = ""
	_, err = opt.Run(ctx, b)
	assert.ErrorIs(t, err, bom.ErrInvalidBOM)
}
