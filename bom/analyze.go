package bom

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
)

const topCostComponents = 5

var hundred = decimal.NewFromInt(100)

// ComponentCost 单个物料的成本分析
type ComponentCost struct {
	PartNumber   string          `json:"part_number"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Weight       decimal.Decimal `json:"weight"`
	Supplier     string          `json:"supplier"`
	LeadTimeDays int32           `json:"lead_time"`
	CostShare    decimal.Decimal `json:"cost_percentage"` // 成本占比（百分比，2位小数）

	share decimal.Decimal
}

// Analysis 当前物料清单的成本结构
type Analysis struct {
	TotalComponents int             `json:"total_components"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	Components      []ComponentCost `json:"component_breakdown"`
	TopCost         []ComponentCost `json:"top_cost_components"`
}

// Analyze 分析物料清单成本结构
// 功能：计算每个物料的总成本、总重量与成本占比，并给出成本最高的前5个物料
// 参数：b-已校验的物料清单
// 返回：成本分析
// 说明：成本占比基于舍入后的物料成本计算；总成本为0时占比均为0
func Analyze(b *BOM) Analysis {
	a := Analysis{
		TotalComponents: len(b.Components),
		Components:      make([]ComponentCost, 0, len(b.Components)),
	}
	totalCost := decimal.Zero
	totalWeight := decimal.Zero
	for _, c := range b.Components {
		cost := c.UnitCost.Mul(c.Quantity)
		weight := c.Weight.Mul(c.Quantity)
		totalCost = totalCost.Add(cost)
		totalWeight = totalWeight.Add(weight)
		a.Components = append(a.Components, ComponentCost{
			PartNumber:   c.PartNumber,
			Description:  c.Description,
			Quantity:     c.Quantity,
			UnitCost:     c.UnitCost,
			TotalCost:    bracket.Round(cost),
			Weight:       weight,
			Supplier:     lo.CoalesceOrEmpty(c.Supplier, "Unknown"),
			LeadTimeDays: c.LeadTimeDays,
		})
	}
	for i := range a.Components {
		cc := &a.Components[i]
		if totalCost.IsPositive() {
			cc.share = cc.TotalCost.Div(totalCost).Mul(hundred)
		}
		cc.CostShare = bracket.Round(cc.share)
	}
	a.TotalCost = bracket.Round(totalCost)
	a.TotalWeight = bracket.Round(totalWeight)

	a.TopCost = slices.Clone(a.Components)
	slices.SortStableFunc(a.TopCost, func(x, y ComponentCost) int {
		return y.TotalCost.Cmp(x.TotalCost)
	})
	if len(a.TopCost) > topCostComponents {
		a.TopCost = a.TopCost[:topCostComponents]
	}
	return a
}
