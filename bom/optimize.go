package bom

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// Priority 建议优先级
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Policy 优化建议阈值
type Policy struct {
	HighCostShare       decimal.Decimal // 成本占比超过该值（百分比）时建议议价
	NegotiationSavings  decimal.Decimal // 议价预期节省比例
	LongLeadTimeDays    int32           // 交期超过该天数时建议备选供应商
	RiskPremium         decimal.Decimal // 备选供应商风险溢价比例
	DesignReviewShare   decimal.Decimal // 数量大于1且成本占比超过该值（百分比）时建议合并设计
	ConsolidationFactor decimal.Decimal // 合并设计数量缩减比例
	DefaultAnnualVolume int64
}

// DefaultPolicy 默认优化阈值
func DefaultPolicy() Policy {
	return Policy{
		HighCostShare:       decimal.NewFromInt(15),
		NegotiationSavings:  decimal.RequireFromString("0.12"),
		LongLeadTimeDays:    30,
		RiskPremium:         decimal.RequireFromString("0.05"),
		DesignReviewShare:   decimal.NewFromInt(5),
		ConsolidationFactor: decimal.RequireFromString("0.1"),
		DefaultAnnualVolume: 1000,
	}
}

// PolicyFromConfig 由配置生成优化阈值，零值字段取默认值
func PolicyFromConfig(c config.BOM) Policy {
	p := DefaultPolicy()
	if c.HighCostShare != 0 {
		p.HighCostShare = decimal.NewFromFloat(c.HighCostShare)
	}
	if c.NegotiationSavings != 0 {
		p.NegotiationSavings = decimal.NewFromFloat(c.NegotiationSavings)
	}
	if c.LongLeadTimeDays != 0 {
		p.LongLeadTimeDays = c.LongLeadTimeDays
	}
	if c.RiskPremium != 0 {
		p.RiskPremium = decimal.NewFromFloat(c.RiskPremium)
	}
	if c.DesignReviewShare != 0 {
		p.DesignReviewShare = decimal.NewFromFloat(c.DesignReviewShare)
	}
	if c.ConsolidationFactor != 0 {
		p.ConsolidationFactor = decimal.NewFromFloat(c.ConsolidationFactor)
	}
	if c.DefaultAnnualVolume != 0 {
		p.DefaultAnnualVolume = c.DefaultAnnualVolume
	}
	return p
}

// CostOptimization 议价建议
type CostOptimization struct {
	PartNumber       string          `json:"component"`
	CurrentCost      decimal.Decimal `json:"current_cost"`
	Optimization     string          `json:"optimization"`
	PotentialSavings decimal.Decimal `json:"potential_savings"`
	Effort           string          `json:"implementation_effort"`

	savings decimal.Decimal
}

// SupplierOptimization 备选供应商建议
type SupplierOptimization struct {
	PartNumber     string          `json:"component"`
	Issue          string          `json:"issue"`
	Recommendation string          `json:"recommendation"`
	RiskReduction  string          `json:"risk_reduction"`
	CostImpact     decimal.Decimal `json:"cost_impact"`
}

// DesignOptimization 合并设计建议
type DesignOptimization struct {
	PartNumber         string          `json:"component"`
	CurrentQuantity    decimal.Decimal `json:"current_quantity"`
	Optimization       string          `json:"optimization"`
	PotentialReduction int64           `json:"potential_reduction"`
	Savings            decimal.Decimal `json:"savings"`

	savings decimal.Decimal
}

// SustainabilityOptimization 可持续性建议
type SustainabilityOptimization struct {
	Opportunity         string `json:"opportunity"`
	ComponentsAffected  int    `json:"components_affected"`
	EnvironmentalImpact string `json:"environmental_impact"`
	CostImpact          string `json:"cost_impact"`
	Timeline            string `json:"implementation_timeline"`
}

// Action 按优先级归类的待办事项
type Action struct {
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
}

// Optimizations 优化建议
type Optimizations struct {
	Cost           []CostOptimization           `json:"cost_optimizations"`
	Supplier       []SupplierOptimization       `json:"supplier_optimizations"`
	Design         []DesignOptimization         `json:"design_optimizations"`
	Sustainability []SustainabilityOptimization `json:"sustainability_optimizations"`
	Actions        []Action                     `json:"actions"`
}

// ByPriority 指定优先级的待办事项
func (o Optimizations) ByPriority(p Priority) []string {
	return lo.FilterMap(o.Actions, func(a Action, _ int) (string, bool) {
		return a.Description, a.Priority == p
	})
}

var sustainability = []SustainabilityOptimization{
	{
		Opportunity:         "Recycled materials substitution",
		ComponentsAffected:  3,
		EnvironmentalImpact: "Medium reduction in carbon footprint",
		CostImpact:          "Neutral to 5% increase",
		Timeline:            "3-6 months",
	},
	{
		Opportunity:         "Local supplier preference",
		ComponentsAffected:  5,
		EnvironmentalImpact: "Reduced transportation emissions",
		CostImpact:          "2-8% cost variation",
		Timeline:            "2-4 months",
	},
}

// Optimize 生成优化建议
// 功能：逐个物料检查成本占比、交期与数量，给出议价、备选供应商与合并设计建议
// 参数：a-成本分析，policy-阈值
// 返回：优化建议
// 算法说明：
// 1. 成本占比 > HighCostShare：议价，预期节省 = 物料成本 × NegotiationSavings，高优先级
// 2. 交期 > LongLeadTimeDays：备选供应商，成本影响 = 物料成本 × RiskPremium，中优先级
// 3. 数量 > 1 且成本占比 > DesignReviewShare：合并设计，缩减数量 = max(1, floor(数量 × ConsolidationFactor))，
// 节省 = 单价 × 缩减数量，低优先级
func Optimize(a Analysis, policy Policy) Optimizations {
	o := Optimizations{
		Sustainability: append([]SustainabilityOptimization(nil), sustainability...),
	}
	one := decimal.NewFromInt(1)
	for _, c := range a.Components {
		if c.share.GreaterThan(policy.HighCostShare) {
			savings := c.TotalCost.Mul(policy.NegotiationSavings)
			o.Cost = append(o.Cost, CostOptimization{
				PartNumber:       c.PartNumber,
				CurrentCost:      c.TotalCost,
				Optimization:     "Alternative supplier negotiation",
				PotentialSavings: bracket.Round(savings),
				Effort:           "Medium",
				savings:          savings,
			})
			o.Actions = append(o.Actions, Action{PriorityHigh, "Negotiate pricing for " + c.PartNumber})
		}
		if c.LeadTimeDays > policy.LongLeadTimeDays {
			o.Supplier = append(o.Supplier, SupplierOptimization{
				PartNumber:     c.PartNumber,
				Issue:          "Long lead time",
				Recommendation: "Identify backup suppliers",
				RiskReduction:  "High",
				CostImpact:     bracket.Round(c.TotalCost.Mul(policy.RiskPremium)),
			})
			o.Actions = append(o.Actions, Action{PriorityMedium, "Backup supplier for " + c.PartNumber})
		}
		if c.Quantity.GreaterThan(one) && c.share.GreaterThan(policy.DesignReviewShare) {
			reduction := decimal.Max(one, c.Quantity.Mul(policy.ConsolidationFactor).Floor())
			savings := c.UnitCost.Mul(reduction)
			o.Design = append(o.Design, DesignOptimization{
				PartNumber:         c.PartNumber,
				CurrentQuantity:    c.Quantity,
				Optimization:       "Design consolidation opportunity",
				PotentialReduction: reduction.IntPart(),
				Savings:            bracket.Round(savings),
				savings:            savings,
			})
			o.Actions = append(o.Actions, Action{PriorityLow, "Design review for " + c.PartNumber})
		}
	}
	return o
}

// SavingsAnalysis 节省测算
type SavingsAnalysis struct {
	UnitCostReduction     decimal.Decimal `json:"unit_cost_reduction"`
	AnnualVolume          int64           `json:"annual_volume"`
	TotalAnnualSavings    decimal.Decimal `json:"total_annual_savings"`
	CostNegotiations      decimal.Decimal `json:"cost_negotiations"`
	DesignOptimizations   decimal.Decimal `json:"design_optimizations"`
	SupplierOptimizations decimal.Decimal `json:"supplier_optimizations"`
	PaybackPeriod         string          `json:"payback_period"`
	ROIProjection         string          `json:"roi_projection"`
}

// Savings 测算单位与年度节省
// 说明：所有金额在未舍入的单位节省上计算，输出时舍入一次
func Savings(o Optimizations, annualVolume int64, policy Policy) SavingsAnalysis {
	if annualVolume <= 0 {
		annualVolume = policy.DefaultAnnualVolume
	}
	volume := decimal.NewFromInt(annualVolume)
	cost := lo.Reduce(o.Cost, func(acc decimal.Decimal, c CostOptimization, _ int) decimal.Decimal {
		return acc.Add(c.savings)
	}, decimal.Zero)
	design := lo.Reduce(o.Design, func(acc decimal.Decimal, d DesignOptimization, _ int) decimal.Decimal {
		return acc.Add(d.savings)
	}, decimal.Zero)
	unit := cost.Add(design)
	return SavingsAnalysis{
		UnitCostReduction:     bracket.Round(unit),
		AnnualVolume:          annualVolume,
		TotalAnnualSavings:    bracket.Round(unit.Mul(volume)),
		CostNegotiations:      bracket.Round(cost.Mul(volume)),
		DesignOptimizations:   bracket.Round(design.Mul(volume)),
		SupplierOptimizations: bracket.Round(unit.Mul(volume).Mul(policy.RiskPremium)),
		PaybackPeriod:         "6-12 months",
		ROIProjection:         "15-25%",
	}
}

// RiskFactor 风险项
type RiskFactor struct {
	Risk        string `json:"risk"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// RiskAssessment 风险评估
type RiskAssessment struct {
	Factors              []RiskFactor `json:"risk_factors"`
	OverallRating        string       `json:"overall_risk_rating"`
	MitigationStrategies []string     `json:"mitigation_strategies"`
	Monitoring           []string     `json:"monitoring_requirements"`
}

// Risks 优化实施的风险登记表，与具体建议无关
func Risks() RiskAssessment {
	return RiskAssessment{
		Factors: []RiskFactor{
			{"Supplier reliability", "Medium", "High", "Maintain backup suppliers and safety stock"},
			{"Quality degradation", "Low", "High", "Implement rigorous testing protocols"},
			{"Supply chain disruption", "Medium", "Medium", "Diversify supplier base and maintain inventory buffers"},
		},
		OverallRating: "Medium",
		MitigationStrategies: []string{
			"Phase implementation over 3-6 months",
			"Pilot test with small batches",
			"Maintain dual sourcing for critical components",
			"Establish quality control checkpoints",
		},
		Monitoring: []string{
			"Monthly supplier performance reviews",
			"Quality metrics tracking",
			"Cost variance analysis",
			"Lead time monitoring",
		},
	}
}

// Recommendations 汇总建议
type Recommendations struct {
	PriorityChanges        []string        `json:"priority_changes"`
	ImplementationTimeline string          `json:"implementation_timeline"`
	ExpectedSavings        decimal.Decimal `json:"expected_savings"`
	RiskMitigation         []string        `json:"risk_mitigation"`
}

// Report 物料清单优化报告
type Report struct {
	ProductName     string          `json:"product_name"`
	Version         string          `json:"bom_version"`
	Current         Analysis        `json:"current_bom"`
	Optimizations   Optimizations   `json:"optimizations"`
	Savings         SavingsAnalysis `json:"savings_analysis"`
	Risks           RiskAssessment  `json:"risk_assessment"`
	Recommendations Recommendations `json:"recommendations"`
}

// Optimizer 物料清单优化器
type Optimizer struct {
	policy Policy
}

// NewOptimizer 创建物料清单优化器
func NewOptimizer(policy Policy) *Optimizer {
	return &Optimizer{policy: policy}
}

// Run 校验并分析物料清单，生成完整优化报告
func (o *Optimizer) Run(ctx context.Context, b *BOM) (*Report, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: empty bill of materials", ErrInvalidBOM)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Infof("optimizing bill of materials for %s with %d components", b.ProductName, len(b.Components))

	analysis := Analyze(b)
	opts := Optimize(analysis, o.policy)
	savings := Savings(opts, b.AnnualVolume, o.policy)
	risks := Risks()
	return &Report{
		ProductName:   b.ProductName,
		Version:       lo.CoalesceOrEmpty(b.Version, defaultVersion),
		Current:       analysis,
		Optimizations: opts,
		Savings:       savings,
		Risks:         risks,
		Recommendations: Recommendations{
			PriorityChanges:        opts.ByPriority(PriorityHigh),
			ImplementationTimeline: "4-8 weeks",
			ExpectedSavings:        savings.TotalAnnualSavings,
			RiskMitigation:         risks.MitigationStrategies,
		},
	}, nil
}
