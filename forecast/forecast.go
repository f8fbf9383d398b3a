// 带显式种子的财务预测：营收季节性、费用波动与综合损益
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/randengine"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/validate"
)

// ErrInvalidRequest 预测请求校验失败
var ErrInvalidRequest = errors.New("invalid forecast request")

// Type 预测类型
type Type string

const (
	TypeRevenue       Type = "revenue"
	TypeExpenses      Type = "expenses"
	TypeGrowth        Type = "growth"
	TypeComprehensive Type = "comprehensive"
)

const (
	MaxHorizonMonths = 60

	riskAdjustedMonths = 12
	confidenceScore    = 0.87
)

var (
	defaultComprehensiveBase = decimal.NewFromInt(1000000)
	defaultSpecificBase      = decimal.NewFromInt(100000)
	defaultGrowthRate        = decimal.RequireFromString("0.05")

	riskDiscount      = decimal.RequireFromString("0.85")
	growthOptimism    = decimal.RequireFromString("1.1")
	expenseShare      = 0.7
	expenseGrowthRate = 0.8
)

// seasonality 按自然月（1月起）的营收季节系数，一季度低谷、四季度高峰
var seasonality = [12]float64{0.85, 0.90, 0.95, 1.00, 1.02, 1.05, 1.03, 1.01, 1.08, 1.12, 1.15, 1.20}

var validator = validate.New()

// Request 预测请求
// 说明：Seed必填，相同请求与种子产生相同结果；BaseValue、GrowthRate为空时取默认值
type Request struct {
	Type          Type                `json:"forecast_type" validate:"oneof=revenue expenses growth comprehensive"`
	BaseValue     decimal.NullDecimal `json:"base_value"`
	GrowthRate    decimal.NullDecimal `json:"growth_rate"`
	HorizonMonths int                 `json:"horizon_months" validate:"min=1,max=60"`
	Seed          *uint64             `json:"seed" validate:"required"`
}

// Validate 校验预测请求
func (r *Request) Validate() error {
	if err := validator.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, validate.Describe(err))
	}
	if r.BaseValue.Valid && r.BaseValue.Decimal.IsNegative() {
		return fmt.Errorf("%w: base_value %s is negative", ErrInvalidRequest, r.BaseValue.Decimal)
	}
	if r.GrowthRate.Valid && r.GrowthRate.Decimal.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: growth_rate %s must be greater than -1", ErrInvalidRequest, r.GrowthRate.Decimal)
	}
	return nil
}

// Summary 综合预测
type Summary struct {
	Revenue             []decimal.Decimal `json:"revenue_forecast"`
	Expenses            []decimal.Decimal `json:"expense_forecast"`
	Profit              []decimal.Decimal `json:"profit_forecast"`
	RiskAdjusted        []decimal.Decimal `json:"risk_adjusted_forecast"`
	PredictedGrowthRate decimal.Decimal   `json:"growth_rate_predicted"`
	ConfidenceScore     float64           `json:"confidence_score"`
}

// RiskFactor 财务风险项
type RiskFactor struct {
	Factor      string  `json:"factor"`
	Probability float64 `json:"probability"`
	Impact      string  `json:"impact"`
	Mitigation  string  `json:"mitigation"`
}

// Result 预测结果
type Result struct {
	Type          Type              `json:"forecast_type"`
	HorizonMonths int               `json:"horizon_months"`
	Seed          uint64            `json:"seed"`
	Forecast      []decimal.Decimal `json:"forecast,omitempty"` // 单项预测
	Summary       *Summary          `json:"forecast_summary,omitempty"`
	RiskFactors   []RiskFactor      `json:"risk_factors,omitempty"`
	Mitigation    []string          `json:"mitigation_strategies,omitempty"`
}

// Execute 执行预测
// 功能：按预测类型生成逐月预测序列
// 参数：ctx-上下文，req-预测请求
// 返回：预测结果，请求非法时返回ErrInvalidRequest
// 算法说明（第i个月，i从0开始，g为增长率）：
// 1. 营收：base × (1+g)^(i/12) × 季节系数[i%12] × U(0.95, 1.05)
// 2. 费用：base × (1+0.8g)^(i/12) × U(0.92, 1.08)
// 3. 增长：base × (1+g)^(i/12)
// 4. 综合：营收基于base，费用基于0.7×base、增长率0.8×g；利润=营收-费用；
// 风险调整预测为前12个月营收×0.85；预测增长率为g×1.1
// 所有数值舍入至2位小数，随机数均由同一个以Seed初始化的引擎依次产生
func Execute(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := *req.Seed
	engine := randengine.New(seed)
	growth := req.GrowthRate.Decimal
	if !req.GrowthRate.Valid {
		growth = defaultGrowthRate
	}
	g := growth.InexactFloat64()
	months := req.HorizonMonths
	log.Debugf("executing %s forecast for %d months (seed %d)", req.Type, months, seed)

	res := &Result{Type: req.Type, HorizonMonths: months, Seed: seed}
	if req.Type != TypeComprehensive {
		base := baseOr(req.BaseValue, defaultSpecificBase)
		switch req.Type {
		case TypeRevenue:
			res.Forecast = revenue(engine, base, g, months)
		case TypeExpenses:
			res.Forecast = expenses(engine, base, g, months)
		default:
			res.Forecast = growthCurve(base, g, months)
		}
		return res, nil
	}

	base := baseOr(req.BaseValue, defaultComprehensiveBase)
	rev := revenue(engine, base, g, months)
	exp := expenses(engine, base*expenseShare, g*expenseGrowthRate, months)
	res.Summary = &Summary{
		Revenue:  rev,
		Expenses: exp,
		Profit: lo.Map(rev, func(r decimal.Decimal, i int) decimal.Decimal {
			return r.Sub(exp[i])
		}),
		RiskAdjusted: lo.Map(rev[:min(riskAdjustedMonths, len(rev))], func(r decimal.Decimal, _ int) decimal.Decimal {
			return bracket.Round(r.Mul(riskDiscount))
		}),
		PredictedGrowthRate: growth.Mul(growthOptimism),
		ConfidenceScore:     confidenceScore,
	}
	res.RiskFactors = riskFactors()
	res.Mitigation = []string{
		"Build 6-month cash reserve",
		"Diversify customer portfolio",
		"Implement agile business model",
		"Establish strategic partnerships",
	}
	return res, nil
}

func revenue(e *randengine.Engine, base, g float64, months int) []decimal.Decimal {
	out := make([]decimal.Decimal, months)
	for i := range months {
		v := base * math.Pow(1+g, float64(i)/12) * seasonality[i%12] * e.Uniform(0.95, 1.05)
		out[i] = round(v)
	}
	return out
}

func expenses(e *randengine.Engine, base, g float64, months int) []decimal.Decimal {
	out := make([]decimal.Decimal, months)
	for i := range months {
		v := base * math.Pow(1+g*expenseGrowthRate, float64(i)/12) * e.Uniform(0.92, 1.08)
		out[i] = round(v)
	}
	return out
}

func growthCurve(base, g float64, months int) []decimal.Decimal {
	out := make([]decimal.Decimal, months)
	for i := range months {
		out[i] = round(base * math.Pow(1+g, float64(i)/12))
	}
	return out
}

func riskFactors() []RiskFactor {
	return []RiskFactor{
		{"Market Competition", 0.35, "high", "Strengthen value proposition and customer loyalty"},
		{"Economic Downturn", 0.25, "high", "Diversify customer base and build cash reserves"},
		{"Supply Chain Disruption", 0.20, "medium", "Develop alternative suppliers and buffer inventory"},
	}
}

func baseOr(v decimal.NullDecimal, fallback decimal.Decimal) float64 {
	if v.Valid {
		return v.Decimal.InexactFloat64()
	}
	return fallback.InexactFloat64()
}

func round(v float64) decimal.Decimal {
	return bracket.Round(decimal.NewFromFloat(v))
}
