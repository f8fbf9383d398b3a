// 税务辖区：按辖区代码组织的不可变税率表与扣缴项配置
package jurisdiction

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// Category 扣缴项在合规汇总中的归类
type Category string

const (
	CategoryIncomeTax      Category = "income_tax"
	CategorySocialSecurity Category = "social_security"
	CategoryOther          Category = "other"
)

// Basis 比例扣缴项的计费口径
type Basis string

const (
	BasisPeriod Basis = "period" // 直接在周期金额上计算
	BasisAnnual Basis = "annual" // 年化计算后折回周期，上限按年度口径
)

const defaultPeriodsPerYear = 12

// ProgressiveTerm 累进计税项，税率表为年度口径
type ProgressiveTerm struct {
	Name     string
	Category Category
	Table    bracket.Table
}

// Amount 计算周期应缴金额（年化→计算→折回）
func (t ProgressiveTerm) Amount(periodGross decimal.Decimal, periodsPerYear int64) (decimal.Decimal, error) {
	return t.Table.ComputePeriodProgressive(periodGross, periodsPerYear)
}

// ContributionTerm 比例扣缴项
// 功能：在累进计税之外叠加的比例扣缴（社保、公积金等），可带上限与资格条件
type ContributionTerm struct {
	Name              string
	Category          Category
	Rate              bracket.CappedRate
	Basis             Basis
	EligibleAnnualMin decimal.NullDecimal
	EligibleAnnualMax decimal.NullDecimal
	PayrollAnnualMin  decimal.NullDecimal
}

// Eligible 判断年化金额与整批年化工资总额是否满足资格条件
func (t ContributionTerm) Eligible(annual, payrollAnnual decimal.Decimal) bool {
	if t.EligibleAnnualMin.Valid && !annual.GreaterThan(t.EligibleAnnualMin.Decimal) {
		return false
	}
	if t.EligibleAnnualMax.Valid && annual.GreaterThan(t.EligibleAnnualMax.Decimal) {
		return false
	}
	if t.PayrollAnnualMin.Valid && !payrollAnnual.GreaterThan(t.PayrollAnnualMin.Decimal) {
		return false
	}
	return true
}

// Amount 计算周期扣缴额，不满足资格条件时为0
func (t ContributionTerm) Amount(periodGross decimal.Decimal, periodsPerYear int64, payrollAnnual decimal.Decimal) (decimal.Decimal, error) {
	annual, err := bracket.Annualize(periodGross, periodsPerYear)
	if err != nil {
		return decimal.Zero, err
	}
	if !t.Eligible(annual, payrollAnnual) {
		return decimal.Zero, nil
	}
	if t.Basis == BasisAnnual {
		return bracket.ComputePeriodCappedRateAmount(periodGross, periodsPerYear, t.Rate)
	}
	return bracket.ComputeCappedRateAmount(periodGross, t.Rate)
}

// FlatTerm 固定金额扣缴项
type FlatTerm struct {
	Name     string
	Category Category
	Amount   decimal.Decimal
}

// Schedule 一个税务辖区的完整扣缴配置，构造后只读
type Schedule struct {
	Code                  string
	Currency              string
	PeriodsPerYear        int64
	IncomeTaxes           []ProgressiveTerm
	Contributions         []ContributionTerm
	FlatDeductions        []FlatTerm
	EmployerContributions []ContributionTerm
	Filings               []string
}

// FromSpec 将配置转换为校验后的辖区配置
// 功能：构造所有税率表并校验比例、口径与固定金额
// 参数：spec-辖区配置
// 返回：辖区配置，任一项非法时返回包装了bracket.ErrInvalidConfiguration的错误
// 说明：在加载时一次性校验，计算时不再重复校验配置
func FromSpec(spec config.Jurisdiction) (*Schedule, error) {
	if spec.Code == "" {
		return nil, fmt.Errorf("jurisdiction code is required: %w", bracket.ErrInvalidConfiguration)
	}
	s := &Schedule{
		Code:           spec.Code,
		Currency:       spec.Currency,
		PeriodsPerYear: spec.PeriodsPerYear,
		Filings:        append([]string(nil), spec.Filings...),
	}
	if s.PeriodsPerYear == 0 {
		s.PeriodsPerYear = defaultPeriodsPerYear
	}
	if s.PeriodsPerYear < 0 {
		return nil, fmt.Errorf("jurisdiction %s: periods per year %d: %w", spec.Code, s.PeriodsPerYear, bracket.ErrInvalidConfiguration)
	}
	for _, p := range spec.IncomeTaxes {
		brackets := make([]bracket.Bracket, len(p.Brackets))
		for i, b := range p.Brackets {
			brackets[i] = bracket.Bracket{
				LowerBound: decimal.NewFromFloat(b.LowerBound),
				Rate:       decimal.NewFromFloat(b.Rate),
			}
		}
		table, err := bracket.NewTable(brackets...)
		if err != nil {
			return nil, fmt.Errorf("jurisdiction %s: income tax %s: %w", spec.Code, p.Name, err)
		}
		s.IncomeTaxes = append(s.IncomeTaxes, ProgressiveTerm{
			Name:     p.Name,
			Category: categoryOr(p.Category, CategoryIncomeTax),
			Table:    table,
		})
	}
	var err error
	if s.Contributions, err = contributionTerms(spec.Code, spec.Contributions); err != nil {
		return nil, err
	}
	if s.EmployerContributions, err = contributionTerms(spec.Code, spec.EmployerContributions); err != nil {
		return nil, err
	}
	for _, f := range spec.FlatDeductions {
		amount := decimal.NewFromFloat(f.Amount)
		if amount.IsNegative() {
			return nil, fmt.Errorf("jurisdiction %s: flat deduction %s is negative: %w", spec.Code, f.Name, bracket.ErrInvalidConfiguration)
		}
		s.FlatDeductions = append(s.FlatDeductions, FlatTerm{
			Name:     f.Name,
			Category: categoryOr(f.Category, CategoryOther),
			Amount:   amount,
		})
	}
	return s, nil
}

func contributionTerms(code string, specs []config.ContributionSpec) ([]ContributionTerm, error) {
	terms := make([]ContributionTerm, 0, len(specs))
	for _, c := range specs {
		term := ContributionTerm{
			Name:              c.Name,
			Category:          categoryOr(c.Category, CategoryOther),
			Rate:              bracket.CappedRate{Rate: decimal.NewFromFloat(c.Rate), Cap: nullable(c.Cap)},
			Basis:             Basis(c.Basis),
			EligibleAnnualMin: nullable(c.EligibleAnnualMin),
			EligibleAnnualMax: nullable(c.EligibleAnnualMax),
			PayrollAnnualMin:  nullable(c.PayrollAnnualMin),
		}
		if term.Basis == "" {
			term.Basis = BasisPeriod
		}
		if term.Basis != BasisPeriod && term.Basis != BasisAnnual {
			return nil, fmt.Errorf("jurisdiction %s: contribution %s: unknown basis %q: %w", code, c.Name, c.Basis, bracket.ErrInvalidConfiguration)
		}
		if err := bracket.ValidateCappedRate(term.Rate); err != nil {
			return nil, fmt.Errorf("jurisdiction %s: contribution %s: %w", code, c.Name, err)
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func nullable(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*v))
}

func categoryOr(c string, fallback Category) Category {
	if c == "" {
		return fallback
	}
	return Category(c)
}
