package bracket

import "github.com/shopspring/decimal"

// 发薪周期换算
//
// 年度税率表只能作用于年化金额。按周期（如月度）扣缴时，调用方必须：
//  1. 周期金额 × 每年周期数 得到年化金额
//  2. 在年化金额上执行计算（不舍入）
//  3. 结果 ÷ 每年周期数，最后舍入一次
//
// 直接用年度税率表计算周期金额会导致档位切分点失效，本包不在运行时阻止这种用法，
// 年化步骤由调用方负责，下面两个函数封装了正确顺序。

// ComputePeriodProgressiveAmount 以年度税率表计算周期累进金额
// 参数：periodBase-周期金额，periodsPerYear-每年周期数（月度为12），brackets-年度档位
// 返回：周期应缴金额（只舍入一次）
func ComputePeriodProgressiveAmount(periodBase decimal.Decimal, periodsPerYear int64, brackets []Bracket) (decimal.Decimal, error) {
	if err := Validate(brackets); err != nil {
		return zero, err
	}
	return periodCompute(periodBase, periodsPerYear, func(annual decimal.Decimal) decimal.Decimal {
		return progressive(annual, brackets)
	})
}

// ComputePeriodProgressive 在已校验税率表上计算周期累进金额
func (t Table) ComputePeriodProgressive(periodBase decimal.Decimal, periodsPerYear int64) (decimal.Decimal, error) {
	if len(t.brackets) == 0 {
		return zero, configErrorf("brackets must not be empty")
	}
	return periodCompute(periodBase, periodsPerYear, func(annual decimal.Decimal) decimal.Decimal {
		return progressive(annual, t.brackets)
	})
}

// ComputePeriodCappedRateAmount 以年度上限计算周期比例扣缴额
// 说明：cr.Cap按年度口径解释，如社保工资基数上限×费率
func ComputePeriodCappedRateAmount(periodBase decimal.Decimal, periodsPerYear int64, cr CappedRate) (decimal.Decimal, error) {
	if err := ValidateCappedRate(cr); err != nil {
		return zero, err
	}
	return periodCompute(periodBase, periodsPerYear, func(annual decimal.Decimal) decimal.Decimal {
		return capped(annual, cr)
	})
}

// Annualize 周期金额年化
func Annualize(periodBase decimal.Decimal, periodsPerYear int64) (decimal.Decimal, error) {
	if err := validatePeriods(periodsPerYear); err != nil {
		return zero, err
	}
	if err := validateBase(periodBase); err != nil {
		return zero, err
	}
	return periodBase.Mul(decimal.NewFromInt(periodsPerYear)), nil
}

func periodCompute(periodBase decimal.Decimal, periodsPerYear int64, f func(decimal.Decimal) decimal.Decimal) (decimal.Decimal, error) {
	annual, err := Annualize(periodBase, periodsPerYear)
	if err != nil {
		return zero, err
	}
	return Round(f(annual).Div(decimal.NewFromInt(periodsPerYear))), nil
}

func validatePeriods(periodsPerYear int64) error {
	if periodsPerYear <= 0 {
		return configErrorf("periods per year must be positive, got %d", periodsPerYear)
	}
	return nil
}
