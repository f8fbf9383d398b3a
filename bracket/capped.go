package bracket

import "github.com/shopspring/decimal"

// CappedRate 封顶比例扣缴
// 功能：按固定比例计算扣缴额，Cap有效时扣缴额不超过Cap
// 说明：用于社保等有缴费上限的比例扣缴项
type CappedRate struct {
	Rate decimal.Decimal     `json:"rate"`
	Cap  decimal.NullDecimal `json:"cap"`
}

// NewCappedRate 创建带上限的比例扣缴
func NewCappedRate(rate, limit decimal.Decimal) CappedRate {
	return CappedRate{Rate: rate, Cap: decimal.NewNullDecimal(limit)}
}

// FlatRate 创建无上限的比例扣缴
func FlatRate(rate decimal.Decimal) CappedRate {
	return CappedRate{Rate: rate}
}

// ValidateCappedRate 校验比例在[0,1]内且上限非负
func ValidateCappedRate(cr CappedRate) error {
	if cr.Rate.LessThan(zero) || cr.Rate.GreaterThan(one) {
		return configErrorf("capped rate %s out of range [0,1]", cr.Rate)
	}
	if cr.Cap.Valid && cr.Cap.Decimal.IsNegative() {
		return configErrorf("cap %s must not be negative", cr.Cap.Decimal)
	}
	return nil
}

// ComputeCappedRateAmount 计算封顶比例扣缴额
// 功能：计算base×rate，若设置了上限则取与上限的较小值
// 参数：base-计费基数，cr-比例与可选上限
// 返回：扣缴额（2位小数，0.5进位），或配置/输入错误
func ComputeCappedRateAmount(base decimal.Decimal, cr CappedRate) (decimal.Decimal, error) {
	if err := ValidateCappedRate(cr); err != nil {
		return zero, err
	}
	if err := validateBase(base); err != nil {
		return zero, err
	}
	return Round(capped(base, cr)), nil
}

func capped(base decimal.Decimal, cr CappedRate) decimal.Decimal {
	amount := base.Mul(cr.Rate)
	if cr.Cap.Valid && amount.GreaterThan(cr.Cap.Decimal) {
		return cr.Cap.Decimal
	}
	return amount
}
