package bracket

import "github.com/shopspring/decimal"

// CurrencyPlaces 货币最小单位精度（小数位数）
const CurrencyPlaces int32 = 2

// Round 按货币精度四舍五入
// 功能：将金额舍入到2位小数，0.5进位（远离零方向），不使用银行家舍入
// 参数：d-未舍入金额
// 返回：舍入后的金额
// 说明：每个返回值只舍入一次，分档累加的中间结果不得调用本函数
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
