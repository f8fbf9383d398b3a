// 分档累进计算器，提供累进税额与封顶比例扣缴的精确十进制计算
package bracket

import (
	"github.com/shopspring/decimal"
)

var (
	zero = decimal.Zero
	one  = decimal.NewFromInt(1)
)

// Bracket 税率档位
// 功能：描述一个累进档位，LowerBound为档位下限，Rate为该档位的边际税率
// 说明：Rate只作用于落在该档位内的那部分金额
type Bracket struct {
	LowerBound decimal.Decimal `json:"lower_bound"`
	Rate       decimal.Decimal `json:"rate"`
}

// Table 经过校验的不可变税率表
// 功能：保存一组按下限严格递增的档位，构造后不可修改
// 说明：零值为空表，对空表计算会返回ErrInvalidConfiguration
type Table struct {
	brackets []Bracket
}

// NewTable 创建税率表
// 功能：校验档位序列并复制一份作为不可变税率表
// 参数：brackets-按下限升序排列的档位
// 返回：税率表，若档位非法则返回ErrInvalidConfiguration
func NewTable(brackets ...Bracket) (Table, error) {
	if err := Validate(brackets); err != nil {
		return Table{}, err
	}
	return Table{brackets: append([]Bracket(nil), brackets...)}, nil
}

// MustTable 创建税率表，非法时panic，仅用于内置默认配置
func MustTable(brackets ...Bracket) Table {
	t, err := NewTable(brackets...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromCutoffs 由切分点与税率两个等长序列创建税率表
func FromCutoffs(cutoffs, rates []decimal.Decimal) (Table, error) {
	if len(cutoffs) != len(rates) {
		return Table{}, configErrorf("%d cutoffs but %d rates", len(cutoffs), len(rates))
	}
	brackets := make([]Bracket, len(cutoffs))
	for i := range cutoffs {
		brackets[i] = Bracket{LowerBound: cutoffs[i], Rate: rates[i]}
	}
	return NewTable(brackets...)
}

// Brackets 返回档位副本
func (t Table) Brackets() []Bracket {
	return append([]Bracket(nil), t.brackets...)
}

// Len 返回档位数量
func (t Table) Len() int {
	return len(t.brackets)
}

// Compute 在已校验的税率表上计算累进金额，结果已舍入
func (t Table) Compute(base decimal.Decimal) (decimal.Decimal, error) {
	if len(t.brackets) == 0 {
		return zero, configErrorf("brackets must not be empty")
	}
	if err := validateBase(base); err != nil {
		return zero, err
	}
	return Round(progressive(base, t.brackets)), nil
}

// Validate 校验档位序列
// 功能：检查档位序列是否满足累进计算的前提条件
// 参数：brackets-档位序列
// 返回：不满足时返回ErrInvalidConfiguration
// 算法说明：
// 1. 序列不能为空
// 2. 第一个档位下限必须为0
// 3. 下限严格递增
// 4. 每个税率位于[0,1]
func Validate(brackets []Bracket) error {
	if len(brackets) == 0 {
		return configErrorf("brackets must not be empty")
	}
	if !brackets[0].LowerBound.IsZero() {
		return configErrorf("first lower bound must be 0, got %s", brackets[0].LowerBound)
	}
	for i, b := range brackets {
		if b.Rate.LessThan(zero) || b.Rate.GreaterThan(one) {
			return configErrorf("bracket %d rate %s out of range [0,1]", i, b.Rate)
		}
		if i > 0 && !b.LowerBound.GreaterThan(brackets[i-1].LowerBound) {
			return configErrorf("bracket %d lower bound %s not greater than %s",
				i, b.LowerBound, brackets[i-1].LowerBound)
		}
	}
	return nil
}

// ComputeProgressiveAmount 计算累进金额
// 功能：按边际税率对金额分档计税并累加
// 参数：base-计税基数（如年化收入），brackets-档位序列
// 返回：应缴金额（2位小数，0.5进位），或配置/输入错误
// 算法说明：
// 1. 校验档位与基数
// 2. 按下限升序遍历，基数不超过当前下限时停止
// 3. 当前档位应税部分为min(base, 下一档下限)-当前下限，最后一档上限为无穷
// 4. 累加“应税部分×税率”，全部累加完成后只舍入一次
// 说明：纯函数，无共享状态，可并发调用
func ComputeProgressiveAmount(base decimal.Decimal, brackets []Bracket) (decimal.Decimal, error) {
	if err := Validate(brackets); err != nil {
		return zero, err
	}
	if err := validateBase(base); err != nil {
		return zero, err
	}
	return Round(progressive(base, brackets)), nil
}

// progressive 未舍入的累进计算，调用前必须已完成校验
func progressive(base decimal.Decimal, brackets []Bracket) decimal.Decimal {
	total := zero
	for i, b := range brackets {
		if base.LessThanOrEqual(b.LowerBound) {
			break
		}
		upper := base
		if i+1 < len(brackets) && brackets[i+1].LowerBound.LessThan(base) {
			upper = brackets[i+1].LowerBound
		}
		total = total.Add(upper.Sub(b.LowerBound).Mul(b.Rate))
	}
	return total
}

func validateBase(base decimal.Decimal) error {
	if base.IsNegative() {
		return inputErrorf("base amount %s must not be negative", base)
	}
	return nil
}
