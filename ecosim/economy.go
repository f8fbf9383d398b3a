package ecosim

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
)

// Collection 一批代理的税收结果
type Collection struct {
	Taxes      []decimal.Decimal `json:"taxes"`       // 每个代理的应缴税额
	NetIncomes []decimal.Decimal `json:"net_incomes"` // 每个代理的税后收入
	TotalTax   decimal.Decimal   `json:"total_tax"`   // 税收总额
	LumpSum    decimal.Decimal   `json:"lump_sum"`    // 再分配时每人分得的金额
	Government decimal.Decimal   `json:"government"`  // 不再分配时政府收入
}

// CollectTaxes 计算一批代理的应缴税额
// 功能：对每个代理的收入做累进计税，并按需将税收平均返还
// 参数：table-税率表，incomes-各代理收入，enableRedistribution-是否再分配
// 返回：税收结果
// 算法说明：
// 1. 逐个代理计算税额（每个税额单独舍入一次）
// 2. 税后收入 = 收入 - 税额
// 3. 开启再分配时每人分得 总税额/人数，否则税收归政府
func CollectTaxes(table bracket.Table, incomes []decimal.Decimal, enableRedistribution bool) (*Collection, error) {
	c := &Collection{
		Taxes:      make([]decimal.Decimal, 0, len(incomes)),
		NetIncomes: make([]decimal.Decimal, 0, len(incomes)),
		TotalTax:   decimal.Zero,
		LumpSum:    decimal.Zero,
		Government: decimal.Zero,
	}
	for i, income := range incomes {
		tax, err := table.Compute(income)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		c.Taxes = append(c.Taxes, tax)
		c.NetIncomes = append(c.NetIncomes, income.Sub(tax))
		c.TotalTax = c.TotalTax.Add(tax)
	}

	if enableRedistribution {
		if len(incomes) > 0 {
			c.LumpSum = bracket.Round(c.TotalTax.Div(decimal.NewFromInt(int64(len(incomes)))))
		}
	} else {
		c.Government = c.TotalTax
	}
	log.Debugf("collected %s tax from %d agents", c.TotalTax, len(incomes))
	return c, nil
}
