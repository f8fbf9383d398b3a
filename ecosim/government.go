// 经济模拟器互通：将economyv2.Government的税率档位接入分档累进计算器
package ecosim

import (
	"fmt"

	"git.fiblab.net/general/common/v2/protoutil"
	economyv2 "git.fiblab.net/sim/protos/v2/go/city/economy/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// DefaultTable 默认月度税率表
func DefaultTable() bracket.Table {
	t, err := tableFromFloat32(DefaultBracketCutoffs, DefaultBracketRates)
	if err != nil {
		panic(err)
	}
	return t
}

// TableFromGovernment 获取政府的税率表
// 功能：将政府的float32切分点与税率转换为校验后的税率表
// 参数：gov-政府proto消息
// 返回：税率表；切分点或税率为空时使用默认值，与CalculateTaxesDue的回退规则一致
func TableFromGovernment(gov *economyv2.Government) (bracket.Table, error) {
	cutoffs := gov.GetBracketCutoffs()
	if len(cutoffs) == 0 {
		cutoffs = DefaultBracketCutoffs
	}
	rates := gov.GetBracketRates()
	if len(rates) == 0 {
		rates = DefaultBracketRates
	}
	return tableFromFloat32(cutoffs, rates)
}

// LoadGovernment 从protobuf二进制文件读取政府快照
func LoadGovernment(file string) (*economyv2.Government, error) {
	var gov economyv2.Government
	if err := protoutil.UnmarshalFromFile(&gov, file); err != nil {
		return nil, fmt.Errorf("failed to load government from file: %w", err)
	}
	return &gov, nil
}

// JurisdictionSpec 将政府税率表转换为辖区配置
// 说明：政府切分点是月度口径，默认每年周期数为1，即直接在周期金额上计算
func JurisdictionSpec(gov *economyv2.Government, in config.EconomyInput) (config.Jurisdiction, error) {
	table, err := TableFromGovernment(gov)
	if err != nil {
		return config.Jurisdiction{}, err
	}
	periods := in.PeriodsPerYear
	if periods == 0 {
		periods = 1
	}
	return config.Jurisdiction{
		Code:           in.Code,
		Currency:       in.Currency,
		PeriodsPerYear: periods,
		IncomeTaxes: []config.ProgressiveSpec{{
			Name:     "income_tax",
			Category: "income_tax",
			Brackets: lo.Map(table.Brackets(), func(b bracket.Bracket, _ int) config.BracketSpec {
				return config.BracketSpec{
					LowerBound: b.LowerBound.InexactFloat64(),
					Rate:       b.Rate.InexactFloat64(),
				}
			}),
		}},
	}, nil
}

func tableFromFloat32(cutoffs, rates []float32) (bracket.Table, error) {
	return bracket.FromCutoffs(
		lo.Map(cutoffs, func(v float32, _ int) decimal.Decimal { return decimal.NewFromFloat32(v) }),
		lo.Map(rates, func(v float32, _ int) decimal.Decimal { return decimal.NewFromFloat32(v) }),
	)
}
