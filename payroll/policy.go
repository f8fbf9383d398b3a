package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// Policy 薪资计算策略
type Policy struct {
	StandardHours           decimal.Decimal // 月标准工时，用于折算加班时薪
	OvertimeMultiplier      decimal.Decimal // 加班倍率
	ManagementAllowanceRate decimal.Decimal // 管理津贴比例（manager/senior）
	TransportAllowance      decimal.Decimal // 交通津贴
	MealAllowance           decimal.Decimal // 餐补
	HealthInsuranceEmployer decimal.Decimal // 雇主医保缴费
	RetirementMatchRate     decimal.Decimal // 员工未指定时的退休金匹配比例
	RetirementMatchCeiling  decimal.Decimal // 匹配上限占应发工资比例
	LifeInsurancePremium    decimal.Decimal // 寿险保费
}

// DefaultPolicy 默认薪资策略
func DefaultPolicy() Policy {
	return Policy{
		StandardHours:           decimal.NewFromInt(160),
		OvertimeMultiplier:      decimal.RequireFromString("1.5"),
		ManagementAllowanceRate: decimal.RequireFromString("0.10"),
		TransportAllowance:      decimal.NewFromInt(500),
		MealAllowance:           decimal.NewFromInt(300),
		HealthInsuranceEmployer: decimal.NewFromInt(400),
		RetirementMatchRate:     decimal.RequireFromString("0.5"),
		RetirementMatchCeiling:  decimal.RequireFromString("0.06"),
		LifeInsurancePremium:    decimal.NewFromInt(50),
	}
}

// PolicyFromConfig 由配置生成薪资策略，未设置（零值）的字段取默认值
func PolicyFromConfig(c config.Payroll) Policy {
	p := DefaultPolicy()
	override(&p.StandardHours, c.StandardHours)
	override(&p.OvertimeMultiplier, c.OvertimeMultiplier)
	override(&p.ManagementAllowanceRate, c.ManagementAllowanceRate)
	override(&p.TransportAllowance, c.TransportAllowance)
	override(&p.MealAllowance, c.MealAllowance)
	override(&p.HealthInsuranceEmployer, c.HealthInsuranceEmployer)
	override(&p.RetirementMatchRate, c.RetirementMatchRate)
	override(&p.RetirementMatchCeiling, c.RetirementMatchCeiling)
	override(&p.LifeInsurancePremium, c.LifeInsurancePremium)
	return p
}

func override(dst *decimal.Decimal, v float64) {
	if v != 0 {
		*dst = decimal.NewFromFloat(v)
	}
}
