package jurisdiction

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// 内置辖区配置，未配置任何来源时使用
// 年度税率表，月度发薪
//   - US：联邦所得税累进，社保按工资基数160200封顶（160200×0.062=9932.40），州税按平均5%
//   - IN：所得税累进，公积金每期封顶1800，ESI仅对年化不超过250000生效，职业税每期200
//   - UK：所得税累进，养老金自动加入仅对年化超过10000生效，学徒税仅对年化工资总额超过300万生效
func DefaultSpecs() []config.Jurisdiction {
	return []config.Jurisdiction{
		{
			Code:           "US",
			Currency:       "USD",
			PeriodsPerYear: 12,
			IncomeTaxes: []config.ProgressiveSpec{
				{
					Name:     "federal_income_tax",
					Category: string(CategoryIncomeTax),
					Brackets: []config.BracketSpec{
						{LowerBound: 0, Rate: 0.10},
						{LowerBound: 9950, Rate: 0.12},
						{LowerBound: 40525, Rate: 0.22},
						{LowerBound: 86375, Rate: 0.24},
					},
				},
			},
			Contributions: []config.ContributionSpec{
				{Name: "social_security", Category: string(CategorySocialSecurity), Rate: 0.062, Cap: lo.ToPtr(9932.40), Basis: string(BasisAnnual)},
				{Name: "medicare", Rate: 0.0145},
				{Name: "state_income_tax", Category: string(CategoryIncomeTax), Rate: 0.05},
			},
			EmployerContributions: []config.ContributionSpec{
				{Name: "social_security", Category: string(CategorySocialSecurity), Rate: 0.062},
				{Name: "medicare", Rate: 0.0145},
				{Name: "unemployment", Rate: 0.006},
			},
			Filings: []string{"941", "W-2"},
		},
		{
			Code:           "IN",
			Currency:       "INR",
			PeriodsPerYear: 12,
			IncomeTaxes: []config.ProgressiveSpec{
				{
					Name:     "income_tax",
					Category: string(CategoryIncomeTax),
					Brackets: []config.BracketSpec{
						{LowerBound: 0, Rate: 0},
						{LowerBound: 250000, Rate: 0.05},
						{LowerBound: 500000, Rate: 0.20},
						{LowerBound: 1000000, Rate: 0.30},
					},
				},
			},
			Contributions: []config.ContributionSpec{
				{Name: "provident_fund", Category: string(CategorySocialSecurity), Rate: 0.12, Cap: lo.ToPtr(1800.0)},
				{Name: "esi", Rate: 0.0075, EligibleAnnualMax: lo.ToPtr(250000.0)},
			},
			FlatDeductions: []config.FlatSpec{
				{Name: "professional_tax", Amount: 200},
			},
			EmployerContributions: []config.ContributionSpec{
				{Name: "provident_fund", Category: string(CategorySocialSecurity), Rate: 0.12, Cap: lo.ToPtr(1800.0)},
				{Name: "esi", Rate: 0.0325, EligibleAnnualMax: lo.ToPtr(250000.0)},
			},
			Filings: []string{"24Q", "ECR"},
		},
		{
			Code:           "UK",
			Currency:       "GBP",
			PeriodsPerYear: 12,
			IncomeTaxes: []config.ProgressiveSpec{
				{
					Name:     "income_tax",
					Category: string(CategoryIncomeTax),
					Brackets: []config.BracketSpec{
						{LowerBound: 0, Rate: 0},
						{LowerBound: 12570, Rate: 0.20},
						{LowerBound: 50270, Rate: 0.40},
						{LowerBound: 150000, Rate: 0.45},
					},
				},
			},
			Contributions: []config.ContributionSpec{
				{Name: "national_insurance", Category: string(CategorySocialSecurity), Rate: 0.12},
				{Name: "pension_contribution", Rate: 0.05, EligibleAnnualMin: lo.ToPtr(10000.0)},
			},
			EmployerContributions: []config.ContributionSpec{
				{Name: "national_insurance", Category: string(CategorySocialSecurity), Rate: 0.138},
				{Name: "apprenticeship_levy", Rate: 0.005, PayrollAnnualMin: lo.ToPtr(3000000.0)},
			},
			Filings: []string{"FPS", "EPS"},
		},
	}
}
