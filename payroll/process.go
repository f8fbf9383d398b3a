// 薪资批处理：应发、扣缴、福利与雇主负担的计算
package payroll

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
)

const (
	defaultProcessedBy = "system"
	statusCompliant    = "compliant"
	statusPending      = "pending"
)

// Processor 薪资批处理器
// 功能：按辖区配置与薪资策略计算一个薪资批次
// 说明：不持有可变状态，可并发调用
type Processor struct {
	registry *jurisdiction.Registry
	policy   Policy
	currency string
	now      func() time.Time
}

// Option 处理器可选项
type Option func(*Processor)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithDefaultCurrency 批次未指定币种时优先于辖区币种使用
func WithDefaultCurrency(currency string) Option {
	return func(p *Processor) { p.currency = currency }
}

// NewProcessor 创建薪资批处理器
func NewProcessor(registry *jurisdiction.Registry, policy Policy, opts ...Option) *Processor {
	p := &Processor{
		registry: registry,
		policy:   policy,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry 处理器使用的辖区配置表
func (p *Processor) Registry() *jurisdiction.Registry {
	return p.registry
}

// Process 计算薪资批次
// 功能：校验批次，按辖区计算每个员工的应发、扣缴、福利，并汇总雇主负担与合规报告
// 参数：ctx-上下文，tenantID-租户ID，run-薪资批次
// 返回：计算结果；校验失败返回ErrInvalidRun，辖区不存在返回jurisdiction.ErrUnknownJurisdiction
// 算法说明：
// 1. 第一遍计算所有员工应发，得到整批年化工资总额（用于学徒税等整批门槛）
// 2. 第二遍计算每个员工的扣缴与福利
// 3. 雇主缴费逐员工舍入后按扣缴项汇总
func (p *Processor) Process(ctx context.Context, tenantID string, run *Run) (*Result, error) {
	if run == nil {
		return nil, fmt.Errorf("%w: empty run", ErrInvalidRun)
	}
	if err := run.Validate(); err != nil {
		return nil, err
	}
	schedule, err := p.registry.Lookup(run.Region)
	if err != nil {
		return nil, err
	}
	start := p.now()
	logger := log.WithField("tenant", tenantID).WithField("region", schedule.Code)
	logger.Infof("processing payroll for %d employees", len(run.Employees))

	currency := lo.CoalesceOrEmpty(run.Currency, p.currency, schedule.Currency)

	earnings := make([]Lines, len(run.Employees))
	grossPayroll := decimal.Zero
	for i := range run.Employees {
		earnings[i] = p.earnings(&run.Employees[i])
		grossPayroll = grossPayroll.Add(earnings[i].Total())
	}
	payrollAnnual, err := bracket.Annualize(grossPayroll, schedule.PeriodsPerYear)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PayrollID: "PR-" + start.UTC().Format("20060102150405"),
		TenantID:  tenantID,
		Period: Period{
			Start:   run.PeriodStart,
			End:     run.PeriodEnd,
			PayDate: run.PayDate,
		},
		Employees:   make([]EmployeeResult, 0, len(run.Employees)),
		ProcessedAt: start,
	}
	summary := Summary{TotalEmployees: len(run.Employees), Currency: currency}
	employerByName := make(map[string]decimal.Decimal)
	benefitsCost := decimal.Zero

	for i := range run.Employees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e := &run.Employees[i]
		er, err := p.employee(e, earnings[i], schedule, payrollAnnual)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", e.ID, err)
		}
		er.Currency = currency
		for _, term := range schedule.EmployerContributions {
			amount, err := term.Amount(er.GrossPay, schedule.PeriodsPerYear, payrollAnnual)
			if err != nil {
				return nil, fmt.Errorf("employee %s: employer %s: %w", e.ID, term.Name, err)
			}
			employerByName[term.Name] = employerByName[term.Name].Add(amount)
		}
		benefitsCost = benefitsCost.Add(er.Benefits.Total())
		summary.TotalGrossPay = summary.TotalGrossPay.Add(er.GrossPay)
		summary.TotalDeductions = summary.TotalDeductions.Add(er.TotalDeductions)
		summary.TotalNetPay = summary.TotalNetPay.Add(er.NetPay)
		result.Employees = append(result.Employees, er)
	}
	result.Summary = summary

	contributions := make(Lines, 0, len(schedule.EmployerContributions))
	for _, term := range schedule.EmployerContributions {
		if contributions.Has(term.Name) {
			continue
		}
		contributions = append(contributions, LineItem{Name: term.Name, Amount: employerByName[term.Name]})
	}
	employerTaxes := contributions.Total()
	result.EmployerLiabilities = EmployerLiabilities{
		TotalGrossPayroll: summary.TotalGrossPay,
		Contributions:     contributions,
		EmployerTaxes:     employerTaxes,
		BenefitsCost:      benefitsCost,
		TotalEmployerCost: bracket.Round(summary.TotalGrossPay.Add(employerTaxes).Add(benefitsCost)),
		Region:            schedule.Code,
		Currency:          currency,
	}
	result.Compliance = p.compliance(run, schedule, result.Employees, start)

	logger.Infof("payroll %s processed: gross %s, net %s, employer cost %s",
		result.PayrollID, summary.TotalGrossPay, summary.TotalNetPay, result.EmployerLiabilities.TotalEmployerCost)
	return result, nil
}

// earnings 应发明细，按固定顺序输出，每项单独舍入，金额为0的项不输出
func (p *Processor) earnings(e *Employee) Lines {
	overtime := decimal.Zero
	if p.policy.StandardHours.IsPositive() {
		overtime = e.OvertimeHours.Mul(e.BaseSalary).Div(p.policy.StandardHours).Mul(p.policy.OvertimeMultiplier)
	}
	items := Lines{
		{Name: "basic_salary", Amount: e.BaseSalary},
		{Name: "overtime_pay", Amount: overtime},
		{Name: "commission", Amount: e.Commission},
		{Name: "bonus", Amount: e.Bonus},
	}
	if e.Level == LevelManager || e.Level == LevelSenior {
		items = append(items, LineItem{Name: "management_allowance", Amount: e.BaseSalary.Mul(p.policy.ManagementAllowanceRate)})
	}
	if e.HasTransportAllowance {
		items = append(items, LineItem{Name: "transport_allowance", Amount: p.policy.TransportAllowance})
	}
	if e.HasMealAllowance {
		items = append(items, LineItem{Name: "meal_allowance", Amount: p.policy.MealAllowance})
	}
	return positive(items)
}

func (p *Processor) employee(e *Employee, earnings Lines, s *jurisdiction.Schedule, payrollAnnual decimal.Decimal) (EmployeeResult, error) {
	gross := earnings.Total()
	er := EmployeeResult{
		EmployeeID: e.ID,
		Name:       lo.CoalesceOrEmpty(e.Name, "Unknown"),
		Earnings:   earnings,
		GrossPay:   gross,
		categories: make(map[string]jurisdiction.Category),
	}

	var deductions Lines
	add := func(name string, category jurisdiction.Category, amount decimal.Decimal) {
		deductions = append(deductions, LineItem{Name: name, Amount: bracket.Round(amount)})
		er.categories[name] = category
	}
	for _, term := range s.IncomeTaxes {
		amount, err := term.Amount(gross, s.PeriodsPerYear)
		if err != nil {
			return er, fmt.Errorf("%s: %w", term.Name, err)
		}
		add(term.Name, term.Category, amount)
	}
	for _, term := range s.Contributions {
		amount, err := term.Amount(gross, s.PeriodsPerYear, payrollAnnual)
		if err != nil {
			return er, fmt.Errorf("%s: %w", term.Name, err)
		}
		add(term.Name, term.Category, amount)
	}
	for _, term := range s.FlatDeductions {
		add(term.Name, term.Category, term.Amount)
	}
	add("health_insurance", jurisdiction.CategoryOther, e.HealthInsuranceDeduction)
	add("loan_emi", jurisdiction.CategoryOther, e.LoanEMI)
	names := lo.Keys(e.VoluntaryDeductions)
	slices.Sort(names)
	for _, name := range names {
		add("voluntary_"+name, jurisdiction.CategoryOther, e.VoluntaryDeductions[name])
	}
	er.Deductions = positive(deductions)

	benefits, err := p.benefits(e, gross)
	if err != nil {
		return er, err
	}
	er.Benefits = benefits

	er.TotalDeductions = er.Deductions.Total()
	er.NetPay = gross.Sub(er.TotalDeductions)
	return er, nil
}

// benefits 福利明细（雇主承担）
// 说明：退休金匹配 = min(员工缴存 × 匹配比例, 应发 × 匹配上限比例)
func (p *Processor) benefits(e *Employee, gross decimal.Decimal) (Lines, error) {
	var items Lines
	if e.HealthInsurancePlan {
		items = append(items, LineItem{Name: "health_insurance_employer", Amount: p.policy.HealthInsuranceEmployer})
	}
	if e.RetirementContribution.IsPositive() {
		rate := p.policy.RetirementMatchRate
		if e.RetirementMatchRate.Valid {
			rate = e.RetirementMatchRate.Decimal
		}
		match, err := bracket.ComputeCappedRateAmount(e.RetirementContribution,
			bracket.NewCappedRate(rate, gross.Mul(p.policy.RetirementMatchCeiling)))
		if err != nil {
			return nil, fmt.Errorf("retirement_matching: %w", err)
		}
		items = append(items, LineItem{Name: "retirement_matching", Amount: match})
	}
	if e.LifeInsuranceCoverage {
		items = append(items, LineItem{Name: "life_insurance_premium", Amount: p.policy.LifeInsurancePremium})
	}
	return positive(items), nil
}

func (p *Processor) compliance(run *Run, s *jurisdiction.Schedule, employees []EmployeeResult, at time.Time) Compliance {
	byCategory := make(map[jurisdiction.Category]decimal.Decimal)
	for _, er := range employees {
		for _, item := range er.Deductions {
			c := er.categories[item.Name]
			byCategory[c] = byCategory[c].Add(item.Amount)
		}
	}
	return Compliance{
		TaxSummary: TaxSummary{
			TotalIncomeTaxWithheld: byCategory[jurisdiction.CategoryIncomeTax],
			TotalSocialSecurity:    byCategory[jurisdiction.CategorySocialSecurity],
			ByCategory:             byCategory,
			ComplianceStatus:       statusCompliant,
		},
		Filings: lo.Map(s.Filings, func(form string, _ int) Filing {
			return Filing{Form: form, Status: statusPending}
		}),
		AuditTrail: AuditTrail{
			ProcessedBy:            lo.CoalesceOrEmpty(run.ProcessedBy, defaultProcessedBy),
			ApprovedBy:             run.ApprovedBy,
			ProcessedAt:            at,
			ValidationChecksPassed: true,
		},
	}
}

func positive(items Lines) Lines {
	return lo.FilterMap(items, func(item LineItem, _ int) (LineItem, bool) {
		item.Amount = bracket.Round(item.Amount)
		return item, item.Amount.IsPositive()
	})
}
