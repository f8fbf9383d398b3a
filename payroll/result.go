package payroll

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
)

// LineItem 一条明细
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Lines 有序明细列表
type Lines []LineItem

// Total 明细合计
func (l Lines) Total() decimal.Decimal {
	return lo.Reduce(l, func(acc decimal.Decimal, item LineItem, _ int) decimal.Decimal {
		return acc.Add(item.Amount)
	}, decimal.Zero)
}

// Get 按名称取金额，不存在时为0
func (l Lines) Get(name string) decimal.Decimal {
	item, ok := lo.Find(l, func(item LineItem) bool { return item.Name == name })
	if !ok {
		return decimal.Zero
	}
	return item.Amount
}

// Has 是否存在指定名称的明细
func (l Lines) Has(name string) bool {
	return lo.ContainsBy(l, func(item LineItem) bool { return item.Name == name })
}

// Period 发薪周期
type Period struct {
	Start   string `json:"start_date"`
	End     string `json:"end_date"`
	PayDate string `json:"pay_date,omitempty"`
}

// EmployeeResult 单个员工的计算结果
type EmployeeResult struct {
	EmployeeID      string          `json:"employee_id"`
	Name            string          `json:"employee_name"`
	Earnings        Lines           `json:"earnings"`
	Deductions      Lines           `json:"deductions"`
	Benefits        Lines           `json:"benefits"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	Currency        string          `json:"currency"`

	categories map[string]jurisdiction.Category
}

// Summary 批次汇总
type Summary struct {
	TotalEmployees  int             `json:"total_employees"`
	TotalGrossPay   decimal.Decimal `json:"total_gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNetPay     decimal.Decimal `json:"total_net_pay"`
	Currency        string          `json:"currency"`
}

// EmployerLiabilities 雇主负担
type EmployerLiabilities struct {
	TotalGrossPayroll decimal.Decimal `json:"total_gross_payroll"`
	Contributions     Lines           `json:"contributions"` // 按扣缴项汇总的雇主缴费
	EmployerTaxes     decimal.Decimal `json:"employer_taxes"`
	BenefitsCost      decimal.Decimal `json:"benefits_cost"`
	TotalEmployerCost decimal.Decimal `json:"total_employer_cost"`
	Region            string          `json:"region"`
	Currency          string          `json:"currency"`
}

// TaxSummary 扣缴汇总
type TaxSummary struct {
	TotalIncomeTaxWithheld decimal.Decimal                           `json:"total_income_tax_withheld"`
	TotalSocialSecurity    decimal.Decimal                           `json:"total_social_security"`
	ByCategory             map[jurisdiction.Category]decimal.Decimal `json:"by_category"`
	ComplianceStatus       string                                    `json:"compliance_status"`
}

// Filing 待申报表单
type Filing struct {
	Form   string `json:"form"`
	Status string `json:"status"`
}

// AuditTrail 审计记录
type AuditTrail struct {
	ProcessedBy            string    `json:"processed_by"`
	ApprovedBy             string    `json:"approved_by,omitempty"`
	ProcessedAt            time.Time `json:"processing_timestamp"`
	ValidationChecksPassed bool      `json:"validation_checks_passed"`
}

// Compliance 合规报告
type Compliance struct {
	TaxSummary TaxSummary `json:"tax_summary"`
	Filings    []Filing   `json:"regulatory_filings"`
	AuditTrail AuditTrail `json:"audit_trail"`
}

// Result 薪资批次计算结果
type Result struct {
	PayrollID           string              `json:"payroll_id"`
	TenantID            string              `json:"tenant_id"`
	Period              Period              `json:"processing_period"`
	Summary             Summary             `json:"summary"`
	Employees           []EmployeeResult    `json:"employee_results"`
	Compliance          Compliance          `json:"compliance"`
	EmployerLiabilities EmployerLiabilities `json:"employer_liabilities"`
	ProcessedAt         time.Time           `json:"processed_at"`
}
