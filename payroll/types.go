package payroll

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/validate"
)

// ErrInvalidRun 薪资批次或员工记录校验失败
var ErrInvalidRun = errors.New("invalid payroll run")

const dateLayout = "2006-01-02"

// MaxEmployees 单个批次的员工数上限
const MaxEmployees = 1000

var validator = validate.New()

// Level 员工职级
type Level string

const (
	LevelStaff   Level = "staff"
	LevelSenior  Level = "senior"
	LevelManager Level = "manager"
)

// Employee 员工薪资记录
type Employee struct {
	ID                       string                     `json:"employee_id" validate:"required"`
	Name                     string                     `json:"name,omitempty"`
	BaseSalary               decimal.Decimal            `json:"base_salary" validate:"gt=0"`
	Level                    Level                      `json:"level,omitempty"`
	OvertimeHours            decimal.Decimal            `json:"overtime_hours" validate:"gte=0"`
	Commission               decimal.Decimal            `json:"commission" validate:"gte=0"`
	Bonus                    decimal.Decimal            `json:"bonus" validate:"gte=0"`
	HasTransportAllowance    bool                       `json:"has_transport_allowance,omitempty"`
	HasMealAllowance         bool                       `json:"has_meal_allowance,omitempty"`
	HealthInsuranceDeduction decimal.Decimal            `json:"health_insurance_deduction" validate:"gte=0"`
	LoanEMI                  decimal.Decimal            `json:"loan_emi" validate:"gte=0"`
	VoluntaryDeductions      map[string]decimal.Decimal `json:"voluntary_deductions,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
	HealthInsurancePlan      bool                       `json:"health_insurance_plan,omitempty"`
	RetirementContribution   decimal.Decimal            `json:"retirement_contribution" validate:"gte=0"`
	RetirementMatchRate      decimal.NullDecimal        `json:"retirement_match_rate"`
	LifeInsuranceCoverage    bool                       `json:"life_insurance_coverage,omitempty"`
}

// EmployeeOption 员工记录可选项
type EmployeeOption func(*Employee)

func WithName(name string) EmployeeOption {
	return func(e *Employee) { e.Name = name }
}

func WithLevel(level Level) EmployeeOption {
	return func(e *Employee) { e.Level = level }
}

func WithOvertime(hours decimal.Decimal) EmployeeOption {
	return func(e *Employee) { e.OvertimeHours = hours }
}

func WithBonus(bonus decimal.Decimal) EmployeeOption {
	return func(e *Employee) { e.Bonus = bonus }
}

func WithCommission(commission decimal.Decimal) EmployeeOption {
	return func(e *Employee) { e.Commission = commission }
}

func WithAllowances(transport, meal bool) EmployeeOption {
	return func(e *Employee) {
		e.HasTransportAllowance = transport
		e.HasMealAllowance = meal
	}
}

func WithHealthInsurance(deduction decimal.Decimal, employerPlan bool) EmployeeOption {
	return func(e *Employee) {
		e.HealthInsuranceDeduction = deduction
		e.HealthInsurancePlan = employerPlan
	}
}

func WithLoanEMI(amount decimal.Decimal) EmployeeOption {
	return func(e *Employee) { e.LoanEMI = amount }
}

func WithVoluntaryDeduction(name string, amount decimal.Decimal) EmployeeOption {
	return func(e *Employee) {
		if e.VoluntaryDeductions == nil {
			e.VoluntaryDeductions = make(map[string]decimal.Decimal)
		}
		e.VoluntaryDeductions[name] = amount
	}
}

// WithRetirement 设置退休金缴存，matchRate为空时使用策略默认匹配比例
func WithRetirement(contribution decimal.Decimal, matchRate decimal.NullDecimal) EmployeeOption {
	return func(e *Employee) {
		e.RetirementContribution = contribution
		e.RetirementMatchRate = matchRate
	}
}

func WithLifeInsurance() EmployeeOption {
	return func(e *Employee) { e.LifeInsuranceCoverage = true }
}

// NewEmployee 创建并校验员工记录
func NewEmployee(id string, baseSalary decimal.Decimal, opts ...EmployeeOption) (*Employee, error) {
	e := &Employee{ID: id, BaseSalary: baseSalary}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate 校验员工记录：ID必填，基本工资大于0，金额非负，匹配比例位于[0,1]
func (e *Employee) Validate() error {
	if err := validator.Struct(e); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRun, validate.Describe(err))
	}
	if r := e.RetirementMatchRate; r.Valid && (r.Decimal.IsNegative() || r.Decimal.GreaterThan(decimal.NewFromInt(1))) {
		return fmt.Errorf("%w: employee %s retirement_match_rate %s out of range [0,1]", ErrInvalidRun, e.ID, r.Decimal)
	}
	return nil
}

// Run 一个薪资批次
type Run struct {
	PeriodStart string     `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string     `json:"period_end" validate:"required,datetime=2006-01-02"`
	PayDate     string     `json:"pay_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Region      string     `json:"region,omitempty"`
	Currency    string     `json:"currency,omitempty"`
	Employees   []Employee `json:"employees" validate:"required,min=1,max=1000,dive"`
	ProcessedBy string     `json:"processed_by,omitempty"`
	ApprovedBy  string     `json:"approved_by,omitempty"`
}

// NewRun 创建并校验薪资批次
func NewRun(periodStart, periodEnd, region string, employees ...Employee) (*Run, error) {
	r := &Run{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Region:      region,
		Employees:   employees,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate 校验薪资批次：周期日期必填且结束不早于开始，员工数1~1000，员工ID不重复
func (r *Run) Validate() error {
	if err := validator.Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRun, validate.Describe(err))
	}
	start, _ := time.Parse(dateLayout, r.PeriodStart)
	end, _ := time.Parse(dateLayout, r.PeriodEnd)
	if end.Before(start) {
		return fmt.Errorf("%w: period_end %s before period_start %s", ErrInvalidRun, r.PeriodEnd, r.PeriodStart)
	}
	seen := make(map[string]struct{}, len(r.Employees))
	for i := range r.Employees {
		e := &r.Employees[i]
		if err := e.Validate(); err != nil {
			return fmt.Errorf("employee %d: %w", i+1, err)
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("%w: duplicated employee_id %s", ErrInvalidRun, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
