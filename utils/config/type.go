package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：File优先级高于MongoDB
type InputPath struct {
	DB   string `yaml:"db"`             // 数据库名
	Col  string `yaml:"col"`            // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// EconomyInput 从经济模拟器政府快照导入税率表
// 功能：读取economyv2.Government的protobuf文件，作为一个额外的税务辖区
type EconomyInput struct {
	File           string `yaml:"file"`                       // Government protobuf文件
	Code           string `yaml:"code"`                       // 辖区代码
	Currency       string `yaml:"currency,omitempty"`         // 币种
	PeriodsPerYear int64  `yaml:"periods_per_year,omitempty"` // 切分点已是周期口径时为1
}

// Input 指定所有输入数据的配置项
type Input struct {
	URI           string        `yaml:"uri,omitempty"`           // MongoDB连接字符串
	Jurisdictions *InputPath    `yaml:"jurisdictions,omitempty"` // 税务辖区表
	Economy       *EconomyInput `yaml:"economy,omitempty"`       // 经济模拟器政府
}

// BracketSpec 税率档位配置
type BracketSpec struct {
	LowerBound float64 `yaml:"lower_bound" bson:"lower_bound"`
	Rate       float64 `yaml:"rate" bson:"rate"`
}

// ProgressiveSpec 累进计税项配置
type ProgressiveSpec struct {
	Name     string        `yaml:"name" bson:"name"`
	Category string        `yaml:"category,omitempty" bson:"category,omitempty"`
	Brackets []BracketSpec `yaml:"brackets" bson:"brackets"`
}

// ContributionSpec 比例扣缴项配置
// 说明：Basis为period时在周期金额上计算，为annual时先年化计算再折回周期；
// Cap与Basis口径一致
type ContributionSpec struct {
	Name              string   `yaml:"name" bson:"name"`
	Category          string   `yaml:"category,omitempty" bson:"category,omitempty"`
	Rate              float64  `yaml:"rate" bson:"rate"`
	Cap               *float64 `yaml:"cap,omitempty" bson:"cap,omitempty"`
	Basis             string   `yaml:"basis,omitempty" bson:"basis,omitempty"`
	EligibleAnnualMin *float64 `yaml:"eligible_annual_min,omitempty" bson:"eligible_annual_min,omitempty"` // 年化金额须大于该值
	EligibleAnnualMax *float64 `yaml:"eligible_annual_max,omitempty" bson:"eligible_annual_max,omitempty"` // 年化金额须不大于该值
	PayrollAnnualMin  *float64 `yaml:"payroll_annual_min,omitempty" bson:"payroll_annual_min,omitempty"`   // 整批年化工资总额须大于该值
}

// FlatSpec 固定金额扣缴项配置
type FlatSpec struct {
	Name     string  `yaml:"name" bson:"name"`
	Category string  `yaml:"category,omitempty" bson:"category,omitempty"`
	Amount   float64 `yaml:"amount" bson:"amount"`
}

// Jurisdiction 税务辖区配置
type Jurisdiction struct {
	Code                  string             `yaml:"code" bson:"code"`
	Currency              string             `yaml:"currency" bson:"currency"`
	PeriodsPerYear        int64              `yaml:"periods_per_year,omitempty" bson:"periods_per_year,omitempty"`
	IncomeTaxes           []ProgressiveSpec  `yaml:"income_taxes,omitempty" bson:"income_taxes,omitempty"`
	Contributions         []ContributionSpec `yaml:"contributions,omitempty" bson:"contributions,omitempty"`
	FlatDeductions        []FlatSpec         `yaml:"flat_deductions,omitempty" bson:"flat_deductions,omitempty"`
	EmployerContributions []ContributionSpec `yaml:"employer_contributions,omitempty" bson:"employer_contributions,omitempty"`
	Filings               []string           `yaml:"filings,omitempty" bson:"filings,omitempty"`
}

// Control 服务控制配置
type Control struct {
	DefaultRegion   string `yaml:"default_region,omitempty"`   // 请求未指定辖区时使用，默认US
	DefaultCurrency string `yaml:"default_currency,omitempty"` // 请求未指定币种时使用，默认辖区币种
}

// Payroll 薪资计算策略配置，零值字段使用默认值
type Payroll struct {
	StandardHours           float64 `yaml:"standard_hours,omitempty"`
	OvertimeMultiplier      float64 `yaml:"overtime_multiplier,omitempty"`
	ManagementAllowanceRate float64 `yaml:"management_allowance_rate,omitempty"`
	TransportAllowance      float64 `yaml:"transport_allowance,omitempty"`
	MealAllowance           float64 `yaml:"meal_allowance,omitempty"`
	HealthInsuranceEmployer float64 `yaml:"health_insurance_employer,omitempty"`
	RetirementMatchRate     float64 `yaml:"retirement_match_rate,omitempty"`
	RetirementMatchCeiling  float64 `yaml:"retirement_match_ceiling,omitempty"`
	LifeInsurancePremium    float64 `yaml:"life_insurance_premium,omitempty"`
}

// BOM 物料清单分析阈值配置，零值字段使用默认值
type BOM struct {
	HighCostShare       float64 `yaml:"high_cost_share,omitempty"`       // 成本占比阈值（百分比）
	NegotiationSavings  float64 `yaml:"negotiation_savings,omitempty"`   // 议价节省比例
	LongLeadTimeDays    int32   `yaml:"long_lead_time_days,omitempty"`   // 长交期阈值
	RiskPremium         float64 `yaml:"risk_premium,omitempty"`          // 备选供应商风险溢价
	DesignReviewShare   float64 `yaml:"design_review_share,omitempty"`   // 设计评审成本占比阈值（百分比）
	ConsolidationFactor float64 `yaml:"consolidation_factor,omitempty"`  // 合并设计数量缩减比例
	DefaultAnnualVolume int64   `yaml:"default_annual_volume,omitempty"` // 未指定年产量时使用
}

// Config YAML配置文件的根结构
type Config struct {
	Input         Input          `yaml:"input,omitempty"`         // 输入
	Control       Control        `yaml:"control,omitempty"`       // 服务控制
	Payroll       Payroll        `yaml:"payroll,omitempty"`       // 薪资策略
	BOM           BOM            `yaml:"bom,omitempty"`           // 物料清单策略
	Jurisdictions []Jurisdiction `yaml:"jurisdictions,omitempty"` // 内联税务辖区表，与input中的来源合并
}
