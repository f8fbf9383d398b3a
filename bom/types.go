// 物料清单成本分析与优化建议
package bom

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/validate"
)

// ErrInvalidBOM 物料清单校验失败
var ErrInvalidBOM = errors.New("invalid bill of materials")

const defaultVersion = "1.0"

// MaxComponents 单个物料清单的物料数上限
const MaxComponents = 500

var validator = validate.New()

// Component 物料
type Component struct {
	PartNumber   string          `json:"part_number" validate:"required"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitCost     decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	Weight       decimal.Decimal `json:"weight" validate:"gte=0"`
	Supplier     string          `json:"supplier,omitempty"`
	LeadTimeDays int32           `json:"lead_time" validate:"gte=0"`
}

// BOM 物料清单
type BOM struct {
	ProductName  string      `json:"product_name" validate:"required"`
	Version      string      `json:"version,omitempty"`
	AnnualVolume int64       `json:"annual_volume,omitempty" validate:"gte=0"`
	Components   []Component `json:"components" validate:"required,min=1,max=500,dive"`
}

// Validate 校验物料清单：产品名必填，物料数1~500，物料编号必填且数量大于0
func (b *BOM) Validate() error {
	if err := validator.Struct(b); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBOM, validate.Describe(err))
	}
	return nil
}
