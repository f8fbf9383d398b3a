package service

import (
	"context"

	"connectrpc.com/connect"
	economyv2 "git.fiblab.net/sim/protos/v2/go/city/economy/v2"
	"github.com/shopspring/decimal"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bracket"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/ecosim"
)

const taxService = "tax"

// ComputeTaxRequest 税额计算请求
// 说明：Brackets非空时使用请求给出的税率表，否则使用Jurisdiction（为空取默认辖区）的所得税项；
// PeriodsPerYear非0时Amount为周期金额，按年化计算后折回
type ComputeTaxRequest struct {
	Amount         decimal.Decimal     `json:"amount"`
	Jurisdiction   string              `json:"jurisdiction,omitempty"`
	Brackets       []bracket.Bracket   `json:"brackets,omitempty"`
	PeriodsPerYear int64               `json:"periods_per_year,omitempty"`
	CappedRate     *bracket.CappedRate `json:"capped_rate,omitempty"`
}

// TaxLine 一项税额
type TaxLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// ComputeTaxResponse 税额计算结果
type ComputeTaxResponse struct {
	Envelope
	Jurisdiction string           `json:"jurisdiction,omitempty"`
	Taxes        []TaxLine        `json:"taxes"`
	Total        decimal.Decimal  `json:"total"`
	CappedAmount *decimal.Decimal `json:"capped_amount,omitempty"`
}

// ComputeTax 计算累进税额与可选的封顶比例扣缴额
func (s *Server) ComputeTax(ctx context.Context, req *connect.Request[ComputeTaxRequest]) (*connect.Response[ComputeTaxResponse], error) {
	c, err := s.begin(req.Header(), taxService)
	if err != nil {
		return nil, connectError(err)
	}
	in := req.Msg
	res := &ComputeTaxResponse{}

	if len(in.Brackets) > 0 {
		table, err := bracket.NewTable(in.Brackets...)
		if err != nil {
			// 请求自带的税率表非法属于参数错误
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		amount, err := compute(table, in.Amount, in.PeriodsPerYear)
		if err != nil {
			return nil, connectError(err)
		}
		res.Taxes = append(res.Taxes, TaxLine{Name: "progressive", Amount: amount})
	} else {
		schedule, err := s.registry.Lookup(in.Jurisdiction)
		if err != nil {
			return nil, connectError(err)
		}
		res.Jurisdiction = schedule.Code
		periods := in.PeriodsPerYear
		for _, term := range schedule.IncomeTaxes {
			var amount decimal.Decimal
			if periods != 0 {
				amount, err = term.Amount(in.Amount, periods)
			} else {
				amount, err = term.Table.Compute(in.Amount)
			}
			if err != nil {
				return nil, connectError(err)
			}
			res.Taxes = append(res.Taxes, TaxLine{Name: term.Name, Amount: amount})
		}
	}
	for _, t := range res.Taxes {
		res.Total = res.Total.Add(t.Amount)
	}

	if in.CappedRate != nil {
		var amount decimal.Decimal
		if in.PeriodsPerYear != 0 {
			amount, err = bracket.ComputePeriodCappedRateAmount(in.Amount, in.PeriodsPerYear, *in.CappedRate)
		} else {
			amount, err = bracket.ComputeCappedRateAmount(in.Amount, *in.CappedRate)
		}
		if err != nil {
			return nil, connectError(err)
		}
		res.CappedAmount = &amount
	}
	res.Envelope = c.done()
	return connect.NewResponse(res), nil
}

func compute(table bracket.Table, amount decimal.Decimal, periods int64) (decimal.Decimal, error) {
	if periods != 0 {
		return table.ComputePeriodProgressive(amount, periods)
	}
	return table.Compute(amount)
}

// CalculateTaxesDueRequest 经济模拟器批量计税请求
// 说明：切分点或税率为空时使用经济模拟器的默认税率表
type CalculateTaxesDueRequest struct {
	Incomes              []decimal.Decimal `json:"incomes"`
	BracketCutoffs       []float32         `json:"bracket_cutoffs,omitempty"`
	BracketRates         []float32         `json:"bracket_rates,omitempty"`
	EnableRedistribution bool              `json:"enable_redistribution,omitempty"`
}

// CalculateTaxesDueResponse 批量计税结果
type CalculateTaxesDueResponse struct {
	Envelope
	Collection *ecosim.Collection `json:"collection"`
}

// CalculateTaxesDue 按政府税率表批量计算代理应缴税额
func (s *Server) CalculateTaxesDue(ctx context.Context, req *connect.Request[CalculateTaxesDueRequest]) (*connect.Response[CalculateTaxesDueResponse], error) {
	c, err := s.begin(req.Header(), taxService)
	if err != nil {
		return nil, connectError(err)
	}
	table, err := ecosim.TableFromGovernment(&economyv2.Government{
		BracketCutoffs: req.Msg.BracketCutoffs,
		BracketRates:   req.Msg.BracketRates,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	collection, err := ecosim.CollectTaxes(table, req.Msg.Incomes, req.Msg.EnableRedistribution)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&CalculateTaxesDueResponse{
		Envelope:   c.done(),
		Collection: collection,
	}), nil
}
