package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/forecast"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/payroll"
)

const (
	payrollService  = "payroll"
	forecastService = "forecast"
)

// ProcessPayrollResponse 薪资批处理结果
type ProcessPayrollResponse struct {
	Envelope
	Result *payroll.Result `json:"result"`
}

// ProcessPayroll 计算一个薪资批次
func (s *Server) ProcessPayroll(ctx context.Context, req *connect.Request[payroll.Run]) (*connect.Response[ProcessPayrollResponse], error) {
	c, err := s.begin(req.Header(), payrollService)
	if err != nil {
		return nil, connectError(err)
	}
	result, err := s.processor.Process(ctx, c.env.TenantID, req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ProcessPayrollResponse{
		Envelope: c.done(),
		Result:   result,
	}), nil
}

// OptimizeBOMResponse 物料清单优化结果
type OptimizeBOMResponse struct {
	Envelope
	Report *bom.Report `json:"report"`
}

// OptimizeBOM 分析物料清单并给出优化建议
func (s *Server) OptimizeBOM(ctx context.Context, req *connect.Request[bom.BOM]) (*connect.Response[OptimizeBOMResponse], error) {
	c, err := s.begin(req.Header(), payrollService)
	if err != nil {
		return nil, connectError(err)
	}
	report, err := s.optimizer.Run(ctx, req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&OptimizeBOMResponse{
		Envelope: c.done(),
		Report:   report,
	}), nil
}

// ExecuteForecastResponse 财务预测结果
type ExecuteForecastResponse struct {
	Envelope
	Result *forecast.Result `json:"result"`
}

// ExecuteForecast 执行带种子的财务预测
func (s *Server) ExecuteForecast(ctx context.Context, req *connect.Request[forecast.Request]) (*connect.Response[ExecuteForecastResponse], error) {
	c, err := s.begin(req.Header(), forecastService)
	if err != nil {
		return nil, connectError(err)
	}
	result, err := forecast.Execute(ctx, req.Msg)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&ExecuteForecastResponse{
		Envelope: c.done(),
		Result:   result,
	}), nil
}
