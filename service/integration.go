package service

import (
	"context"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/forecast"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/payroll"
)

const integrationService = "integration"

type HealthRequest struct{}

// HealthResponse 健康检查结果
type HealthResponse struct {
	Envelope
	Status           string            `json:"status"`
	Modules          map[string]string `json:"modules"`
	SupportedRegions []string          `json:"supported_regions"`
	DefaultRegion    string            `json:"default_region"`
}

// Health 健康检查
func (s *Server) Health(ctx context.Context, req *connect.Request[HealthRequest]) (*connect.Response[HealthResponse], error) {
	c, err := s.begin(req.Header(), integrationService)
	if err != nil {
		return nil, connectError(err)
	}
	modules := map[string]string{
		"tax_engine":      status(s.registry != nil),
		"payroll_engine":  status(s.processor != nil),
		"bom_optimizer":   status(s.optimizer != nil),
		"forecast_engine": status(true),
		"metrics":         status(s.metrics != nil),
	}
	overall := "healthy"
	for name, st := range modules {
		if st != "healthy" && name != "metrics" {
			overall = "partial"
		}
	}
	return connect.NewResponse(&HealthResponse{
		Envelope:         c.done(),
		Status:           overall,
		Modules:          modules,
		SupportedRegions: s.registry.Codes(),
		DefaultRegion:    s.registry.Default(),
	}), nil
}

func status(ok bool) string {
	if ok {
		return "healthy"
	}
	return "not_initialized"
}

type CapabilitiesRequest struct{}

// CapabilitiesResponse 服务能力
type CapabilitiesResponse struct {
	Envelope
	Capabilities         []string `json:"capabilities"`
	PayrollRegions       []string `json:"payroll_regions"`
	ForecastTypes        []string `json:"forecast_types"`
	MaxForecastMonths    int      `json:"max_forecast_months"`
	MaxEmployeesPerBatch int      `json:"max_employees_per_batch"`
	MaxBOMComponents     int      `json:"max_bom_components"`
	ComplianceStandards  []string `json:"compliance_standards"`
	TenantIsolated       bool     `json:"tenant_isolated"`
}

// Capabilities 查询服务能力
func (s *Server) Capabilities(ctx context.Context, req *connect.Request[CapabilitiesRequest]) (*connect.Response[CapabilitiesResponse], error) {
	c, err := s.begin(req.Header(), integrationService)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&CapabilitiesResponse{
		Envelope: c.done(),
		Capabilities: []string{
			"progressive_tax_calculation",
			"capped_rate_contributions",
			"multi_region_payroll",
			"compliance_reporting",
			"bom_optimization",
			"financial_forecasting",
		},
		PayrollRegions: s.registry.Codes(),
		ForecastTypes: []string{
			string(forecast.TypeRevenue),
			string(forecast.TypeExpenses),
			string(forecast.TypeGrowth),
			string(forecast.TypeComprehensive),
		},
		MaxForecastMonths:    forecast.MaxHorizonMonths,
		MaxEmployeesPerBatch: payroll.MaxEmployees,
		MaxBOMComponents:     bom.MaxComponents,
		ComplianceStandards:  []string{"sox", "gdpr"},
		TenantIsolated:       true,
	}), nil
}
