// 租户隔离的connect RPC服务：税额计算、薪资批处理、物料清单优化与财务预测
package service

import (
	"net/http"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/payroll"
)

const (
	TaxServiceName         = "payroll.v1.TaxService"
	PayrollServiceName     = "payroll.v1.PayrollService"
	ForecastServiceName    = "payroll.v1.ForecastService"
	IntegrationServiceName = "payroll.v1.IntegrationService"
	MetricsServiceName     = "payroll.v1.Metrics"
)

const (
	ComputeTaxProcedure        = "/" + TaxServiceName + "/ComputeTax"
	CalculateTaxesDueProcedure = "/" + TaxServiceName + "/CalculateTaxesDue"
	ProcessPayrollProcedure    = "/" + PayrollServiceName + "/ProcessPayroll"
	OptimizeBOMProcedure       = "/" + PayrollServiceName + "/OptimizeBOM"
	ExecuteForecastProcedure   = "/" + ForecastServiceName + "/ExecuteForecast"
	HealthProcedure            = "/" + IntegrationServiceName + "/Health"
	CapabilitiesProcedure      = "/" + IntegrationServiceName + "/Capabilities"
)

// Server RPC服务实现
// 说明：除租户会话表外不持有可变状态
type Server struct {
	registry  *jurisdiction.Registry
	processor *payroll.Processor
	optimizer *bom.Optimizer
	metrics   *Metrics
	sessions  *sessions
}

// NewServer 创建RPC服务
// 参数：processor-薪资批处理器（其辖区配置表同时用于税额计算），optimizer-物料清单优化器，metrics-RPC指标，可为nil
func NewServer(processor *payroll.Processor, optimizer *bom.Optimizer, metrics *Metrics) *Server {
	return &Server{
		registry:  processor.Registry(),
		processor: processor,
		optimizer: optimizer,
		metrics:   metrics,
		sessions:  newSessions(),
	}
}

// handlerOptions 追加JSON编解码器与指标拦截器
func (s *Server) handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	if s.metrics != nil {
		opts = append(opts, connect.WithInterceptors(s.metrics.Interceptor()))
	}
	return opts
}

// route 按过程路径分发到各一元处理器
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NewTaxServiceHandler 税额计算服务处理器
func NewTaxServiceHandler(s *Server, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = s.handlerOptions(opts)
	return "/" + TaxServiceName + "/", route(map[string]http.Handler{
		ComputeTaxProcedure:        connect.NewUnaryHandler(ComputeTaxProcedure, s.ComputeTax, opts...),
		CalculateTaxesDueProcedure: connect.NewUnaryHandler(CalculateTaxesDueProcedure, s.CalculateTaxesDue, opts...),
	})
}

// NewPayrollServiceHandler 薪资与物料清单服务处理器
func NewPayrollServiceHandler(s *Server, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = s.handlerOptions(opts)
	return "/" + PayrollServiceName + "/", route(map[string]http.Handler{
		ProcessPayrollProcedure: connect.NewUnaryHandler(ProcessPayrollProcedure, s.ProcessPayroll, opts...),
		OptimizeBOMProcedure:    connect.NewUnaryHandler(OptimizeBOMProcedure, s.OptimizeBOM, opts...),
	})
}

// NewForecastServiceHandler 财务预测服务处理器
func NewForecastServiceHandler(s *Server, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = s.handlerOptions(opts)
	return "/" + ForecastServiceName + "/", route(map[string]http.Handler{
		ExecuteForecastProcedure: connect.NewUnaryHandler(ExecuteForecastProcedure, s.ExecuteForecast, opts...),
	})
}

// NewIntegrationServiceHandler 健康检查与能力查询服务处理器
func NewIntegrationServiceHandler(s *Server, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = s.handlerOptions(opts)
	return "/" + IntegrationServiceName + "/", route(map[string]http.Handler{
		HealthProcedure:       connect.NewUnaryHandler(HealthProcedure, s.Health, opts...),
		CapabilitiesProcedure: connect.NewUnaryHandler(CapabilitiesProcedure, s.Capabilities, opts...),
	})
}

type handlerFactory func(s *Server, opts ...connect.HandlerOption) (string, http.Handler)

var factories = []struct {
	name    string
	factory handlerFactory
}{
	{TaxServiceName, NewTaxServiceHandler},
	{PayrollServiceName, NewPayrollServiceHandler},
	{ForecastServiceName, NewForecastServiceHandler},
	{IntegrationServiceName, NewIntegrationServiceHandler},
}

// Register 将所有服务（及指标导出）注册到sidecar
// 说明：服务间无共享的步进状态，均以无锁方式注册
func (s *Server) Register(sidecar *syncer.Sidecar) {
	for _, f := range factories {
		f := f
		sidecar.Register(
			f.name,
			func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
				return f.factory(s, opts...)
			},
			syncer.WithNoLock(),
		)
	}
	if s.metrics != nil {
		sidecar.Register(
			MetricsServiceName,
			func(...connect.HandlerOption) (pattern string, handler http.Handler) {
				return MetricsPath, s.metrics.Handler()
			},
			syncer.WithNoLock(),
		)
	}
}

// Mux 独立的HTTP路由，包含所有服务与指标导出
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	for _, f := range factories {
		mux.Handle(f.factory(s))
	}
	if s.metrics != nil {
		mux.Handle(MetricsPath, s.metrics.Handler())
	}
	return mux
}
