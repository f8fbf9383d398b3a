package task

import (
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/bom"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/payroll"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/service"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/input"
)

// waitForServerReady 等待服务器就绪
// 功能：通过HTTP请求检查服务器是否已经启动并可以响应
// 参数：addr-服务器地址，retryCount-重试次数，interval-重试间隔
// 返回：错误信息，如果服务器就绪则返回nil
// 算法说明：
// 1. 创建HTTP客户端，设置超时时间
// 2. 循环发送GET请求到指定地址
// 3. 如果请求成功，关闭响应体并返回nil
// 4. 如果请求失败，等待指定间隔后重试
// 5. 达到最大重试次数后返回错误
func waitForServerReady(addr string, retryCount int, interval time.Duration) error {
	client := &http.Client{
		Timeout: interval,
	}
	for range retryCount {
		resp, err := client.Get(addr)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("server `%v` did not become ready after %d retries", addr, retryCount)
}

// Context 服务任务上下文
// 功能：包含一次服务任务的所有组件和状态
// 说明：管理辖区配置、薪资处理器、物料清单优化器、RPC服务与sidecar
type Context struct {
	// 任务名
	job string
	// 监听地址
	listenAddr string
	// 关闭指令
	closed atomic.Bool

	// 辅助程序，处理分布式模式下相关调用，包括与syncer、其他服务的交互
	sidecar *syncer.Sidecar
	// sidecar是否由本任务启动
	serving bool
	// sidecar服务退出后关闭
	sidecarCloseCh chan struct{}

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 用于初始化的输入
	initRes *input.Input

	// 税务辖区配置表
	registry *jurisdiction.Registry
	// RPC服务
	server *service.Server
}

// NewContext 创建新的服务任务上下文
// 功能：加载税务辖区数据并组装所有服务组件
// 参数：
//   - job: 任务名称
//   - listenAddr: 服务监听地址，用于就绪检查
//   - c: 配置对象
//   - sidecar: 外部sidecar实例
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 加载税务辖区数据（内置默认、文件、MongoDB、内联、经济模拟器政府快照）
// 2. 填充运行时配置默认值并建立辖区配置表
// 3. 创建薪资处理器、物料清单优化器与RPC指标
// 4. 注册RPC服务到sidecar
// 5. 启动sidecar服务（如果需要）
func NewContext(
	job string,
	listenAddr string,
	c config.Config,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) *Context {
	ctx := &Context{
		job:            job,
		listenAddr:     listenAddr,
		sidecar:        sidecar,
		serving:        startSidecarServe,
		sidecarCloseCh: make(chan struct{}),
	}

	ctx.initRes = input.Init(c)
	ctx.runtimeConfig = config.NewRuntimeConfig(c)

	registry, err := jurisdiction.NewRegistryFromSpecs(ctx.initRes.Jurisdictions, ctx.runtimeConfig.C.DefaultRegion)
	if err != nil {
		log.Panicf("failed to build jurisdiction registry: %v", err)
	}
	ctx.registry = registry
	log.Infof("Jurisdiction: %v (default %s)", registry.Codes(), registry.Default())

	processor := payroll.NewProcessor(
		registry,
		payroll.PolicyFromConfig(c.Payroll),
		payroll.WithDefaultCurrency(ctx.runtimeConfig.C.DefaultCurrency),
	)
	optimizer := bom.NewOptimizer(bom.PolicyFromConfig(c.BOM))
	ctx.server = service.NewServer(processor, optimizer, service.NewMetrics(nil))
	ctx.server.Register(ctx.sidecar)

	// sidecar协程，用于提供RPC服务
	if startSidecarServe {
		go func() {
			err := ctx.sidecar.Serve()
			if err != nil {
				log.Panicf("failed to serve: %v", err)
			}
			close(ctx.sidecarCloseCh)
		}()
	}

	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Registry() *jurisdiction.Registry {
	return ctx.registry
}

func (ctx *Context) Server() *service.Server {
	return ctx.server
}

// readyURL 就绪检查地址，监听地址省略主机时使用localhost
func (ctx *Context) readyURL() string {
	addr := ctx.listenAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return addr + service.MetricsPath
}

func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	ctx.sidecar.Close()
	if ctx.serving {
		// wait for graceful stop
		<-ctx.sidecarCloseCh
	}
}
