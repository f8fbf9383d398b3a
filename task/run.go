package task

import (
	"flag"
	"time"
)

const (
	SelfName = "payroll" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Duration("log.heartbeat_interval", time.Minute, "心跳日志间隔")
	readyRetry        = flag.Int("ready.retry", 50, "等待服务就绪的最大重试次数")
)

// Run 运行
// 功能：等待RPC服务就绪后周期输出心跳日志，直到收到停止信号或服务退出
// 参数：quit-停止信号
// 说明：服务无步进状态，请求由sidecar直接分发到各处理器
func (ctx *Context) Run(quit <-chan struct{}) {
	if ctx.serving {
		if err := waitForServerReady(ctx.readyURL(), *readyRetry, 100*time.Millisecond); err != nil {
			log.Panicf("%v", err)
		}
	}
	log.Infof("job %s ready, listening on %s", ctx.job, ctx.listenAddr)

	ticker := time.NewTicker(*heartBeatInterval)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ticker.C:
			log.Infof("HEARTBEAT: jurisdictions=%d", len(ctx.registry.Codes()))
		case <-ctx.sidecarCloseCh:
			break loop
		case <-quit:
			break loop
		}
	}
	log.Infof("service complete")
	ctx.Close()
}
