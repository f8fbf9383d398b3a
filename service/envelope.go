package service

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// TenantHeader 请求所属租户
	TenantHeader = "X-Tenant-Id"
	// Version 服务版本
	Version = "1.0.0"
)

var errMissingTenant = errors.New("missing tenant id")

// Envelope 所有响应共有的元数据
type Envelope struct {
	TenantID         string  `json:"tenant_id"`
	SessionID        string  `json:"session_id"`
	Service          string  `json:"service"`
	Version          string  `json:"version"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

// sessions 租户会话表
// 说明：每个租户在进程生命周期内只有一个会话ID，首次请求时创建
type sessions struct {
	mtx sync.Mutex
	ids map[string]string
}

func newSessions() *sessions {
	return &sessions{ids: make(map[string]string)}
}

func (s *sessions) get(tenant string) string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	id, ok := s.ids[tenant]
	if !ok {
		id = uuid.NewString()
		s.ids[tenant] = id
		log.Infof("new session %s for tenant %s", id, tenant)
	}
	return id
}

// call 一次请求的上下文
type call struct {
	env   Envelope
	start time.Time
}

// begin 从请求头取得租户并建立响应元数据
func (s *Server) begin(h http.Header, service string) (*call, error) {
	tenant := strings.TrimSpace(h.Get(TenantHeader))
	if tenant == "" {
		return nil, errMissingTenant
	}
	return &call{
		env: Envelope{
			TenantID:  tenant,
			SessionID: s.sessions.get(tenant),
			Service:   service,
			Version:   Version,
		},
		start: time.Now(),
	}, nil
}

// done 填充处理耗时并返回元数据
func (c *call) done() Envelope {
	c.env.ProcessingTimeMs = float64(time.Since(c.start).Microseconds()) / 1000
	return c.env
}
