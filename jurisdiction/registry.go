package jurisdiction

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
)

// ErrUnknownJurisdiction 请求的辖区代码不存在
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// Registry 辖区配置表
// 功能：辖区代码到已校验辖区配置的映射
// 说明：进程启动时构造一次，之后只读，可并发访问无需加锁
type Registry struct {
	schedules   map[string]*Schedule
	defaultCode string
}

// NewRegistry 创建辖区配置表
// 参数：schedules-辖区配置，defaultCode-请求未指定辖区时使用的代码
// 返回：配置表，代码重复或默认辖区不存在时返回错误
func NewRegistry(schedules []*Schedule, defaultCode string) (*Registry, error) {
	r := &Registry{
		schedules:   make(map[string]*Schedule, len(schedules)),
		defaultCode: defaultCode,
	}
	for _, s := range schedules {
		if _, exists := r.schedules[s.Code]; exists {
			return nil, fmt.Errorf("jurisdiction %s already exists", s.Code)
		}
		r.schedules[s.Code] = s
	}
	if _, ok := r.schedules[defaultCode]; !ok {
		return nil, fmt.Errorf("default jurisdiction %s: %w", defaultCode, ErrUnknownJurisdiction)
	}
	return r, nil
}

// NewRegistryFromSpecs 由配置创建辖区配置表，同代码的后者覆盖前者
func NewRegistryFromSpecs(specs []config.Jurisdiction, defaultCode string) (*Registry, error) {
	byCode := make(map[string]*Schedule, len(specs))
	order := make([]string, 0, len(specs))
	for _, spec := range specs {
		s, err := FromSpec(spec)
		if err != nil {
			return nil, err
		}
		if _, exists := byCode[s.Code]; exists {
			log.Warnf("jurisdiction %s overridden by later definition", s.Code)
		} else {
			order = append(order, s.Code)
		}
		byCode[s.Code] = s
	}
	return NewRegistry(lo.Map(order, func(code string, _ int) *Schedule {
		return byCode[code]
	}), defaultCode)
}

// Lookup 获取辖区配置，code为空时返回默认辖区
func (r *Registry) Lookup(code string) (*Schedule, error) {
	if code == "" {
		code = r.defaultCode
	}
	s, ok := r.schedules[code]
	if !ok {
		return nil, fmt.Errorf("jurisdiction %s: %w", code, ErrUnknownJurisdiction)
	}
	return s, nil
}

// Default 默认辖区代码
func (r *Registry) Default() string {
	return r.defaultCode
}

// Codes 按字典序返回所有辖区代码
func (r *Registry) Codes() []string {
	codes := lo.Keys(r.schedules)
	slices.Sort(codes)
	return codes
}
