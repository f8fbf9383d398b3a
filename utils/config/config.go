package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	defaultRegion = "US"
)

// RuntimeConfig 运行时配置
// 功能：存储服务运行时的配置信息，已填充默认值
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：复制原始配置并为未指定的控制项填充默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	if rc.C.DefaultRegion == "" {
		rc.C.DefaultRegion = defaultRegion
	}

	return rc
}

// Parse 严格解析YAML配置，未知字段报错
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return Config{}, fmt.Errorf("config parse err: %w", err)
	}
	return c, nil
}

// Load 从文件路径或Base64编码数据加载配置，路径优先
func Load(path string, encoded string) (Config, error) {
	var file []byte
	var err error
	switch {
	case path != "":
		file, err = os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file load err: %w", err)
		}
	case encoded != "":
		file, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return Config{}, fmt.Errorf("config data load err: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("config file or config data must be specified")
	}
	return Parse(file)
}
