package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fetchoracle/telliot-core-alt/configs"
	"github.com/fetchoracle/telliot-core-alt/pkg/interfaces/config"
	"github.com/fetchoracle/telliot-core-alt/pkg/types"
)

// LoadAppConfig 读取配置
//
// path 非空时读取该文件，否则按 env 取嵌入的默认配置。
func LoadAppConfig(path, env string) (*types.AppConfig, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		data, err = configs.ForEnvironment(env)
		if err != nil {
			return nil, err
		}
	}
	return ParseAppConfig(data)
}

// ParseAppConfig 解析 JSON 配置，未知字段视为错误
func ParseAppConfig(data []byte) (*types.AppConfig, error) {
	var cfg types.AppConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Load 读取并构造配置提供者
func Load(path, env string) (*Provider, error) {
	cfg, err := LoadAppConfig(path, env)
	if err != nil {
		return nil, err
	}
	return NewProvider(cfg)
}

// appOptions AppOptions 的简单实现
type appOptions struct {
	cfg *types.AppConfig
}

// NewAppOptions 包装已加载的应用配置，供 fx 注入
func NewAppOptions(cfg *types.AppConfig) config.AppOptions {
	return &appOptions{cfg: cfg}
}

func (a *appOptions) GetAppConfig() *types.AppConfig { return a.cfg }
