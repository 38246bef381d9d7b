package configs

import (
	"embed"
	"fmt"
)

// EmbeddedConfigs 嵌入的配置文件内容
type EmbeddedConfigs struct {
	Development []byte
	Testing     []byte
	Production  []byte
}

//go:embed development/config.json
var developmentConfig []byte

//go:embed testing/config.json
var testingConfig []byte

//go:embed production/config.json
var productionConfig []byte

// DirectoryFS 内置合约目录：directory.json 与各合约的 ABI 文件
//
//go:embed directory/*.json
var DirectoryFS embed.FS

// DirectoryIndex DirectoryFS 中目录索引文件的路径
const DirectoryIndex = "directory/directory.json"

// GetEmbeddedConfigs 获取所有嵌入的配置
func GetEmbeddedConfigs() *EmbeddedConfigs {
	return &EmbeddedConfigs{
		Development: developmentConfig,
		Testing:     testingConfig,
		Production:  productionConfig,
	}
}

// ForEnvironment 按环境名（dev | test | prod）取嵌入配置
func ForEnvironment(env string) ([]byte, error) {
	switch env {
	case "", "dev", "development":
		return developmentConfig, nil
	case "test", "testing":
		return testingConfig, nil
	case "prod", "production":
		return productionConfig, nil
	default:
		return nil, fmt.Errorf("unknown environment %q", env)
	}
}
