package chain

import "time"

// 链连接默认值（rinkeby 测试网）
const (
	defaultChainID       int64 = 4
	defaultEndpoint            = "http://127.0.0.1:8545"
	defaultTimeout             = 15 * time.Second
	defaultRateLimit           = 10.0
	defaultBurst               = 5
	defaultPrivateKeyEnv       = "TELLIOT_PRIVATE_KEY"
)
