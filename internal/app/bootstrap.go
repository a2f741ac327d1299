package app

import (
	"os"
	"strconv"
	"time"
)

// Config 存放应用级配置。
// 环境变量优先于默认值；GOOGLE_MAPS_API_KEY 为空时地址查询降级为提示记录。
type Config struct {
	ListenAddr string
	Debug      bool

	DBPath           string
	PlatformRulePath string // 为空时使用内嵌的默认平台目录

	GoogleMapsAPIKey string

	// WifiScanAuthorized 是 WiFi 扫描的授权开关。
	// 扫描会调用宿主机的网络枚举命令（进程外副作用），必须显式打开，默认关闭。
	WifiScanAuthorized bool

	// AdapterTimeout 是单个适配器一次查询的超时上限，
	// 保证单个不可达数据源不会拖垮整个聚合请求。
	AdapterTimeout time.Duration
}

// DefaultConfig 返回本地开发环境的默认配置。
func DefaultConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:5000",
		DBPath:         "data/osint.db",
		AdapterTimeout: 15 * time.Second,
	}
}

// LoadConfig 在默认值基础上套用环境变量。
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.ListenAddr = "0.0.0.0:" + v
	}
	cfg.Debug = getenvBool("OSINT_DEBUG", cfg.Debug)
	if v := os.Getenv("OSINT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OSINT_PLATFORM_RULES"); v != "" {
		cfg.PlatformRulePath = v
	}
	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.WifiScanAuthorized = getenvBool("OSINT_WIFI_AUTHORIZED", cfg.WifiScanAuthorized)
	if v := os.Getenv("OSINT_ADAPTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.AdapterTimeout = d
		}
	}

	return cfg
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
