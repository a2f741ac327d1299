package app

// 构建信息，由 -ldflags 注入；默认值用于本地 go run。
var (
	Version   = "1.0.0"
	Commit    = "dev"
	BuildTime = "unknown"
)
