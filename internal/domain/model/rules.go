package model

// PlatformKind 表示社交平台目录里一个条目的查询方式。
type PlatformKind string

const (
	// PlatformKindAPI 通过公开 API 搜索（例如 GitHub 用户搜索）。
	PlatformKindAPI PlatformKind = "api"
	// PlatformKindProbe 直接探测个人主页 URL（不跟随跳转，200 视为存在）。
	PlatformKindProbe PlatformKind = "probe"
	// PlatformKindManual 平台需要登录，只能产出人工检索入口记录。
	PlatformKindManual PlatformKind = "manual"
)

// PlatformRule 是社交平台目录里的一个平台定义。
type PlatformRule struct {
	Name        string       `yaml:"name" json:"name"`
	Label       string       `yaml:"label,omitempty" json:"label,omitempty"`
	Kind        PlatformKind `yaml:"kind" json:"kind"`
	Enabled     bool         `yaml:"enabled" json:"enabled"`
	URLTemplate string       `yaml:"url_template,omitempty" json:"url_template,omitempty"`
	Note        string       `yaml:"note,omitempty" json:"note,omitempty"`
}

// PlatformRuleBundle 是社交平台目录文件的整体结构。
type PlatformRuleBundle struct {
	Version   string         `yaml:"version" json:"version"`
	Platforms []PlatformRule `yaml:"platforms" json:"platforms"`
}
