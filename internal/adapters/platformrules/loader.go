package platformrules

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"osint-aggregator/internal/domain/model"
	"osint-aggregator/internal/platform/hash"

	"gopkg.in/yaml.v3"
)

//go:embed default_platforms.yaml
var defaultRules []byte

// Loader 负责读取并校验社交平台目录文件。
// path 为空时使用内嵌的默认目录，保证零配置可用。
type Loader struct {
	Path string
}

// Loaded 是加载后的平台目录及其内容哈希，用于 /api/health 之外的版本确认与留痕。
type Loaded struct {
	Bundle model.PlatformRuleBundle
	SHA256 string
	Source string // embedded 或文件路径
}

func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// Load 读取平台目录并做基础结构校验。
func (l *Loader) Load(ctx context.Context) (*Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := defaultRules
	source := "embedded"
	if l.Path != "" {
		b, err := os.ReadFile(l.Path)
		if err != nil {
			return nil, fmt.Errorf("read platform rules: %w", err)
		}
		raw = b
		source = l.Path
	}

	var bundle model.PlatformRuleBundle
	if err := yaml.Unmarshal(raw, &bundle); err != nil {
		return nil, fmt.Errorf("parse platform rules: %w", err)
	}
	if err := validate(bundle); err != nil {
		return nil, err
	}

	return &Loaded{
		Bundle: bundle,
		SHA256: hash.Bytes(raw),
		Source: source,
	}, nil
}

func validate(bundle model.PlatformRuleBundle) error {
	if len(bundle.Platforms) == 0 {
		return fmt.Errorf("platform rules: no platforms defined")
	}
	seen := make(map[string]bool, len(bundle.Platforms))
	for i, p := range bundle.Platforms {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return fmt.Errorf("platform rules: entry %d missing name", i)
		}
		if seen[name] {
			return fmt.Errorf("platform rules: duplicate platform %q", name)
		}
		seen[name] = true

		switch p.Kind {
		case model.PlatformKindAPI, model.PlatformKindProbe, model.PlatformKindManual:
		default:
			return fmt.Errorf("platform rules: platform %q has unknown kind %q", name, p.Kind)
		}
		if strings.TrimSpace(p.URLTemplate) == "" {
			return fmt.Errorf("platform rules: platform %q missing url_template", name)
		}
	}
	return nil
}
