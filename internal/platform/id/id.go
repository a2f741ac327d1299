package id

import (
	"fmt"

	"github.com/google/uuid"
)

// New 生成带前缀的不透明 ID：prefix + UUIDv4。
// 前缀便于日志阅读（srch_... / rpt_...），UUID 保证每次请求都是全新 token，
// 相同查询不做去重。
func New(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
