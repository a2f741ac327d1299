package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Bytes 计算给定内容的 SHA-256。
// 用于报告载荷与规则文件的完整性留痕。
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
