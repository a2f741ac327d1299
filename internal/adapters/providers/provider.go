package providers

import (
	"context"
	"net/http"
	"time"

	"osint-aggregator/internal/domain/model"
)

// NameProvider 是“按姓名/用户名查询”的统一契约。
//
// 返回值约定（fail-soft）：
// - 实现永远不返回 error；网络失败、缺凭据、输入非法都收敛进
//   ProviderResult 的 Err/Note 或载荷内的提示记录
// - 单个数据源失败不能中断整批查询，聚合层只做简单遍历合并
type NameProvider interface {
	Category() string
	LookupName(ctx context.Context, name string) model.ProviderResult
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxBodyBytes 限制外部响应体的读取量，防御异常数据源。
const maxBodyBytes = 2 << 20

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// noRedirectClient 返回不跟随跳转的客户端。
// 个人主页探测依赖“200 即存在”的判定，30x 跳转视为未命中。
func noRedirectClient(timeout time.Duration) *http.Client {
	c := newHTTPClient(timeout)
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}
