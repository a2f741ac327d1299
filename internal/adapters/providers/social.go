package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"osint-aggregator/internal/domain/model"
)

// githubResultCap 限制 API 搜索返回的档案条数。
const githubResultCap = 5

// Social 按平台目录对社交平台做档案检索。
//
// 每个平台的子查询独立 fail-soft：单个平台失败只得到空列表，
// 不影响其它平台，也不向调用方抛错。
type Social struct {
	Platforms []model.PlatformRule

	HTTPClient  *http.Client
	ProbeClient *http.Client
}

func NewSocial(platforms []model.PlatformRule, timeout time.Duration) *Social {
	return &Social{
		Platforms:   platforms,
		HTTPClient:  newHTTPClient(timeout),
		ProbeClient: noRedirectClient(timeout),
	}
}

func (s *Social) Category() string { return model.CategorySocialMedia }

// LookupName 对目录中启用的平台逐个检索，返回 平台名 -> 档案列表。
func (s *Social) LookupName(ctx context.Context, name string) model.ProviderResult {
	out := make(map[string][]model.ProfileRecord, len(s.Platforms))
	for _, p := range s.Platforms {
		if !p.Enabled {
			continue
		}
		out[p.Name] = s.lookupPlatform(ctx, p, name)
	}
	return model.ProviderResult{Category: model.CategorySocialMedia, Payload: out}
}

func (s *Social) lookupPlatform(ctx context.Context, p model.PlatformRule, name string) []model.ProfileRecord {
	switch p.Kind {
	case model.PlatformKindAPI:
		return s.searchAPI(ctx, p, name)
	case model.PlatformKindProbe:
		return s.probeProfile(ctx, p, name)
	case model.PlatformKindManual:
		return manualSearchRecord(p, name)
	default:
		return []model.ProfileRecord{}
	}
}

// githubSearchResp 对应 GitHub 用户搜索 API 的响应片段。
// 目前目录里唯一的 api 类平台就是 GitHub；接入其它 API 平台时
// 需要为其响应结构单独建模。
type githubSearchResp struct {
	Items []struct {
		Login     string `json:"login"`
		HTMLURL   string `json:"html_url"`
		AvatarURL string `json:"avatar_url"`
		Type      string `json:"type"`
	} `json:"items"`
}

func (s *Social) searchAPI(ctx context.Context, p model.PlatformRule, name string) []model.ProfileRecord {
	results := []model.ProfileRecord{}

	u := fmt.Sprintf(p.URLTemplate, url.QueryEscape(name))
	body, status, err := s.get(ctx, s.HTTPClient, u)
	if err != nil || status != http.StatusOK {
		return results
	}

	var resp githubSearchResp
	if err := json.Unmarshal(body, &resp); err != nil {
		return results
	}
	for _, item := range resp.Items {
		results = append(results, model.ProfileRecord{
			Username:   item.Login,
			ProfileURL: item.HTMLURL,
			Avatar:     item.AvatarURL,
			Type:       item.Type,
		})
		if len(results) >= githubResultCap {
			break
		}
	}
	return results
}

// probeProfile 拼出个人主页 URL 做存在性探测：HTTP 200 视为档案存在。
// 不跟随跳转，多数平台对不存在的用户名返回 30x 或 404。
func (s *Social) probeProfile(ctx context.Context, p model.PlatformRule, name string) []model.ProfileRecord {
	results := []model.ProfileRecord{}

	handle := url.PathEscape(strings.TrimSpace(name))
	u := fmt.Sprintf(p.URLTemplate, handle)
	_, status, err := s.get(ctx, s.ProbeClient, u)
	if err != nil || status != http.StatusOK {
		return results
	}

	return append(results, model.ProfileRecord{
		Username:   name,
		ProfileURL: u,
		Platform:   platformLabel(p),
	})
}

// manualSearchRecord 为需要登录的平台产出人工检索入口（stub 记录）。
// 模板含两个 %s 时按 "first last" 拆分姓名填充（LinkedIn 目录页形式）。
func manualSearchRecord(p model.PlatformRule, name string) []model.ProfileRecord {
	var u string
	if strings.Count(p.URLTemplate, "%s") == 2 {
		first, last := splitName(name)
		u = fmt.Sprintf(p.URLTemplate, url.QueryEscape(first), url.QueryEscape(last))
	} else {
		u = fmt.Sprintf(p.URLTemplate, url.QueryEscape(name))
	}

	return []model.ProfileRecord{{
		Name:      name,
		SearchURL: u,
		Platform:  platformLabel(p),
		Note:      p.Note,
	}}
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

func platformLabel(p model.PlatformRule) string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

func (s *Social) get(ctx context.Context, c *http.Client, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
