package model

// 查询类别名，同时也是 SearchResult.Results 的 key。
const (
	CategorySocialMedia = "social_media"
	CategoryEmails      = "emails"
	CategoryPhones      = "phones"
	CategoryAddresses   = "addresses"
	CategoryImage       = "image"
	CategoryWifi        = "wifi"
)

// ProviderResult 是单个适配器一次查询的归一化返回。
//
// 约定（fail-soft）：
// - 适配器永远不向调用方抛错；网络失败、缺凭据、输入非法一律落在 Err/Note 字段里
// - Payload 是各适配器自有 schema 的载荷（各类别之间互不共享结构）
// - Err 非空时 Payload 可以为 nil，聚合层会把软错误包装进响应
type ProviderResult struct {
	Category string
	Payload  any
	Err      string
	Note     string
}

// Envelope 把结果转换为写入 SearchResult.Results 的值。
// 软错误以 {"error": ..., "note": ...} 的形式出现在对应类别下，
// 不会让整个请求失败。
func (r ProviderResult) Envelope() any {
	if r.Err == "" {
		return r.Payload
	}
	out := map[string]any{"error": r.Err}
	if r.Note != "" {
		out["note"] = r.Note
	}
	return out
}

// SearchResult 是一次聚合查询的响应信封。
// search_id 每次请求新生成；组装完成后不再修改。
//
// Results 的形状因端点而异：
// - 按姓名查询：类别名 -> 该类别载荷 的映射
// - 单类别端点（email/phone/image/wifi）：该类别载荷本身
type SearchResult struct {
	Query     string `json:"query,omitempty"`
	Timestamp string `json:"timestamp"`
	SearchID  string `json:"search_id"`
	Results   any    `json:"results"`
}

// ProfileRecord 是社交平台查询的单条档案记录。
// 平台之间字段覆盖度不同：API 命中会带 username/profile_url，
// 需要登录的平台只给 search_url + note（人工检索入口）。
type ProfileRecord struct {
	Platform   string `json:"platform,omitempty"`
	Username   string `json:"username,omitempty"`
	Name       string `json:"name,omitempty"`
	ProfileURL string `json:"profile_url,omitempty"`
	SearchURL  string `json:"search_url,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Type       string `json:"type,omitempty"`
	Note       string `json:"note,omitempty"`
}

// EmailInfo 是邮箱查询的固定结构返回。
// breach_data 与 social_profiles 当前恒为空（需要外部 API 凭据，保留字段形状）。
type EmailInfo struct {
	Email          string       `json:"email"`
	ValidFormat    bool         `json:"valid_format"`
	Domain         string       `json:"domain,omitempty"`
	DomainInfo     *DomainInfo  `json:"domain_info"`
	BreachData     []Record     `json:"breach_data"`
	SocialProfiles []Record     `json:"social_profiles"`
}

// DomainInfo 是邮箱域名的 MX 解析结果。
type DomainInfo struct {
	Domain    string   `json:"domain"`
	MXRecords []string `json:"mx_records"`
	HasMX     bool     `json:"has_mx"`
	Error     string   `json:"error,omitempty"`
}

// EmailSuggestion 是按姓名生成的候选邮箱模式。
// 这些只是拼写猜测而非核实结果，schema 里显式标记 verified=false。
type EmailSuggestion struct {
	SuggestedPatterns []string `json:"suggested_patterns"`
	Verified          bool     `json:"verified"`
	Note              string   `json:"note"`
}

// PhoneInfo 是电话号码查询结果。
// Valid 为 false 时后续字段一律不填。
type PhoneInfo struct {
	PhoneNumber   string   `json:"phone_number"`
	Valid         bool     `json:"valid"`
	Formatted     string   `json:"formatted,omitempty"`
	Country       string   `json:"country,omitempty"`
	Carrier       string   `json:"carrier,omitempty"`
	Timezone      []string `json:"timezone,omitempty"`
	NumberType    *int     `json:"type,omitempty"`
	PublicRecords []Record `json:"public_records"`
	Error         string   `json:"error,omitempty"`
}

// AddressRecord 是地理编码查询的单条候选地址。
type AddressRecord struct {
	FormattedAddress string    `json:"formatted_address,omitempty"`
	Location         *LatLng   `json:"location,omitempty"`
	PlaceID          string    `json:"place_id,omitempty"`
	Types            []string  `json:"types,omitempty"`
	Name             string    `json:"name,omitempty"`
	Note             string    `json:"note,omitempty"`
}

// LatLng 是一对地理坐标。
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ImageEngineStub 是某个反向图搜引擎的占位记录。
// 不做自动匹配，只给出手工检索入口。
type ImageEngineStub struct {
	Platform  string `json:"platform"`
	SearchURL string `json:"search_url"`
	Note      string `json:"note"`
}

// WifiScanResult 是一次本地 WiFi 枚举的结果。
type WifiScanResult struct {
	Networks []WifiNetwork `json:"networks"`
	Location string        `json:"location,omitempty"`
	Platform string        `json:"platform"`
	Note     string        `json:"note"`
	Error    string        `json:"error,omitempty"`
}

// WifiNetwork 是单个被发现的无线网络。
// 不同平台的枚举命令字段覆盖度不同，缺失字段省略。
type WifiNetwork struct {
	SSID     string `json:"ssid"`
	BSSID    string `json:"bssid,omitempty"`
	Signal   string `json:"signal,omitempty"`
	RSSI     string `json:"rssi,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Security string `json:"security,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Record 是无固定 schema 的半结构化记录（各外部数据源自带形状）。
type Record map[string]any
