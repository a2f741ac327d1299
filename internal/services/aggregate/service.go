package aggregate

import (
	"context"
	"time"

	"osint-aggregator/internal/adapters/providers"
	"osint-aggregator/internal/domain/model"
	"osint-aggregator/internal/platform/id"

	"golang.org/x/sync/errgroup"
)

// Options 是按姓名查询时的类别开关；未显式指定的类别默认启用。
type Options struct {
	SocialMedia *bool `json:"social_media,omitempty"`
	Email       *bool `json:"email,omitempty"`
	Phone       *bool `json:"phone,omitempty"`
	Address     *bool `json:"address,omitempty"`
}

func enabled(v *bool) bool {
	return v == nil || *v
}

// Service 把一次查询扇出到各适配器并组装响应信封。
//
// 类别之间没有数据依赖，按姓名查询时并发执行；
// 每个适配器套独立超时，单个数据源卡死不会拖垮整个请求。
// 不做缓存：相同查询每次都重新执行全部适配器。
type Service struct {
	Social  *providers.Social
	Email   *providers.Email
	Phone   *providers.Phone
	Address *providers.Address
	Image   *providers.Image
	Wifi    *providers.Wifi

	// AdapterTimeout 是单个适配器一次调用的超时上限。
	AdapterTimeout time.Duration
}

func New(social *providers.Social, email *providers.Email, phone *providers.Phone,
	address *providers.Address, image *providers.Image, wifi *providers.Wifi,
	adapterTimeout time.Duration) *Service {
	if adapterTimeout <= 0 {
		adapterTimeout = 15 * time.Second
	}
	return &Service{
		Social:         social,
		Email:          email,
		Phone:          phone,
		Address:        address,
		Image:          image,
		Wifi:           wifi,
		AdapterTimeout: adapterTimeout,
	}
}

// SearchName 对启用的类别并发执行按姓名查询。
//
// 合并规则：
// - 每个类别一个独立槽位，类别内部的记录顺序由适配器产出顺序决定
// - 适配器本身 fail-soft，这里再兜底一层：万一某个适配器没能产出
//   结果（panic 等不应出现的情况），只省略该类别 key，不让整个请求失败
func (s *Service) SearchName(ctx context.Context, name string, opts Options) model.SearchResult {
	type slot struct {
		key    string
		lookup providers.NameProvider
		on     bool
		res    model.ProviderResult
		ok     bool
	}

	slots := []*slot{
		{key: model.CategorySocialMedia, lookup: s.Social, on: enabled(opts.SocialMedia)},
		{key: model.CategoryEmails, lookup: s.Email, on: enabled(opts.Email)},
		{key: model.CategoryPhones, lookup: s.Phone, on: enabled(opts.Phone)},
		{key: model.CategoryAddresses, lookup: s.Address, on: enabled(opts.Address)},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sl := range slots {
		if !sl.on {
			continue
		}
		sl := sl
		g.Go(func() error {
			sl.res, sl.ok = s.runAdapter(gctx, sl.lookup, name)
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]any)
	for _, sl := range slots {
		if !sl.on || !sl.ok {
			continue
		}
		results[sl.key] = sl.res.Envelope()
	}

	out := s.newEnvelope(name)
	out.Results = results
	return out
}

func (s *Service) runAdapter(ctx context.Context, p providers.NameProvider, name string) (res model.ProviderResult, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	actx, cancel := context.WithTimeout(ctx, s.AdapterTimeout)
	defer cancel()
	return p.LookupName(actx, name), true
}

// SearchEmail 查询单个邮箱地址。results 直接是邮箱载荷本身。
func (s *Service) SearchEmail(ctx context.Context, email string) model.SearchResult {
	actx, cancel := context.WithTimeout(ctx, s.AdapterTimeout)
	defer cancel()

	out := s.newEnvelope(email)
	out.Results = s.Email.Lookup(actx, email).Envelope()
	return out
}

// SearchPhone 查询单个电话号码。
func (s *Service) SearchPhone(ctx context.Context, number string) model.SearchResult {
	actx, cancel := context.WithTimeout(ctx, s.AdapterTimeout)
	defer cancel()

	out := s.newEnvelope(number)
	out.Results = s.Phone.Lookup(actx, number).Envelope()
	return out
}

// SearchImage 产出各反向图搜引擎的占位记录。query 为上传文件名。
func (s *Service) SearchImage(ctx context.Context, filename string) model.SearchResult {
	actx, cancel := context.WithTimeout(ctx, s.AdapterTimeout)
	defer cancel()

	out := s.newEnvelope(filename)
	out.Results = s.Image.ReverseSearch(actx, filename).Envelope()
	return out
}

// SearchWifi 执行一次本地 WiFi 枚举。授权校验发生在 HTTP 边界，不在这里。
func (s *Service) SearchWifi(ctx context.Context, location string) model.SearchResult {
	actx, cancel := context.WithTimeout(ctx, s.AdapterTimeout)
	defer cancel()

	out := s.newEnvelope("")
	out.Results = s.Wifi.Scan(actx, location).Envelope()
	return out
}

func (s *Service) newEnvelope(query string) model.SearchResult {
	return model.SearchResult{
		Query:     query,
		Timestamp: time.Now().Format(time.RFC3339),
		SearchID:  id.New("srch"),
		Results:   make(map[string]any),
	}
}
