package providers

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"osint-aggregator/internal/domain/model"

	"github.com/miekg/dns"
)

// emailPattern 是邮箱格式的准入校验；不匹配时不做任何域名解析。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// MXResolver 抽象 MX 记录解析，便于测试注入。
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

// Email 做邮箱格式校验、域名 MX 解析与按姓名的候选模式生成。
// breach_data / social_profiles 需要外部 API 凭据，当前恒为空但保留字段形状。
type Email struct {
	Resolver MXResolver
}

func NewEmail() *Email {
	return &Email{Resolver: newDNSResolver()}
}

func (e *Email) Category() string { return model.CategoryEmails }

// Lookup 查询单个邮箱。格式不合法时 valid_format=false，且不触发任何域名解析。
func (e *Email) Lookup(ctx context.Context, email string) model.ProviderResult {
	info := model.EmailInfo{
		Email:          email,
		DomainInfo:     &model.DomainInfo{MXRecords: []string{}},
		BreachData:     []model.Record{},
		SocialProfiles: []model.Record{},
	}

	if !emailPattern.MatchString(email) {
		return model.ProviderResult{Category: model.CategoryEmails, Payload: info}
	}

	info.ValidFormat = true
	info.Domain = email[strings.LastIndex(email, "@")+1:]
	info.DomainInfo = e.domainInfo(ctx, info.Domain)
	return model.ProviderResult{Category: model.CategoryEmails, Payload: info}
}

func (e *Email) domainInfo(ctx context.Context, domain string) *model.DomainInfo {
	info := &model.DomainInfo{Domain: domain, MXRecords: []string{}}

	records, err := e.Resolver.LookupMX(ctx, domain)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.HasMX = len(records) > 0
	info.MXRecords = records
	return info
}

// LookupName 按姓名生成候选邮箱模式（first.last / firstlast / flast）。
// 这些只是拼写猜测，不经任何验证，schema 里显式标记 verified=false。
func (e *Email) LookupName(ctx context.Context, name string) model.ProviderResult {
	suggestions := []model.EmailSuggestion{}

	parts := strings.Fields(strings.ToLower(name))
	if len(parts) >= 2 {
		first, last := parts[0], parts[len(parts)-1]
		suggestions = append(suggestions, model.EmailSuggestion{
			SuggestedPatterns: []string{
				first + "." + last,
				first + last,
				first[:1] + last,
			},
			Verified: false,
			Note:     "Use email finder APIs for actual results",
		})
	}

	return model.ProviderResult{Category: model.CategoryEmails, Payload: suggestions}
}

// dnsResolver 基于 miekg/dns 直接向系统配置的 DNS 服务器发 MX 查询，
// 自带超时，避免阻塞式的系统解析拖住适配器。
type dnsResolver struct {
	client *dns.Client

	once   sync.Once
	server string
}

func newDNSResolver() *dnsResolver {
	return &dnsResolver{client: &dns.Client{Timeout: 5 * time.Second}}
}

func (r *dnsResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	r.once.Do(func() {
		r.server = "1.1.1.1:53"
		if conf, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(conf.Servers) > 0 {
			r.server = conf.Servers[0] + ":" + conf.Port
		}
	})

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeMX)

	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, fmt.Errorf("mx query %s: %w", domain, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("mx query %s: rcode %s", domain, dns.RcodeToString[resp.Rcode])
	}

	type mx struct {
		pref uint16
		host string
	}
	var records []mx
	for _, rr := range resp.Answer {
		if m, ok := rr.(*dns.MX); ok {
			records = append(records, mx{pref: m.Preference, host: m.Mx})
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].pref < records[j].pref })

	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.host)
	}
	return out, nil
}
