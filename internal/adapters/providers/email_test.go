package providers

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"osint-aggregator/internal/domain/model"
)

// countingResolver 统计 LookupMX 被调用的次数。
type countingResolver struct {
	calls   int
	records []string
	err     error
}

func (r *countingResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	r.calls++
	return r.records, r.err
}

func TestEmailLookup_InvalidFormatSkipsDNS(t *testing.T) {
	t.Parallel()

	resolver := &countingResolver{}
	e := &Email{Resolver: resolver}

	for _, bad := range []string{"", "plain", "no@tld", "@missing.local", "a b@x.com"} {
		res := e.Lookup(context.Background(), bad)
		info, ok := res.Payload.(model.EmailInfo)
		if !ok {
			t.Fatalf("payload type %T", res.Payload)
		}
		if info.ValidFormat {
			t.Fatalf("%q: valid_format=true, want false", bad)
		}
		if info.Email != bad {
			t.Fatalf("%q: echo=%q", bad, info.Email)
		}
		// domain_info 即使未填充也要序列化为空列表而不是 null
		if info.DomainInfo == nil || info.DomainInfo.MXRecords == nil {
			t.Fatalf("%q: domain_info=%+v", bad, info.DomainInfo)
		}
	}

	// 格式不合法绝不触发域名解析
	if resolver.calls != 0 {
		t.Fatalf("resolver called %d times, want 0", resolver.calls)
	}
}

func TestEmailLookup_ValidWithMX(t *testing.T) {
	t.Parallel()

	resolver := &countingResolver{records: []string{"mx1.example.com.", "mx2.example.com."}}
	e := &Email{Resolver: resolver}

	res := e.Lookup(context.Background(), "jane.doe@example.com")
	info := res.Payload.(model.EmailInfo)

	if !info.ValidFormat {
		t.Fatal("valid_format=false")
	}
	if info.Domain != "example.com" {
		t.Fatalf("domain=%q", info.Domain)
	}
	if info.DomainInfo == nil || !info.DomainInfo.HasMX {
		t.Fatalf("domain_info=%+v", info.DomainInfo)
	}
	if !reflect.DeepEqual(info.DomainInfo.MXRecords, resolver.records) {
		t.Fatalf("mx_records=%v", info.DomainInfo.MXRecords)
	}
	if resolver.calls != 1 {
		t.Fatalf("resolver calls=%d", resolver.calls)
	}

	// 预留字段为空列表而非 null
	if info.BreachData == nil || info.SocialProfiles == nil {
		t.Fatal("breach_data / social_profiles should be empty lists")
	}
}

func TestEmailLookup_ResolverFailureIsSoft(t *testing.T) {
	t.Parallel()

	e := &Email{Resolver: &countingResolver{err: errors.New("servfail")}}

	res := e.Lookup(context.Background(), "x@unresolvable.invalid")
	info := res.Payload.(model.EmailInfo)

	// 解析失败只体现在 domain_info.error，邮箱本身仍判定格式合法
	if !info.ValidFormat {
		t.Fatal("valid_format=false")
	}
	if info.DomainInfo.Error == "" {
		t.Fatal("domain_info.error empty")
	}
	if info.DomainInfo.HasMX {
		t.Fatal("has_mx=true on failure")
	}
	if res.Err != "" {
		t.Fatalf("provider error leaked: %v", res.Err)
	}
}

func TestEmailLookupName_Suggestions(t *testing.T) {
	t.Parallel()

	e := &Email{Resolver: &countingResolver{}}

	res := e.LookupName(context.Background(), "Jane Marie Doe")
	suggestions := res.Payload.([]model.EmailSuggestion)
	if len(suggestions) != 1 {
		t.Fatalf("suggestions=%d", len(suggestions))
	}

	s := suggestions[0]
	wantPatterns := []string{"jane.doe", "janedoe", "jdoe"}
	if !reflect.DeepEqual(s.SuggestedPatterns, wantPatterns) {
		t.Fatalf("patterns=%v, want %v", s.SuggestedPatterns, wantPatterns)
	}
	if s.Verified {
		t.Fatal("verified=true, suggestions are never verified")
	}
	if s.Note == "" {
		t.Fatal("note empty")
	}
}

func TestEmailLookupName_SingleWordNoSuggestions(t *testing.T) {
	t.Parallel()

	e := &Email{Resolver: &countingResolver{}}

	res := e.LookupName(context.Background(), "Cher")
	suggestions := res.Payload.([]model.EmailSuggestion)
	if len(suggestions) != 0 {
		t.Fatalf("suggestions=%v, want empty", suggestions)
	}
}
