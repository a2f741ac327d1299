package report

import (
	"encoding/json"
	"sort"
	"time"

	"osint-aggregator/internal/domain/model"
)

// 发现类型与严重级别。
// 邮箱/电话比公开社交账号的可识别性更强，按 high 处理。
const (
	FindingSocialMedia = "social_media"
	FindingEmail       = "email"
	FindingPhone       = "phone"

	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Generate 从结果包派生报告。
//
// 对相同的结果包与 report_id，除 generated_at 外输出完全一致
// （平台级发现按平台名排序，消除 map 遍历的不确定性）。
// raw_data 原样回填调用方提交的结果包。
func Generate(raw json.RawMessage, reportID string) model.Report {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	b := ParseBundle(raw)

	return model.Report{
		ReportID:        reportID,
		GeneratedAt:     time.Now().Format(time.RFC3339),
		Summary:         buildSummary(b),
		Findings:        extractFindings(b),
		Recommendations: buildRecommendations(b),
		RawData:         raw,
	}
}

func buildSummary(b Bundle) model.Summary {
	var s model.Summary

	for _, profiles := range b.Social {
		s.SocialMediaProfiles += len(profiles)
	}
	s.EmailAddresses = len(b.Emails)
	s.PhoneNumbers = len(b.Phones)
	s.Addresses = len(b.Addresses)
	s.ImagesFound = len(b.ImageResults)

	// total_findings 只能由其余计数器重算得出，任何输入形状下都成立
	s.TotalFindings = s.SocialMediaProfiles + s.EmailAddresses +
		s.PhoneNumbers + s.Addresses + s.ImagesFound
	return s
}

func extractFindings(b Bundle) []model.Finding {
	findings := []model.Finding{}

	platforms := make([]string, 0, len(b.Social))
	for name := range b.Social {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)

	for _, name := range platforms {
		profiles := b.Social[name]
		if len(profiles) == 0 {
			continue
		}
		findings = append(findings, model.Finding{
			Type:     FindingSocialMedia,
			Platform: name,
			Count:    len(profiles),
			Severity: SeverityMedium,
		})
	}

	if len(b.Emails) > 0 {
		findings = append(findings, model.Finding{
			Type:     FindingEmail,
			Count:    len(b.Emails),
			Severity: SeverityHigh,
		})
	}
	if len(b.Phones) > 0 {
		findings = append(findings, model.Finding{
			Type:     FindingPhone,
			Count:    len(b.Phones),
			Severity: SeverityHigh,
		})
	}

	return findings
}

// buildRecommendations 生成固定顺序（社交/邮箱/电话）的建议文案。
// 社交建议按 key 存在触发；邮箱/电话要求列表非空。
func buildRecommendations(b Bundle) []string {
	recommendations := []string{}

	if b.HasSocial {
		recommendations = append(recommendations, "Review social media privacy settings")
	}
	if len(b.Emails) > 0 {
		recommendations = append(recommendations, "Consider using email aliases for public registrations")
	}
	if len(b.Phones) > 0 {
		recommendations = append(recommendations, "Be cautious sharing phone numbers publicly")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "No specific recommendations at this time")
	}
	return recommendations
}
