package model

import "encoding/json"

// Summary 是报告的固定计数器集合。
// TotalFindings 永远等于其余五项之和，由生成逻辑重算，不单独存储来源。
type Summary struct {
	TotalFindings       int `json:"total_findings"`
	SocialMediaProfiles int `json:"social_media_profiles"`
	EmailAddresses      int `json:"email_addresses"`
	PhoneNumbers        int `json:"phone_numbers"`
	Addresses           int `json:"addresses"`
	ImagesFound         int `json:"images_found"`
}

// Finding 是报告中的一条关键发现。
// 社交类按平台逐条产出（severity=medium）；
// 邮箱/电话各汇总为一条（severity=high，可识别性更强的数据类别）。
type Finding struct {
	Type     string `json:"type"`
	Platform string `json:"platform,omitempty"`
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// Report 是由结果包派生出的报告。创建后不再修改，按 report_id 存取。
// RawData 原样保留调用方提交的结果包。
type Report struct {
	ReportID        string          `json:"report_id"`
	GeneratedAt     string          `json:"generated_at"`
	Summary         Summary         `json:"summary"`
	Findings        []Finding       `json:"findings"`
	Recommendations []string        `json:"recommendations"`
	RawData         json.RawMessage `json:"raw_data"`
}

// ReportInfo 是报告索引信息（reports 表，不含载荷）。
type ReportInfo struct {
	ReportID      string `json:"report_id"`
	GeneratedAt   string `json:"generated_at"`
	TotalFindings int    `json:"total_findings"`
	PayloadSHA256 string `json:"payload_sha256"`
	CreatedAt     int64  `json:"created_at"`
}
