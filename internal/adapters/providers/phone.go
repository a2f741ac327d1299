package providers

import (
	"context"

	"osint-aggregator/internal/domain/model"

	"github.com/nyaruka/phonenumbers"
)

// Phone 按国际号码规则解析电话号码。
// 号码必须带国家码（+86... / +1...），与原始输入形式保持一致。
type Phone struct{}

func NewPhone() *Phone { return &Phone{} }

func (p *Phone) Category() string { return model.CategoryPhones }

// Lookup 解析并校验电话号码。
// 校验失败时 valid=false，且不填充任何派生字段（国家/运营商/时区/类型）。
func (p *Phone) Lookup(ctx context.Context, number string) model.ProviderResult {
	info := model.PhoneInfo{
		PhoneNumber:   number,
		PublicRecords: []model.Record{},
	}

	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		info.Error = err.Error()
		return model.ProviderResult{Category: model.CategoryPhones, Payload: info}
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return model.ProviderResult{Category: model.CategoryPhones, Payload: info}
	}

	info.Valid = true
	info.Formatted = phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL)
	if country, err := phonenumbers.GetGeocodingForNumber(parsed, "en"); err == nil {
		info.Country = country
	}
	if carrier, err := phonenumbers.GetCarrierForNumber(parsed, "en"); err == nil {
		info.Carrier = carrier
	}
	if zones, err := phonenumbers.GetTimezonesForNumber(parsed); err == nil {
		info.Timezone = zones
	}
	numberType := int(phonenumbers.GetNumberType(parsed))
	info.NumberType = &numberType

	// 公共号码库（TrueCaller/Whitepages 等）都要付费 API，只保留提示记录。
	info.PublicRecords = []model.Record{{
		"source": "Public Database",
		"note":   "Requires API key for full access",
	}}

	return model.ProviderResult{Category: model.CategoryPhones, Payload: info}
}

// LookupName 按姓名查电话需要付费数据库，当前恒为空列表。
func (p *Phone) LookupName(ctx context.Context, name string) model.ProviderResult {
	return model.ProviderResult{Category: model.CategoryPhones, Payload: []model.Record{}}
}
