package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"osint-aggregator/internal/domain/model"
)

// DefaultGeocodeAPI 是 Google Geocoding API 的默认入口。
const DefaultGeocodeAPI = "https://maps.googleapis.com/maps/api/geocode/json"

// geocodeResultCap 限制一次正向地理编码返回的候选地址数。
const geocodeResultCap = 5

// Address 做自由文本 -> 候选地址的正向地理编码，以及坐标 -> 地址的反向解析。
// 未配置 APIKey 时降级为单条提示记录，不发出任何外部请求。
type Address struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client
}

func NewAddress(apiKey string, timeout time.Duration) *Address {
	return &Address{
		APIKey:     apiKey,
		BaseURL:    DefaultGeocodeAPI,
		HTTPClient: newHTTPClient(timeout),
	}
}

func (a *Address) Category() string { return model.CategoryAddresses }

// LookupName 把姓名/自由文本解析为至多 5 条候选地址。
func (a *Address) LookupName(ctx context.Context, name string) model.ProviderResult {
	if a.APIKey == "" {
		return model.ProviderResult{
			Category: model.CategoryAddresses,
			Payload: []model.AddressRecord{{
				Name: name,
				Note: "Google Maps API key required for address lookup",
			}},
		}
	}

	records, err := a.geocode(ctx, url.Values{"address": {name}})
	if err != nil {
		// fail-soft：解析失败压成一条提示记录，不中断整批查询
		return model.ProviderResult{
			Category: model.CategoryAddresses,
			Payload: []model.AddressRecord{{
				Name: name,
				Note: "geocoding failed: " + err.Error(),
			}},
		}
	}
	if len(records) > geocodeResultCap {
		records = records[:geocodeResultCap]
	}
	return model.ProviderResult{Category: model.CategoryAddresses, Payload: records}
}

// Geocode 把一条地址文本解析为首个候选的坐标与规范化地址。
func (a *Address) Geocode(ctx context.Context, address string) (model.AddressRecord, error) {
	if a.APIKey == "" {
		return model.AddressRecord{}, fmt.Errorf("geocoding credential not configured")
	}
	records, err := a.geocode(ctx, url.Values{"address": {address}})
	if err != nil {
		return model.AddressRecord{}, err
	}
	if len(records) == 0 {
		return model.AddressRecord{}, fmt.Errorf("no geocode result for %q", address)
	}
	return records[0], nil
}

// ReverseGeocode 把坐标解析为规范化地址。
func (a *Address) ReverseGeocode(ctx context.Context, lat, lng float64) (model.AddressRecord, error) {
	if a.APIKey == "" {
		return model.AddressRecord{}, fmt.Errorf("geocoding credential not configured")
	}
	records, err := a.geocode(ctx, url.Values{"latlng": {fmt.Sprintf("%f,%f", lat, lng)}})
	if err != nil {
		return model.AddressRecord{}, err
	}
	if len(records) == 0 {
		return model.AddressRecord{}, fmt.Errorf("no reverse geocode result for %f,%f", lat, lng)
	}
	rec := records[0]
	if rec.Location == nil {
		rec.Location = &model.LatLng{Lat: lat, Lng: lng}
	}
	return rec, nil
}

// geocodeResp 对应 Geocoding API 的响应片段。
type geocodeResp struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location model.LatLng `json:"location"`
		} `json:"geometry"`
		PlaceID string   `json:"place_id"`
		Types   []string `json:"types"`
	} `json:"results"`
}

func (a *Address) geocode(ctx context.Context, params url.Values) ([]model.AddressRecord, error) {
	params.Set("key", a.APIKey)
	u := a.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocode http %d", resp.StatusCode)
	}

	var out geocodeResp
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	// ZERO_RESULTS 是合法的空结果；其余非 OK 状态按错误处理
	if out.Status != "OK" && out.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geocode status %s", out.Status)
	}

	records := make([]model.AddressRecord, 0, len(out.Results))
	for _, r := range out.Results {
		loc := r.Geometry.Location
		records = append(records, model.AddressRecord{
			FormattedAddress: r.FormattedAddress,
			Location:         &model.LatLng{Lat: loc.Lat, Lng: loc.Lng},
			PlaceID:          r.PlaceID,
			Types:            r.Types,
		})
	}
	return records, nil
}
