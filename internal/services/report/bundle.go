package report

import "encoding/json"

// Bundle 是调用方提交的任意形状结果包的容错视图。
//
// 调用方可以重新提交任何历史返回的结果包，甚至手工编辑过的片段，
// 所以每一层嵌套都当作可选处理：key 缺失或形状不符一律按“空”处理，
// 解析过程永远不报错。
//
// Has* 标记区分“key 存在但为空”与“key 不存在”：
// 建议文案按 key 存在性触发，与计数逻辑不同。
type Bundle struct {
	HasSocial bool
	Social    map[string][]json.RawMessage

	HasEmails bool
	Emails    []json.RawMessage

	HasPhones bool
	Phones    []json.RawMessage

	HasAddresses bool
	Addresses    []json.RawMessage

	HasImage     bool
	ImageResults []json.RawMessage
}

// ParseBundle 逐个 key 探测式解码。任何一层解码失败只把那一层置空。
func ParseBundle(raw json.RawMessage) Bundle {
	var b Bundle

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return b
	}

	var cats map[string]json.RawMessage
	if r, ok := top["results"]; ok {
		if err := json.Unmarshal(r, &cats); err != nil {
			return b
		}
	}

	if v, ok := cats["social_media"]; ok {
		b.HasSocial = true
		b.Social = decodeSocial(v)
	}
	if v, ok := cats["emails"]; ok {
		b.HasEmails = true
		b.Emails = decodeList(v)
	}
	if v, ok := cats["phones"]; ok {
		b.HasPhones = true
		b.Phones = decodeList(v)
	}
	if v, ok := cats["addresses"]; ok {
		b.HasAddresses = true
		b.Addresses = decodeList(v)
	}
	if v, ok := cats["image"]; ok {
		b.HasImage = true
		b.ImageResults = decodeImage(v)
	}

	return b
}

func decodeSocial(raw json.RawMessage) map[string][]json.RawMessage {
	var platforms map[string]json.RawMessage
	if err := json.Unmarshal(raw, &platforms); err != nil {
		return map[string][]json.RawMessage{}
	}

	out := make(map[string][]json.RawMessage, len(platforms))
	for name, v := range platforms {
		out[name] = decodeList(v)
	}
	return out
}

func decodeList(raw json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return []json.RawMessage{}
	}
	return list
}

// decodeImage 取 image.results 嵌套列表（图搜结果的历史形状）。
func decodeImage(raw json.RawMessage) []json.RawMessage {
	var image map[string]json.RawMessage
	if err := json.Unmarshal(raw, &image); err != nil {
		return []json.RawMessage{}
	}
	v, ok := image["results"]
	if !ok {
		return []json.RawMessage{}
	}
	return decodeList(v)
}
