package providers

import (
	"context"

	"osint-aggregator/internal/domain/model"
)

// Image 产出三个反向图搜引擎的人工检索入口。
//
// 不做自动图像匹配：自动化检索要么需要付费 API，要么违反引擎条款。
// 图片内容不参与记录生成，上传的临时文件由 HTTP 层负责在所有退出路径上删除。
type Image struct{}

func NewImage() *Image { return &Image{} }

func (i *Image) Category() string { return model.CategoryImage }

// ReverseSearch 返回 引擎名 -> 占位记录 的固定映射。
func (i *Image) ReverseSearch(ctx context.Context, filename string) model.ProviderResult {
	payload := map[string][]model.ImageEngineStub{
		"google": {{
			Platform:  "Google Images",
			SearchURL: "https://www.google.com/searchbyimage",
			Note:      "Upload image manually or use API key for automated search",
		}},
		"tineye": {{
			Platform:  "TinEye",
			SearchURL: "https://www.tineye.com/",
			Note:      "Upload image manually or use API key for automated search",
		}},
		"yandex": {{
			Platform:  "Yandex Images",
			SearchURL: "https://yandex.com/images/search",
			Note:      "Upload image manually for reverse search",
		}},
	}
	return model.ProviderResult{Category: model.CategoryImage, Payload: payload}
}
