package transfer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// FetchService 從遠端 URL 下載可攜配方文件（分享連結匯入）
type FetchService struct {
	client   *resty.Client
	maxBytes int64
}

// NewFetchService 創建文件下載服務
func NewFetchService(cfg *config.ImportConfig) *FetchService {
	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetHeader("Accept", "application/json")

	return &FetchService{
		client:   client,
		maxBytes: cfg.MaxDocumentBytes,
	}
}

// Fetch 下載並解析文件，回傳前先做版本與名稱驗證
func (s *FetchService) Fetch(ctx context.Context, url string) (*Document, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, common.NewValidationError("document url must be http or https")
	}

	resp, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		common.LogWarn("文件下載失敗",
			zap.String("url", url),
			zap.Error(err),
		)
		return nil, common.NewError("FETCH_FAILED", "failed to fetch document", http.StatusBadGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewError("FETCH_FAILED",
			fmt.Sprintf("document host returned status %d", resp.StatusCode()),
			http.StatusBadGateway, nil)
	}

	body := resp.Body()
	if int64(len(body)) > s.maxBytes {
		return nil, common.NewValidationError("document exceeds size limit")
	}

	var doc Document
	if err := common.ParseJSONBytes(body, &doc); err != nil {
		return nil, common.NewValidationError("document is not valid JSON")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	common.LogInfo("遠端文件已下載",
		zap.String("url", url),
		zap.String("recipe", doc.Recipe.Name),
	)
	return &doc, nil
}
