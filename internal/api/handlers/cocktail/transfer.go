package cocktail

import (
	"net/http"

	"bar-catalog/internal/core/transfer"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransferHandler 配方可攜文件處理器：匯出 / 預覽 / 確認匯入
type TransferHandler struct {
	exporter *transfer.ExportService
	matcher  *transfer.MatchService
	importer *transfer.ImportService
	fetcher  *transfer.FetchService
}

// NewTransferHandler 創建配方轉移處理器
func NewTransferHandler(
	exporter *transfer.ExportService,
	matcher *transfer.MatchService,
	importer *transfer.ImportService,
	fetcher *transfer.FetchService,
) *TransferHandler {
	return &TransferHandler{
		exporter: exporter,
		matcher:  matcher,
		importer: importer,
		fetcher:  fetcher,
	}
}

// HandleExport 匯出配方為可攜文件
func (h *TransferHandler) HandleExport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.exporter.Export(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// HandlePreview 匯入預覽：文件對目前目錄的比對結果，無副作用
func (h *TransferHandler) HandlePreview(c *gin.Context) {
	var doc transfer.Document
	if err := common.DecodeJSON(c.Request.Body, &doc); err != nil {
		common.LogWarn("文件解析失敗",
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		common.RespondError(c, common.NewValidationError("invalid document payload"))
		return
	}

	preview, err := h.matcher.Preview(c.Request.Context(), &doc)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// ConfirmRequest 確認匯入請求：文件加上每個引用鍵的決定
type ConfirmRequest struct {
	Document    transfer.Document    `json:"document"`
	Resolutions transfer.Resolutions `json:"resolutions"`
}

// HandleConfirm 確認匯入：建立缺少的實體與完整配方圖，單一交易
func (h *TransferHandler) HandleConfirm(c *gin.Context) {
	var req ConfirmRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		common.LogWarn("確認匯入請求解析失敗",
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		common.RespondError(c, common.NewValidationError("invalid confirm payload"))
		return
	}

	created, err := h.importer.Confirm(c.Request.Context(), &req.Document, req.Resolutions)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// FetchRequest 遠端文件下載請求
type FetchRequest struct {
	URL string `json:"url" binding:"required"`
}

// HandleFetch 從分享連結下載文件，回傳給呼叫端接續預覽
func (h *TransferHandler) HandleFetch(c *gin.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.NewValidationError("url is required"))
		return
	}

	doc, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}
