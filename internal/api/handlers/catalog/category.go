package catalog

import (
	"net/http"

	catalogService "bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CategoryHandler 分類處理器
type CategoryHandler struct {
	categories *catalogService.CategoryService
}

// NewCategoryHandler 創建分類處理器
func NewCategoryHandler(categories *catalogService.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// HandleList 列出所有分類
func (h *CategoryHandler) HandleList(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// HandleGet 取得單一分類
func (h *CategoryHandler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// HandleCreate 建立分類
func (h *CategoryHandler) HandleCreate(c *gin.Context) {
	var in catalogService.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.LogWarn("分類輸入解析失敗", zap.Error(err))
		common.RespondError(c, common.NewValidationError("invalid category payload"))
		return
	}
	category, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// HandleUpdate 更新分類
func (h *CategoryHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in catalogService.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid category payload"))
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// HandleDelete 刪除分類
func (h *CategoryHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleListTypes 列出所有分類類型
func (h *CategoryHandler) HandleListTypes(c *gin.Context) {
	types, err := h.categories.ListTypes(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
