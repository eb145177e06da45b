package catalog

import (
	"net/http"

	catalogService "bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// BottleHandler 酒瓶處理器
type BottleHandler struct {
	bottles *catalogService.BottleService
}

// NewBottleHandler 創建酒瓶處理器
func NewBottleHandler(bottles *catalogService.BottleService) *BottleHandler {
	return &BottleHandler{bottles: bottles}
}

// HandleList 列出所有酒瓶
func (h *BottleHandler) HandleList(c *gin.Context) {
	bottles, err := h.bottles.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bottles)
}

// HandleGet 取得單一酒瓶
func (h *BottleHandler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bottle, err := h.bottles.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bottle)
}

// HandleCreate 建立酒瓶
func (h *BottleHandler) HandleCreate(c *gin.Context) {
	var in catalogService.BottleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid bottle payload"))
		return
	}
	bottle, err := h.bottles.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bottle)
}

// HandleUpdate 更新酒瓶
func (h *BottleHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in catalogService.BottleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid bottle payload"))
		return
	}
	bottle, err := h.bottles.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bottle)
}

// HandleDelete 刪除酒瓶
func (h *BottleHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.bottles.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
