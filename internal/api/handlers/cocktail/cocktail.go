package cocktail

import (
	"net/http"
	"strconv"

	cocktailService "bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 調酒配方處理器
type Handler struct {
	cocktails *cocktailService.Service
}

// NewHandler 創建調酒配方處理器
func NewHandler(cocktails *cocktailService.Service) *Handler {
	return &Handler{cocktails: cocktails}
}

// parseID 解析路徑中的 :id 參數
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		common.RespondError(c, common.NewValidationError("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// HandleList 列出所有配方
func (h *Handler) HandleList(c *gin.Context) {
	cocktails, err := h.cocktails.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cocktails)
}

// HandleGet 取得單一配方
func (h *Handler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cocktail, err := h.cocktails.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cocktail)
}

// HandleCreate 建立配方
func (h *Handler) HandleCreate(c *gin.Context) {
	var in cocktailService.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		common.LogWarn("配方輸入解析失敗", zap.Error(err))
		common.RespondError(c, common.NewValidationError("invalid cocktail payload"))
		return
	}
	cocktail, err := h.cocktails.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cocktail)
}

// HandleUpdate 更新配方（原料與步驟整組替換）
func (h *Handler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in cocktailService.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid cocktail payload"))
		return
	}
	cocktail, err := h.cocktails.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cocktail)
}

// HandleDelete 刪除配方
func (h *Handler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.cocktails.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
