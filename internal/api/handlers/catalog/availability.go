package catalog

import (
	"net/http"

	catalogService "bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler 庫存 / 可調性處理器
type AvailabilityHandler struct {
	availability *catalogService.AvailabilityService
}

// NewAvailabilityHandler 創建庫存處理器
func NewAvailabilityHandler(availability *catalogService.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// HandleCocktails 每杯調酒的可調性
func (h *AvailabilityHandler) HandleCocktails(c *gin.Context) {
	result, err := h.availability.Cocktails(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleLowStock 低於期望庫存的分類
func (h *AvailabilityHandler) HandleLowStock(c *gin.Context) {
	result, err := h.availability.LowStock(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
