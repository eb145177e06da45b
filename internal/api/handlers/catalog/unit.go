package catalog

import (
	"net/http"

	catalogService "bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// UnitHandler 計量單位處理器
type UnitHandler struct {
	units *catalogService.UnitService
}

// NewUnitHandler 創建計量單位處理器
func NewUnitHandler(units *catalogService.UnitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// HandleList 列出所有單位
func (h *UnitHandler) HandleList(c *gin.Context) {
	units, err := h.units.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// HandleGet 取得單一單位
func (h *UnitHandler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	unit, err := h.units.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// HandleCreate 建立單位
func (h *UnitHandler) HandleCreate(c *gin.Context) {
	var in catalogService.UnitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid unit payload"))
		return
	}
	unit, err := h.units.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// HandleUpdate 更新單位
func (h *UnitHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in catalogService.UnitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid unit payload"))
		return
	}
	unit, err := h.units.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// HandleDelete 刪除單位
func (h *UnitHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.units.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
