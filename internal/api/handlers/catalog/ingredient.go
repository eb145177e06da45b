package catalog

import (
	"net/http"

	catalogService "bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// IngredientHandler 原料處理器
type IngredientHandler struct {
	ingredients *catalogService.IngredientService
}

// NewIngredientHandler 創建原料處理器
func NewIngredientHandler(ingredients *catalogService.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

// HandleList 列出所有原料
func (h *IngredientHandler) HandleList(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// HandleGet 取得單一原料
func (h *IngredientHandler) HandleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ingredient, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// HandleCreate 建立原料
func (h *IngredientHandler) HandleCreate(c *gin.Context) {
	var in catalogService.IngredientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid ingredient payload"))
		return
	}
	ingredient, err := h.ingredients.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// HandleUpdate 更新原料
func (h *IngredientHandler) HandleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in catalogService.IngredientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, common.NewValidationError("invalid ingredient payload"))
		return
	}
	ingredient, err := h.ingredients.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

// HandleDelete 刪除原料
func (h *IngredientHandler) HandleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
