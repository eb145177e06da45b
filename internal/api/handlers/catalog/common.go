package catalog

import (
	"strconv"

	"bar-catalog/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// parseID 解析路徑中的 :id 參數
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		common.RespondError(c, common.NewValidationError("invalid id"))
		return 0, false
	}
	return uint(id), true
}
