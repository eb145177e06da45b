package common

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RespondError 寫入錯誤響應（統一錯誤格式）
func RespondError(c *gin.Context, err error) {
	var ce *CustomError
	if !errors.As(err, &ce) {
		ce = ErrInternalError
	}
	c.JSON(ce.Status, ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	})
}
