package catalog

import (
	"context"
	"errors"
	"fmt"

	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"gorm.io/gorm"
)

// wrapDBError 將 gorm 錯誤映射為統一錯誤分類
func wrapDBError(err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewNotFoundError(fmt.Sprintf("%s not found", entity))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.NewConflictError(fmt.Sprintf("%s already exists", entity), err)
	default:
		return common.NewInternalError(err)
	}
}

// EnsureCategoryType 確保分類類型存在，不存在時以預設顏色補建。
// 分類建立與配方匯入共用同一個副作用。
func EnsureCategoryType(tx *gorm.DB, name string) error {
	if name == "" {
		return nil
	}
	ct := CategoryType{Name: name, Color: DefaultCategoryTypeColor}
	if err := tx.Where("name = ?", name).FirstOrCreate(&ct).Error; err != nil {
		return fmt.Errorf("failed to ensure category type %q: %w", name, err)
	}
	return nil
}

// invalidateAvailability 目錄寫入後清掉衍生的庫存快取
func invalidateAvailability(ctx context.Context, cacheSvc *cache.Service) {
	cacheSvc.Invalidate(ctx, cache.KeyCocktailAvailability, cache.KeyLowStock)
}
