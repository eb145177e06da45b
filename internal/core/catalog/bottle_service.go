package catalog

import (
	"context"
	"errors"

	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BottleService 酒瓶服務
type BottleService struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewBottleService 創建酒瓶服務
func NewBottleService(db *gorm.DB, cacheSvc *cache.Service) *BottleService {
	return &BottleService{db: db, cache: cacheSvc}
}

// BottleInput 酒瓶建立 / 更新輸入
type BottleInput struct {
	Name       string `json:"name" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
	InStock    *bool  `json:"in_stock"`
}

// List 列出所有酒瓶（含分類）
func (s *BottleService) List(ctx context.Context) ([]Bottle, error) {
	var bottles []Bottle
	if err := s.db.WithContext(ctx).Preload("Category").Order("name").Find(&bottles).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}
	return bottles, nil
}

// Get 取得單一酒瓶
func (s *BottleService) Get(ctx context.Context, id uint) (*Bottle, error) {
	var bottle Bottle
	if err := s.db.WithContext(ctx).Preload("Category").First(&bottle, id).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}
	return &bottle, nil
}

// Create 建立酒瓶，分類必須已存在
func (s *BottleService) Create(ctx context.Context, in BottleInput) (*Bottle, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewValidationError("bottle category does not exist")
		}
		return nil, wrapDBError(err, "bottle")
	}

	bottle := Bottle{
		Name:       in.Name,
		CategoryID: in.CategoryID,
		InStock:    true,
	}
	if in.InStock != nil {
		bottle.InStock = *in.InStock
	}
	if err := s.db.WithContext(ctx).Create(&bottle).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}

	common.LogInfo("酒瓶已建立",
		zap.Uint("id", bottle.ID),
		zap.String("name", bottle.Name),
		zap.String("category", category.Name),
	)
	invalidateAvailability(ctx, s.cache)
	bottle.Category = &category
	return &bottle, nil
}

// Update 更新酒瓶
func (s *BottleService) Update(ctx context.Context, id uint, in BottleInput) (*Bottle, error) {
	var bottle Bottle
	if err := s.db.WithContext(ctx).First(&bottle, id).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}

	var category Category
	if err := s.db.WithContext(ctx).First(&category, in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewValidationError("bottle category does not exist")
		}
		return nil, wrapDBError(err, "bottle")
	}

	bottle.Name = in.Name
	bottle.CategoryID = in.CategoryID
	if in.InStock != nil {
		bottle.InStock = *in.InStock
	}
	if err := s.db.WithContext(ctx).Save(&bottle).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}

	invalidateAvailability(ctx, s.cache)
	bottle.Category = &category
	return &bottle, nil
}

// Delete 刪除酒瓶
func (s *BottleService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Bottle{}, id)
	if res.Error != nil {
		return wrapDBError(res.Error, "bottle")
	}
	if res.RowsAffected == 0 {
		return common.NewNotFoundError("bottle not found")
	}
	invalidateAvailability(ctx, s.cache)
	return nil
}
