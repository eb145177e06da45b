package catalog

import (
	"context"

	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryService 分類服務
type CategoryService struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewCategoryService 創建分類服務
func NewCategoryService(db *gorm.DB, cacheSvc *cache.Service) *CategoryService {
	return &CategoryService{db: db, cache: cacheSvc}
}

// CategoryInput 分類建立 / 更新輸入
type CategoryInput struct {
	Name             string              `json:"name" binding:"required"`
	Type             string              `json:"type"`
	DesiredStock     int                 `json:"desired_stock"`
	NameTranslations common.Translations `json:"name_translations"`
}

// List 列出所有分類
func (s *CategoryService) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, wrapDBError(err, "category")
	}
	return categories, nil
}

// Get 取得單一分類
func (s *CategoryService) Get(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, wrapDBError(err, "category")
	}
	return &category, nil
}

// Create 建立分類，必要時補建其分類類型
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*Category, error) {
	category := Category{
		Name:             in.Name,
		Type:             in.Type,
		DesiredStock:     in.DesiredStock,
		NameTranslations: in.NameTranslations.ToJSON(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureCategoryType(tx, in.Type); err != nil {
			return err
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, wrapDBError(err, "category")
	}

	common.LogInfo("分類已建立",
		zap.Uint("id", category.ID),
		zap.String("name", category.Name),
	)
	invalidateAvailability(ctx, s.cache)
	return &category, nil
}

// Update 更新分類
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*Category, error) {
	var category Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if err := EnsureCategoryType(tx, in.Type); err != nil {
			return err
		}
		category.Name = in.Name
		category.Type = in.Type
		category.DesiredStock = in.DesiredStock
		category.NameTranslations = in.NameTranslations.ToJSON()
		return tx.Save(&category).Error
	})
	if err != nil {
		return nil, wrapDBError(err, "category")
	}

	invalidateAvailability(ctx, s.cache)
	return &category, nil
}

// Delete 刪除分類
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return wrapDBError(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return common.NewNotFoundError("category not found")
	}
	invalidateAvailability(ctx, s.cache)
	return nil
}

// ListTypes 列出所有分類類型
func (s *CategoryService) ListTypes(ctx context.Context) ([]CategoryType, error) {
	var types []CategoryType
	if err := s.db.WithContext(ctx).Order("name").Find(&types).Error; err != nil {
		return nil, wrapDBError(err, "category type")
	}
	return types, nil
}
