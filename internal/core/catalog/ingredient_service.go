package catalog

import (
	"context"

	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"gorm.io/gorm"
)

// IngredientService 原料服務
type IngredientService struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewIngredientService 創建原料服務
func NewIngredientService(db *gorm.DB, cacheSvc *cache.Service) *IngredientService {
	return &IngredientService{db: db, cache: cacheSvc}
}

// IngredientInput 原料建立 / 更新輸入
type IngredientInput struct {
	Name             string              `json:"name" binding:"required"`
	Icon             string              `json:"icon"`
	NameTranslations common.Translations `json:"name_translations"`
}

// List 列出所有原料
func (s *IngredientService) List(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	if err := s.db.WithContext(ctx).Order("name").Find(&ingredients).Error; err != nil {
		return nil, wrapDBError(err, "ingredient")
	}
	return ingredients, nil
}

// Get 取得單一原料
func (s *IngredientService) Get(ctx context.Context, id uint) (*Ingredient, error) {
	var ingredient Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, wrapDBError(err, "ingredient")
	}
	return &ingredient, nil
}

// Create 建立原料
func (s *IngredientService) Create(ctx context.Context, in IngredientInput) (*Ingredient, error) {
	ingredient := Ingredient{
		Name:             in.Name,
		Icon:             in.Icon,
		NameTranslations: in.NameTranslations.ToJSON(),
	}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, wrapDBError(err, "ingredient")
	}
	invalidateAvailability(ctx, s.cache)
	return &ingredient, nil
}

// Update 更新原料
func (s *IngredientService) Update(ctx context.Context, id uint, in IngredientInput) (*Ingredient, error) {
	var ingredient Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, wrapDBError(err, "ingredient")
	}
	ingredient.Name = in.Name
	ingredient.Icon = in.Icon
	ingredient.NameTranslations = in.NameTranslations.ToJSON()
	if err := s.db.WithContext(ctx).Save(&ingredient).Error; err != nil {
		return nil, wrapDBError(err, "ingredient")
	}
	invalidateAvailability(ctx, s.cache)
	return &ingredient, nil
}

// Delete 刪除原料
func (s *IngredientService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Ingredient{}, id)
	if res.Error != nil {
		return wrapDBError(res.Error, "ingredient")
	}
	if res.RowsAffected == 0 {
		return common.NewNotFoundError("ingredient not found")
	}
	invalidateAvailability(ctx, s.cache)
	return nil
}
