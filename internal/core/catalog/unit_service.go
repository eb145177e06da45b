package catalog

import (
	"context"

	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"gorm.io/gorm"
)

// UnitService 計量單位服務
type UnitService struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewUnitService 創建計量單位服務
func NewUnitService(db *gorm.DB, cacheSvc *cache.Service) *UnitService {
	return &UnitService{db: db, cache: cacheSvc}
}

// UnitInput 單位建立 / 更新輸入
type UnitInput struct {
	Name                 string              `json:"name" binding:"required"`
	Abbreviation         string              `json:"abbreviation" binding:"required"`
	ConversionFactorToMl float64             `json:"conversion_factor_to_ml"`
	NameTranslations     common.Translations `json:"name_translations"`
}

// List 列出所有單位
func (s *UnitService) List(ctx context.Context) ([]Unit, error) {
	var units []Unit
	if err := s.db.WithContext(ctx).Order("abbreviation").Find(&units).Error; err != nil {
		return nil, wrapDBError(err, "unit")
	}
	return units, nil
}

// Get 取得單一單位
func (s *UnitService) Get(ctx context.Context, id uint) (*Unit, error) {
	var unit Unit
	if err := s.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, wrapDBError(err, "unit")
	}
	return &unit, nil
}

// Create 建立單位
func (s *UnitService) Create(ctx context.Context, in UnitInput) (*Unit, error) {
	unit := Unit{
		Name:                 in.Name,
		Abbreviation:         in.Abbreviation,
		ConversionFactorToMl: in.ConversionFactorToMl,
		NameTranslations:     in.NameTranslations.ToJSON(),
	}
	if err := s.db.WithContext(ctx).Create(&unit).Error; err != nil {
		return nil, wrapDBError(err, "unit")
	}
	return &unit, nil
}

// Update 更新單位
func (s *UnitService) Update(ctx context.Context, id uint, in UnitInput) (*Unit, error) {
	var unit Unit
	if err := s.db.WithContext(ctx).First(&unit, id).Error; err != nil {
		return nil, wrapDBError(err, "unit")
	}
	unit.Name = in.Name
	unit.Abbreviation = in.Abbreviation
	unit.ConversionFactorToMl = in.ConversionFactorToMl
	unit.NameTranslations = in.NameTranslations.ToJSON()
	if err := s.db.WithContext(ctx).Save(&unit).Error; err != nil {
		return nil, wrapDBError(err, "unit")
	}
	return &unit, nil
}

// Delete 刪除單位
func (s *UnitService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Unit{}, id)
	if res.Error != nil {
		return wrapDBError(res.Error, "unit")
	}
	if res.RowsAffected == 0 {
		return common.NewNotFoundError("unit not found")
	}
	return nil
}
