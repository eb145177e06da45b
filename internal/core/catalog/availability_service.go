package catalog

import (
	"context"

	"bar-catalog/internal/infrastructure/cache"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bar-catalog/internal/pkg/common"
)

// AvailabilityService 衍生的庫存 / 可調性計算，純讀取
type AvailabilityService struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewAvailabilityService 創建庫存計算服務
func NewAvailabilityService(db *gorm.DB, cacheSvc *cache.Service) *AvailabilityService {
	return &AvailabilityService{db: db, cache: cacheSvc}
}

// CocktailAvailability 單一調酒的可調性
type CocktailAvailability struct {
	CocktailID   uint   `json:"cocktail_id"`
	Name         string `json:"name"`
	Available    bool   `json:"available"`
	MissingLines int    `json:"missing_lines"` // 無法滿足的原料行數
}

// LowStockEntry 低於期望庫存的分類
type LowStockEntry struct {
	CategoryID   uint   `json:"category_id"`
	Name         string `json:"name"`
	DesiredStock int    `json:"desired_stock"`
	InStock      int    `json:"in_stock"`
}

// Cocktails 計算每杯調酒是否可調
func (s *AvailabilityService) Cocktails(ctx context.Context) ([]CocktailAvailability, error) {
	var cached []CocktailAvailability
	if hit, err := s.cache.GetJSON(ctx, cache.KeyCocktailAvailability, &cached); err == nil && hit {
		return cached, nil
	}

	stock, err := s.categoryStock(ctx)
	if err != nil {
		return nil, err
	}

	var cocktails []Cocktail
	if err := s.db.WithContext(ctx).
		Preload("Ingredients").
		Preload("Ingredients.Bottle").
		Order("name").
		Find(&cocktails).Error; err != nil {
		return nil, wrapDBError(err, "cocktail")
	}

	result := make([]CocktailAvailability, 0, len(cocktails))
	for _, c := range cocktails {
		missing := 0
		for _, line := range c.Ingredients {
			if !s.lineAvailable(line, stock) {
				missing++
			}
		}
		result = append(result, CocktailAvailability{
			CocktailID:   c.ID,
			Name:         c.Name,
			Available:    missing == 0,
			MissingLines: missing,
		})
	}

	if err := s.cache.SetJSON(ctx, cache.KeyCocktailAvailability, result); err != nil {
		common.LogWarn("寫入可調性快取失敗", zap.Error(err))
	}
	return result, nil
}

// LowStock 列出庫存低於期望值的分類
func (s *AvailabilityService) LowStock(ctx context.Context) ([]LowStockEntry, error) {
	var cached []LowStockEntry
	if hit, err := s.cache.GetJSON(ctx, cache.KeyLowStock, &cached); err == nil && hit {
		return cached, nil
	}

	stock, err := s.categoryStock(ctx)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, wrapDBError(err, "category")
	}

	var result []LowStockEntry
	for _, c := range categories {
		if c.DesiredStock <= 0 {
			continue
		}
		if stock[c.ID] < c.DesiredStock {
			result = append(result, LowStockEntry{
				CategoryID:   c.ID,
				Name:         c.Name,
				DesiredStock: c.DesiredStock,
				InStock:      stock[c.ID],
			})
		}
	}

	if err := s.cache.SetJSON(ctx, cache.KeyLowStock, result); err != nil {
		common.LogWarn("寫入低庫存快取失敗", zap.Error(err))
	}
	return result, nil
}

// categoryStock 每個分類目前有庫存的酒瓶數
func (s *AvailabilityService) categoryStock(ctx context.Context) (map[uint]int, error) {
	var bottles []Bottle
	if err := s.db.WithContext(ctx).Where("in_stock = ?", true).Find(&bottles).Error; err != nil {
		return nil, wrapDBError(err, "bottle")
	}
	stock := make(map[uint]int, len(bottles))
	for _, b := range bottles {
		stock[b.CategoryID]++
	}
	return stock, nil
}

// lineAvailable 單一原料行是否可被滿足
func (s *AvailabilityService) lineAvailable(line CocktailIngredient, stock map[uint]int) bool {
	switch line.SourceType {
	case SourceBottle:
		return line.BottleID != nil && line.Bottle != nil && line.Bottle.InStock
	case SourceCategory:
		return line.CategoryID != nil && stock[*line.CategoryID] > 0
	case SourceIngredient:
		return line.IngredientID != nil
	default:
		return false
	}
}
