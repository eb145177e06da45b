package cocktail

import (
	"context"
	"errors"
	"fmt"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service 調酒配方服務
type Service struct {
	db    *gorm.DB
	cache *cache.Service
}

// NewService 創建調酒配方服務
func NewService(db *gorm.DB, cacheSvc *cache.Service) *Service {
	return &Service{db: db, cache: cacheSvc}
}

// IngredientLineInput 原料行輸入；SourceType 決定哪個 ID 有意義
type IngredientLineInput struct {
	SourceType         catalog.SourceType `json:"source_type" binding:"required"`
	BottleID           *uint              `json:"bottle_id"`
	CategoryID         *uint              `json:"category_id"`
	IngredientID       *uint              `json:"ingredient_id"`
	Quantity           float64            `json:"quantity"`
	UnitID             *uint              `json:"unit_id"`
	PreferredBottleIDs []uint             `json:"preferred_bottle_ids"`
}

// InstructionInput 調製步驟輸入；步驟編號一律重新編派
type InstructionInput struct {
	Text string `json:"text"`
}

// Input 配方建立 / 更新輸入
type Input struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	Notes        string                `json:"notes"`
	Tags         []string              `json:"tags"`
	Ingredients  []IngredientLineInput `json:"ingredients"`
	Instructions []InstructionInput    `json:"instructions"`
}

// List 列出所有配方（含原料與步驟）
func (s *Service) List(ctx context.Context) ([]catalog.Cocktail, error) {
	var cocktails []catalog.Cocktail
	if err := s.preloadAll(s.db.WithContext(ctx)).Order("name").Find(&cocktails).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return cocktails, nil
}

// Get 取得單一配方及其完整關聯
func (s *Service) Get(ctx context.Context, id uint) (*catalog.Cocktail, error) {
	var c catalog.Cocktail
	if err := s.preloadAll(s.db.WithContext(ctx)).First(&c, id).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return &c, nil
}

// Create 建立配方及其完整的原料 / 步驟集合
func (s *Service) Create(ctx context.Context, in Input) (*catalog.Cocktail, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var created *catalog.Cocktail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = CreateTx(tx, in)
		return err
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	common.LogInfo("配方已建立",
		zap.Uint("id", created.ID),
		zap.String("name", created.Name),
	)
	s.invalidate(ctx)
	return s.Get(ctx, created.ID)
}

// Update 更新配方；原料與步驟集合整組替換，不做部分合併
func (s *Service) Update(ctx context.Context, id uint, in Input) (*catalog.Cocktail, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing catalog.Cocktail
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}

		if err := deleteRelations(tx, id); err != nil {
			return err
		}

		existing.Name = in.Name
		existing.Description = in.Description
		existing.Notes = in.Notes
		existing.Tags = catalog.JoinTags(in.Tags)
		existing.Ingredients = buildIngredients(id, in.Ingredients)
		existing.Instructions = buildInstructions(id, in.Instructions)
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&existing).Error
	})
	if err != nil {
		return nil, wrapDBError(err)
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete 刪除配方
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing catalog.Cocktail
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		if err := deleteRelations(tx, id); err != nil {
			return err
		}
		return tx.Delete(&catalog.Cocktail{}, id).Error
	})
	if err != nil {
		return wrapDBError(err)
	}
	s.invalidate(ctx)
	return nil
}

// CreateTx 在既有交易中建立配方與其完整關聯。
// 位置與步驟編號一律依輸入順序重新編派。
func CreateTx(tx *gorm.DB, in Input) (*catalog.Cocktail, error) {
	c := catalog.Cocktail{
		Name:         in.Name,
		Description:  in.Description,
		Notes:        in.Notes,
		Tags:         catalog.JoinTags(in.Tags),
		Ingredients:  buildIngredients(0, in.Ingredients),
		Instructions: buildInstructions(0, in.Instructions),
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// buildIngredients 依陣列順序建立原料行，position 重派為 0..n-1
func buildIngredients(cocktailID uint, lines []IngredientLineInput) []catalog.CocktailIngredient {
	out := make([]catalog.CocktailIngredient, 0, len(lines))
	for i, line := range lines {
		row := catalog.CocktailIngredient{
			CocktailID:   cocktailID,
			SourceType:   line.SourceType,
			BottleID:     line.BottleID,
			CategoryID:   line.CategoryID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			UnitID:       line.UnitID,
			Position:     i,
		}
		// 優先酒瓶僅對 CATEGORY 行有意義
		if line.SourceType == catalog.SourceCategory {
			for j, bottleID := range line.PreferredBottleIDs {
				row.PreferredBottles = append(row.PreferredBottles, catalog.CocktailIngredientBottle{
					BottleID: bottleID,
					Position: j,
				})
			}
		}
		out = append(out, row)
	}
	return out
}

// buildInstructions 依陣列順序建立步驟，step_number 重派為 1..n
func buildInstructions(cocktailID uint, steps []InstructionInput) []catalog.CocktailInstruction {
	out := make([]catalog.CocktailInstruction, 0, len(steps))
	for i, step := range steps {
		out = append(out, catalog.CocktailInstruction{
			CocktailID: cocktailID,
			StepNumber: i + 1,
			Text:       step.Text,
		})
	}
	return out
}

// deleteRelations 移除配方的原料行（含優先酒瓶）與步驟
func deleteRelations(tx *gorm.DB, cocktailID uint) error {
	var lineIDs []uint
	if err := tx.Model(&catalog.CocktailIngredient{}).
		Where("cocktail_id = ?", cocktailID).
		Pluck("id", &lineIDs).Error; err != nil {
		return err
	}
	if len(lineIDs) > 0 {
		if err := tx.Where("cocktail_ingredient_id IN ?", lineIDs).
			Delete(&catalog.CocktailIngredientBottle{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("cocktail_id = ?", cocktailID).
		Delete(&catalog.CocktailIngredient{}).Error; err != nil {
		return err
	}
	return tx.Where("cocktail_id = ?", cocktailID).
		Delete(&catalog.CocktailInstruction{}).Error
}

// preloadAll 載入配方的全部關聯，順序固定
func (s *Service) preloadAll(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Ingredients.Bottle").
		Preload("Ingredients.Bottle.Category").
		Preload("Ingredients.Category").
		Preload("Ingredients.Ingredient").
		Preload("Ingredients.Unit").
		Preload("Ingredients.PreferredBottles", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Preload("Ingredients.PreferredBottles.Bottle").
		Preload("Ingredients.PreferredBottles.Bottle.Category").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number")
		})
}

func (s *Service) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.KeyCocktailAvailability, cache.KeyLowStock)
}

// validateInput 基本輸入驗證
func validateInput(in Input) error {
	if in.Name == "" {
		return common.NewValidationError("cocktail name is required")
	}
	for i, line := range in.Ingredients {
		if line.Quantity < 0 {
			return common.NewValidationError(fmt.Sprintf("ingredient line %d has negative quantity", i))
		}
	}
	return nil
}

// wrapDBError 將 gorm 錯誤映射為統一錯誤分類
func wrapDBError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NewNotFoundError("cocktail not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.NewConflictError("cocktail name already exists", err)
	default:
		return common.NewInternalError(err)
	}
}
