package transfer

import (
	"context"
	"errors"
	"fmt"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResolutionAction 呼叫端對單一引用鍵的決定
type ResolutionAction string

const (
	ResolutionUseExisting ResolutionAction = "use_existing"
	ResolutionCreate      ResolutionAction = "create"
	ResolutionSkip        ResolutionAction = "skip" // 僅酒瓶引用合法
)

// UnitResolution 單位引用的決定
type UnitResolution struct {
	Action     ResolutionAction `json:"action"`
	ExistingID uint             `json:"existingId,omitempty"`
	Create     *UnitDescriptor  `json:"create,omitempty"`
}

// CategoryResolution 分類引用的決定
type CategoryResolution struct {
	Action     ResolutionAction `json:"action"`
	ExistingID uint             `json:"existingId,omitempty"`
	Create     *CategoryRef     `json:"create,omitempty"`
}

// BottleResolution 酒瓶引用的決定
type BottleResolution struct {
	Action     ResolutionAction `json:"action"`
	ExistingID uint             `json:"existingId,omitempty"`
	Create     *BottleRef       `json:"create,omitempty"`
}

// IngredientResolution 原料引用的決定
type IngredientResolution struct {
	Action     ResolutionAction `json:"action"`
	ExistingID uint             `json:"existingId,omitempty"`
	Create     *IngredientRef   `json:"create,omitempty"`
}

// Resolutions 確認匯入時每個引用鍵的決定；缺鍵表示不處理該引用
type Resolutions struct {
	Units       map[string]UnitResolution       `json:"units"`
	Categories  map[string]CategoryResolution   `json:"categories"`
	Bottles     map[string]BottleResolution     `json:"bottles"`
	Ingredients map[string]IngredientResolution `json:"ingredients"`
}

// ImportService 確認匯入：建立缺少的實體、把名稱引用改寫成目錄 ID、
// 在單一交易內建立完整的配方圖
type ImportService struct {
	db        *gorm.DB
	cocktails *cocktail.Service
	cache     *cache.Service
}

// NewImportService 創建匯入服務
func NewImportService(db *gorm.DB, cocktails *cocktail.Service, cacheSvc *cache.Service) *ImportService {
	return &ImportService{db: db, cocktails: cocktails, cache: cacheSvc}
}

// Confirm 執行確認匯入。
// 解析順序固定：單位 → 分類 → 酒瓶 → 原料 → 原料行 → 建立配方。
// 順序不能換：補建酒瓶需要已解析的分類 ID，原料行需要全部四張表。
// 任何一步失敗都會回滾整個交易，不存在部分套用。
func (s *ImportService) Confirm(ctx context.Context, doc *Document, res Resolutions) (*catalog.Cocktail, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var createdID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unitIDs, err := resolveUnits(tx, res.Units)
		if err != nil {
			return err
		}
		categoryIDs, err := resolveCategories(tx, res.Categories)
		if err != nil {
			return err
		}
		bottleIDs, err := resolveBottles(tx, res.Bottles, categoryIDs)
		if err != nil {
			return err
		}
		ingredientIDs, err := resolveIngredients(tx, res.Ingredients)
		if err != nil {
			return err
		}

		input := materialize(doc, unitIDs, categoryIDs, bottleIDs, ingredientIDs)
		created, err := cocktail.CreateTx(tx, input)
		if err != nil {
			return err
		}
		createdID = created.ID
		return nil
	})
	if err != nil {
		return nil, wrapImportError(err)
	}

	common.LogInfo("配方匯入完成",
		zap.Uint("cocktail_id", createdID),
		zap.String("name", doc.Recipe.Name),
	)
	s.cache.Invalidate(ctx, cache.KeyCocktailAvailability, cache.KeyLowStock)
	return s.cocktails.Get(ctx, createdID)
}

// wrapImportError 匯入錯誤分類：唯一鍵碰撞回報 Conflict 讓呼叫端
// 重新決定後整個重試，其餘未分類錯誤一律視為內部錯誤
func wrapImportError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.NewConflictError("name already exists", err)
	}
	return common.NewInternalError(err)
}

// resolveUnits 步驟一：解析單位引用
func resolveUnits(tx *gorm.DB, res map[string]UnitResolution) (map[string]uint, error) {
	ids := make(map[string]uint, len(res))
	for rawKey, r := range res {
		key := NormalizeKey(rawKey)
		switch r.Action {
		case ResolutionUseExisting:
			ids[key] = r.ExistingID
		case ResolutionCreate:
			if r.Create == nil {
				return nil, common.NewValidationError(fmt.Sprintf("unit %q: create resolution missing payload", rawKey))
			}
			unit := catalog.Unit{
				Name:                 r.Create.Name,
				Abbreviation:         r.Create.Abbreviation,
				ConversionFactorToMl: r.Create.ConversionFactorToMl,
				NameTranslations:     r.Create.NameTranslations.ToJSON(),
			}
			if err := tx.Create(&unit).Error; err != nil {
				return nil, err
			}
			ids[key] = unit.ID
		default:
			return nil, common.NewValidationError(fmt.Sprintf("unit %q: unsupported resolution action %q", rawKey, r.Action))
		}
	}
	return ids, nil
}

// resolveCategories 步驟二：解析分類引用。
// 補建分類時同時保證其分類類型存在，與一般分類建立的副作用一致。
func resolveCategories(tx *gorm.DB, res map[string]CategoryResolution) (map[string]uint, error) {
	ids := make(map[string]uint, len(res))
	for rawKey, r := range res {
		key := NormalizeKey(rawKey)
		switch r.Action {
		case ResolutionUseExisting:
			ids[key] = r.ExistingID
		case ResolutionCreate:
			if r.Create == nil {
				return nil, common.NewValidationError(fmt.Sprintf("category %q: create resolution missing payload", rawKey))
			}
			if err := catalog.EnsureCategoryType(tx, r.Create.Type); err != nil {
				return nil, err
			}
			category := catalog.Category{
				Name:             r.Create.Name,
				Type:             r.Create.Type,
				DesiredStock:     r.Create.DesiredStock,
				NameTranslations: r.Create.NameTranslations.ToJSON(),
			}
			if err := tx.Create(&category).Error; err != nil {
				return nil, err
			}
			ids[key] = category.ID
		default:
			return nil, common.NewValidationError(fmt.Sprintf("category %q: unsupported resolution action %q", rawKey, r.Action))
		}
	}
	return ids, nil
}

// resolveBottles 步驟三：解析酒瓶引用。
// skip 讓該鍵留在表外；補建酒瓶需要步驟二解析出的分類 ID，
// 分類未解析時整筆略過（記錄日誌，不視為錯誤）。
func resolveBottles(tx *gorm.DB, res map[string]BottleResolution, categoryIDs map[string]uint) (map[string]uint, error) {
	ids := make(map[string]uint, len(res))
	for rawKey, r := range res {
		key := NormalizeKey(rawKey)
		switch r.Action {
		case ResolutionUseExisting:
			ids[key] = r.ExistingID
		case ResolutionCreate:
			if r.Create == nil {
				return nil, common.NewValidationError(fmt.Sprintf("bottle %q: create resolution missing payload", rawKey))
			}
			categoryID, ok := categoryIDs[NormalizeKey(r.Create.CategoryName)]
			if !ok {
				common.LogWarn("酒瓶補建略過：分類未解析",
					zap.String("bottle", r.Create.Name),
					zap.String("category", r.Create.CategoryName),
				)
				continue
			}
			bottle := catalog.Bottle{
				Name:       r.Create.Name,
				CategoryID: categoryID,
				InStock:    true,
			}
			if err := tx.Create(&bottle).Error; err != nil {
				return nil, err
			}
			ids[key] = bottle.ID
		case ResolutionSkip:
			// 刻意留空，後續由原料行的降級鏈處理
		default:
			return nil, common.NewValidationError(fmt.Sprintf("bottle %q: unsupported resolution action %q", rawKey, r.Action))
		}
	}
	return ids, nil
}

// resolveIngredients 步驟四：解析原料引用，獨立於其他表
func resolveIngredients(tx *gorm.DB, res map[string]IngredientResolution) (map[string]uint, error) {
	ids := make(map[string]uint, len(res))
	for rawKey, r := range res {
		key := NormalizeKey(rawKey)
		switch r.Action {
		case ResolutionUseExisting:
			ids[key] = r.ExistingID
		case ResolutionCreate:
			if r.Create == nil {
				return nil, common.NewValidationError(fmt.Sprintf("ingredient %q: create resolution missing payload", rawKey))
			}
			ingredient := catalog.Ingredient{
				Name:             r.Create.Name,
				Icon:             r.Create.Icon,
				NameTranslations: r.Create.NameTranslations.ToJSON(),
			}
			if err := tx.Create(&ingredient).Error; err != nil {
				return nil, err
			}
			ids[key] = ingredient.ID
		default:
			return nil, common.NewValidationError(fmt.Sprintf("ingredient %q: unsupported resolution action %q", rawKey, r.Action))
		}
	}
	return ids, nil
}

// materialize 步驟五：依文件順序把每一行的名稱引用改寫成目錄 ID。
// 行永遠不會被丟棄，只會放寬其來源（降級鏈見 widenBottleLine）。
func materialize(doc *Document, unitIDs, categoryIDs, bottleIDs, ingredientIDs map[string]uint) cocktail.Input {
	input := cocktail.Input{
		Name:        doc.Recipe.Name,
		Description: doc.Recipe.Description,
		Notes:       doc.Recipe.Notes,
		Tags:        doc.Recipe.Tags,
	}

	for _, docLine := range doc.Recipe.IngredientLines {
		line := cocktail.IngredientLineInput{
			Quantity: docLine.Quantity,
		}
		if id, ok := unitIDs[NormalizeKey(docLine.Unit.Abbreviation)]; ok {
			unitID := id
			line.UnitID = &unitID
		}

		switch docLine.SourceType {
		case catalog.SourceBottle:
			line.SourceType, line.BottleID, line.CategoryID = widenBottleLine(docLine, bottleIDs, categoryIDs)
		case catalog.SourceCategory:
			line.SourceType = catalog.SourceCategory
			if id, ok := categoryIDs[NormalizeKey(docLine.SourceName)]; ok {
				categoryID := id
				line.CategoryID = &categoryID
			}
			// 未解析時保持 CATEGORY 搭配空引用：呼叫端可見的不一致，
			// 不再進一步修正
		case catalog.SourceIngredient:
			line.SourceType = catalog.SourceIngredient
			if id, ok := ingredientIDs[NormalizeKey(docLine.SourceName)]; ok {
				ingredientID := id
				line.IngredientID = &ingredientID
			}
		}

		// 優先酒瓶是顯示提示而非必要資料，解析失敗的直接丟棄
		if line.SourceType == catalog.SourceCategory {
			for _, pb := range docLine.PreferredBottles {
				if id, ok := bottleIDs[NormalizeKey(pb.Name)]; ok {
					line.PreferredBottleIDs = append(line.PreferredBottleIDs, id)
				}
			}
		}

		input.Ingredients = append(input.Ingredients, line)
	}

	for _, step := range doc.Recipe.InstructionSteps {
		input.Instructions = append(input.Instructions, cocktail.InstructionInput{Text: step.Text})
	}

	return input
}

// widenBottleLine BOTTLE 行的降級鏈，一個明確的有序決策函式：
// 酒瓶有解 → 保持 BOTTLE；否則分類有解 → 降為 CATEGORY；
// 再不行 → 降為無引用的 INGREDIENT 佔位
func widenBottleLine(docLine IngredientLine, bottleIDs, categoryIDs map[string]uint) (catalog.SourceType, *uint, *uint) {
	if id, ok := bottleIDs[NormalizeKey(docLine.SourceName)]; ok {
		bottleID := id
		return catalog.SourceBottle, &bottleID, nil
	}
	if d := docLine.SourceDetail.Bottle; d != nil {
		if id, ok := categoryIDs[NormalizeKey(d.CategoryName)]; ok {
			categoryID := id
			common.LogInfo("酒瓶引用未解析，降級為分類",
				zap.String("bottle", docLine.SourceName),
				zap.String("category", d.CategoryName),
			)
			return catalog.SourceCategory, nil, &categoryID
		}
	}
	common.LogInfo("酒瓶引用與分類皆未解析，降級為原料佔位",
		zap.String("bottle", docLine.SourceName),
	)
	return catalog.SourceIngredient, nil, nil
}
