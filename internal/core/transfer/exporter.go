package transfer

import (
	"context"
	"time"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/pkg/common"

	"go.uber.org/zap"
)

// ExportService 將儲存的配方投影成可攜文件，無任何副作用
type ExportService struct {
	cocktails *cocktail.Service
}

// NewExportService 創建匯出服務
func NewExportService(cocktails *cocktail.Service) *ExportService {
	return &ExportService{cocktails: cocktails}
}

// Export 匯出指定配方；配方不存在時回傳 NotFound
func (s *ExportService) Export(ctx context.Context, cocktailID uint) (*Document, error) {
	c, err := s.cocktails.Get(ctx, cocktailID)
	if err != nil {
		return nil, err
	}

	doc := BuildDocument(c)
	common.LogInfo("配方已匯出",
		zap.Uint("cocktail_id", c.ID),
		zap.String("name", c.Name),
		zap.Int("ingredient_lines", len(doc.Recipe.IngredientLines)),
	)
	return doc, nil
}

// BuildDocument 從已載入完整關聯的配方建立文件，純投影
func BuildDocument(c *catalog.Cocktail) *Document {
	recipe := Recipe{
		Name:             c.Name,
		Description:      c.Description,
		Notes:            c.Notes,
		Tags:             catalog.SplitTags(c.Tags),
		IngredientLines:  make([]IngredientLine, 0, len(c.Ingredients)),
		InstructionSteps: make([]InstructionStep, 0, len(c.Instructions)),
	}

	for i, line := range c.Ingredients {
		recipe.IngredientLines = append(recipe.IngredientLines, exportLine(line, i))
	}
	for _, step := range c.Instructions {
		recipe.InstructionSteps = append(recipe.InstructionSteps, InstructionStep{
			StepNumber: step.StepNumber,
			Text:       step.Text,
		})
	}

	return &Document{
		FormatVersion: FormatVersion,
		ExportedAt:    time.Now().UTC(),
		Recipe:        recipe,
	}
}

// exportLine 匯出單一原料行。
// 預期的關聯物件不存在時（資料毀損）改輸出空名稱與空 detail，
// 不讓單一壞行毀掉整份匯出。
func exportLine(line catalog.CocktailIngredient, position int) IngredientLine {
	out := IngredientLine{
		SourceType: line.SourceType,
		Quantity:   line.Quantity,
		Position:   position,
	}

	if line.Unit != nil {
		out.Unit = UnitDescriptor{
			Name:                 line.Unit.Name,
			Abbreviation:         line.Unit.Abbreviation,
			ConversionFactorToMl: line.Unit.ConversionFactorToMl,
			NameTranslations:     common.TranslationsFromJSON(line.Unit.NameTranslations),
		}
	}

	switch line.SourceType {
	case catalog.SourceBottle:
		if line.Bottle == nil {
			break
		}
		out.SourceName = line.Bottle.Name
		detail := &BottleDetail{}
		if line.Bottle.Category != nil {
			detail.CategoryName = line.Bottle.Category.Name
			detail.CategoryType = line.Bottle.Category.Type
			detail.CategoryNameTranslations = common.TranslationsFromJSON(line.Bottle.Category.NameTranslations)
		}
		out.SourceDetail.Bottle = detail
	case catalog.SourceCategory:
		if line.Category == nil {
			break
		}
		out.SourceName = line.Category.Name
		out.SourceDetail.Category = &CategoryDetail{
			Type:             line.Category.Type,
			DesiredStock:     line.Category.DesiredStock,
			NameTranslations: common.TranslationsFromJSON(line.Category.NameTranslations),
		}
	case catalog.SourceIngredient:
		if line.Ingredient == nil {
			break
		}
		out.SourceName = line.Ingredient.Name
		out.SourceDetail.Ingredient = &IngredientDetail{
			Icon:             line.Ingredient.Icon,
			NameTranslations: common.TranslationsFromJSON(line.Ingredient.NameTranslations),
		}
	}

	// 優先酒瓶只在原料行真的有設定時輸出
	for _, pb := range line.PreferredBottles {
		if pb.Bottle == nil {
			continue
		}
		ref := PreferredBottleRef{Name: pb.Bottle.Name}
		if pb.Bottle.Category != nil {
			ref.CategoryName = pb.Bottle.Category.Name
		} else if line.Category != nil {
			// 酒瓶分類未知時退回原料行自己的分類名稱
			ref.CategoryName = line.Category.Name
		}
		out.PreferredBottles = append(out.PreferredBottles, ref)
	}

	return out
}
