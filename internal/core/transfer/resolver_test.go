package transfer

import (
	"context"
	"testing"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newImportService(t *testing.T) (*ImportService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	cacheSvc, err := cache.NewService(&config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	cocktails := cocktail.NewService(db, cacheSvc)
	return NewImportService(db, cocktails, cacheSvc), db
}

// createAll 對範例文件的所有引用都回答 create
func createAll() Resolutions {
	return Resolutions{
		Units: map[string]UnitResolution{
			"oz": {Action: ResolutionCreate, Create: &UnitDescriptor{
				Name: "Ounce", Abbreviation: "oz", ConversionFactorToMl: 29.57,
			}},
		},
		Categories: map[string]CategoryResolution{
			"rum": {Action: ResolutionCreate, Create: &CategoryRef{
				Name: "Rum", Type: "Spirit",
			}},
		},
		Bottles: map[string]BottleResolution{
			"appleton": {Action: ResolutionCreate, Create: &BottleRef{
				Name: "Appleton", CategoryName: "Rum",
			}},
		},
		Ingredients: map[string]IngredientResolution{
			"lime juice": {Action: ResolutionCreate, Create: &IngredientRef{
				Name: "Lime Juice", Icon: "lime",
			}},
		},
	}
}

func TestConfirmCreatesEntitiesAndCocktail(t *testing.T) {
	svc, db := newImportService(t)

	created, err := svc.Confirm(context.Background(), sampleDocument(), createAll())
	require.NoError(t, err)

	assert.Equal(t, "Daiquiri", created.Name)
	assert.Equal(t, "sour", created.Tags)

	require.Len(t, created.Ingredients, 2)
	first := created.Ingredients[0]
	assert.Equal(t, catalog.SourceBottle, first.SourceType)
	require.NotNil(t, first.Bottle)
	assert.Equal(t, "Appleton", first.Bottle.Name)
	require.NotNil(t, first.Unit)
	assert.Equal(t, "oz", first.Unit.Abbreviation)

	second := created.Ingredients[1]
	assert.Equal(t, catalog.SourceIngredient, second.SourceType)
	require.NotNil(t, second.Ingredient)
	assert.Equal(t, "Lime Juice", second.Ingredient.Name)

	require.Len(t, created.Instructions, 1)
	assert.Equal(t, 1, created.Instructions[0].StepNumber)

	// 補建分類的同時其分類類型也被保證存在
	var ct catalog.CategoryType
	require.NoError(t, db.Where("name = ?", "Spirit").First(&ct).Error)
	assert.Equal(t, catalog.DefaultCategoryTypeColor, ct.Color)
}

func TestConfirmUsesExistingEntities(t *testing.T) {
	svc, db := newImportService(t)

	require.NoError(t, db.Create(&catalog.Unit{Name: "Ounce", Abbreviation: "oz"}).Error)
	var oz catalog.Unit
	require.NoError(t, db.Where("abbreviation = ?", "oz").First(&oz).Error)
	require.NoError(t, db.Create(&catalog.Category{Name: "Rum"}).Error)
	var rum catalog.Category
	require.NoError(t, db.Where("name = ?", "Rum").First(&rum).Error)
	require.NoError(t, db.Create(&catalog.Bottle{Name: "Appleton", CategoryID: rum.ID}).Error)
	var appleton catalog.Bottle
	require.NoError(t, db.Where("name = ?", "Appleton").First(&appleton).Error)
	require.NoError(t, db.Create(&catalog.Ingredient{Name: "Lime Juice"}).Error)
	var lime catalog.Ingredient
	require.NoError(t, db.Where("name = ?", "Lime Juice").First(&lime).Error)

	res := Resolutions{
		Units:       map[string]UnitResolution{"oz": {Action: ResolutionUseExisting, ExistingID: oz.ID}},
		Categories:  map[string]CategoryResolution{"rum": {Action: ResolutionUseExisting, ExistingID: rum.ID}},
		Bottles:     map[string]BottleResolution{"appleton": {Action: ResolutionUseExisting, ExistingID: appleton.ID}},
		Ingredients: map[string]IngredientResolution{"lime juice": {Action: ResolutionUseExisting, ExistingID: lime.ID}},
	}

	created, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.NoError(t, err)

	require.Len(t, created.Ingredients, 2)
	require.NotNil(t, created.Ingredients[0].BottleID)
	assert.Equal(t, appleton.ID, *created.Ingredients[0].BottleID)

	// 沒有額外補建任何實體
	var bottles int64
	require.NoError(t, db.Model(&catalog.Bottle{}).Count(&bottles).Error)
	assert.EqualValues(t, 1, bottles)
}

func TestConfirmSkippedBottleDegradesToCategory(t *testing.T) {
	svc, _ := newImportService(t)

	res := createAll()
	res.Bottles["appleton"] = BottleResolution{Action: ResolutionSkip}

	created, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.NoError(t, err)

	require.Len(t, created.Ingredients, 2)
	line := created.Ingredients[0]
	assert.Equal(t, catalog.SourceCategory, line.SourceType)
	assert.Nil(t, line.BottleID)
	require.NotNil(t, line.CategoryID)
	require.NotNil(t, line.Category)
	assert.Equal(t, "Rum", line.Category.Name)
}

func TestConfirmUnresolvedBottleAndCategoryDegradesToPlaceholder(t *testing.T) {
	svc, _ := newImportService(t)

	res := createAll()
	res.Bottles["appleton"] = BottleResolution{Action: ResolutionSkip}
	delete(res.Categories, "rum")

	created, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.NoError(t, err)

	line := created.Ingredients[0]
	assert.Equal(t, catalog.SourceIngredient, line.SourceType)
	assert.Nil(t, line.BottleID)
	assert.Nil(t, line.CategoryID)
	assert.Nil(t, line.IngredientID)
	// 數量與位置仍保留
	assert.Equal(t, 2.0, line.Quantity)
	assert.Equal(t, 0, line.Position)
}

func TestConfirmBottleCreateWithoutCategorySkipsBottle(t *testing.T) {
	svc, db := newImportService(t)

	res := createAll()
	// 酒瓶要補建但其分類沒有任何決定：整筆略過，不視為錯誤
	delete(res.Categories, "rum")

	created, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.NoError(t, err)

	var bottles int64
	require.NoError(t, db.Model(&catalog.Bottle{}).Count(&bottles).Error)
	assert.EqualValues(t, 0, bottles)
	assert.Equal(t, catalog.SourceIngredient, created.Ingredients[0].SourceType)
}

func TestConfirmRollsBackOnNameConflict(t *testing.T) {
	svc, db := newImportService(t)
	require.NoError(t, db.Create(&catalog.Cocktail{Name: "Daiquiri"}).Error)

	_, err := svc.Confirm(context.Background(), sampleDocument(), createAll())
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	// 交易回滾：途中補建的實體一個都不留
	var units, categories, bottles, ingredients int64
	require.NoError(t, db.Model(&catalog.Unit{}).Count(&units).Error)
	require.NoError(t, db.Model(&catalog.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&catalog.Bottle{}).Count(&bottles).Error)
	require.NoError(t, db.Model(&catalog.Ingredient{}).Count(&ingredients).Error)
	assert.EqualValues(t, 0, units)
	assert.EqualValues(t, 0, categories)
	assert.EqualValues(t, 0, bottles)
	assert.EqualValues(t, 0, ingredients)
}

func TestConfirmRejectsSkipOutsideBottles(t *testing.T) {
	svc, _ := newImportService(t)

	res := createAll()
	res.Units["oz"] = UnitResolution{Action: ResolutionSkip}

	_, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestConfirmRejectsCreateWithoutPayload(t *testing.T) {
	svc, _ := newImportService(t)

	res := createAll()
	res.Ingredients["lime juice"] = IngredientResolution{Action: ResolutionCreate}

	_, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestConfirmRejectsUnsupportedVersionBeforeWrites(t *testing.T) {
	svc, db := newImportService(t)

	doc := sampleDocument()
	doc.FormatVersion = 2
	_, err := svc.Confirm(context.Background(), doc, createAll())
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))

	var units int64
	require.NoError(t, db.Model(&catalog.Unit{}).Count(&units).Error)
	assert.EqualValues(t, 0, units)
}

func TestConfirmResolutionKeysAreNormalized(t *testing.T) {
	svc, _ := newImportService(t)

	// 決定用大寫鍵送進來，仍須對上文件的正規化鍵
	res := Resolutions{
		Units: map[string]UnitResolution{
			"OZ": {Action: ResolutionCreate, Create: &UnitDescriptor{Name: "Ounce", Abbreviation: "oz"}},
		},
		Categories: map[string]CategoryResolution{
			"RUM": {Action: ResolutionCreate, Create: &CategoryRef{Name: "Rum"}},
		},
		Bottles: map[string]BottleResolution{
			"APPLETON": {Action: ResolutionCreate, Create: &BottleRef{Name: "Appleton", CategoryName: "Rum"}},
		},
		Ingredients: map[string]IngredientResolution{
			"LIME JUICE": {Action: ResolutionCreate, Create: &IngredientRef{Name: "Lime Juice"}},
		},
	}

	created, err := svc.Confirm(context.Background(), sampleDocument(), res)
	require.NoError(t, err)

	require.Len(t, created.Ingredients, 2)
	assert.Equal(t, catalog.SourceBottle, created.Ingredients[0].SourceType)
	require.NotNil(t, created.Ingredients[0].BottleID)
	require.NotNil(t, created.Ingredients[0].UnitID)
	require.NotNil(t, created.Ingredients[1].IngredientID)
}

func TestMaterializeRenumbersInstructions(t *testing.T) {
	doc := sampleDocument()
	doc.Recipe.InstructionSteps = []InstructionStep{
		{StepNumber: 4, Text: "Shake"},
		{StepNumber: 9, Text: "Strain"},
	}

	input := materialize(doc, nil, nil, nil, nil)
	require.Len(t, input.Instructions, 2)
	assert.Equal(t, "Shake", input.Instructions[0].Text)
	assert.Equal(t, "Strain", input.Instructions[1].Text)
}

func TestWidenBottleLine(t *testing.T) {
	line := IngredientLine{
		SourceType: catalog.SourceBottle,
		SourceName: "Appleton",
		SourceDetail: SourceDetail{Bottle: &BottleDetail{
			CategoryName: "Rum",
		}},
	}

	// 酒瓶有解：保持 BOTTLE
	st, bottleID, categoryID := widenBottleLine(line, map[string]uint{"appleton": 5}, nil)
	assert.Equal(t, catalog.SourceBottle, st)
	require.NotNil(t, bottleID)
	assert.EqualValues(t, 5, *bottleID)
	assert.Nil(t, categoryID)

	// 酒瓶無解、分類有解：降為 CATEGORY
	st, bottleID, categoryID = widenBottleLine(line, nil, map[string]uint{"rum": 3})
	assert.Equal(t, catalog.SourceCategory, st)
	assert.Nil(t, bottleID)
	require.NotNil(t, categoryID)
	assert.EqualValues(t, 3, *categoryID)

	// 兩者皆無解：降為無引用的 INGREDIENT 佔位
	st, bottleID, categoryID = widenBottleLine(line, nil, nil)
	assert.Equal(t, catalog.SourceIngredient, st)
	assert.Nil(t, bottleID)
	assert.Nil(t, categoryID)
}
