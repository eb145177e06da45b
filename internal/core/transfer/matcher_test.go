package transfer

import (
	"context"
	"path/filepath"
	"testing"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/infrastructure/database"
	"bar-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.AutoMigrateAll(db))
	return db
}

func sampleDocument() *Document {
	return &Document{
		FormatVersion: FormatVersion,
		Recipe: Recipe{
			Name: "Daiquiri",
			Tags: []string{"sour"},
			IngredientLines: []IngredientLine{
				{
					SourceType: catalog.SourceBottle,
					SourceName: "Appleton",
					SourceDetail: SourceDetail{Bottle: &BottleDetail{
						CategoryName: "Rum",
						CategoryType: "Spirit",
					}},
					Quantity: 2,
					Unit:     UnitDescriptor{Name: "Ounce", Abbreviation: "oz", ConversionFactorToMl: 29.57},
				},
				{
					SourceType:   catalog.SourceIngredient,
					SourceName:   "Lime Juice",
					SourceDetail: SourceDetail{Ingredient: &IngredientDetail{Icon: "lime"}},
					Quantity:     1,
					Unit:         UnitDescriptor{Name: "Ounce", Abbreviation: "oz", ConversionFactorToMl: 29.57},
					Position:     1,
				},
			},
			InstructionSteps: []InstructionStep{{StepNumber: 1, Text: "Shake"}},
		},
	}
}

func TestPreviewEmptyCatalogAllMissing(t *testing.T) {
	svc := NewMatchService(testDB(t))

	preview, err := svc.Preview(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.False(t, preview.Cocktail.AlreadyExists)
	require.Len(t, preview.Units, 1)
	assert.Equal(t, MatchStatusMissing, preview.Units[0].Status)
	require.Len(t, preview.Bottles, 1)
	assert.Equal(t, MatchStatusMissing, preview.Bottles[0].Status)
	// BOTTLE 行也貢獻其分類的隱含引用
	require.Len(t, preview.Categories, 1)
	assert.Equal(t, "Rum", preview.Categories[0].Ref.Name)
	assert.Equal(t, MatchStatusMissing, preview.Categories[0].Status)
	require.Len(t, preview.Ingredients, 1)
	assert.Equal(t, MatchStatusMissing, preview.Ingredients[0].Status)
}

func TestPreviewMatchingIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&catalog.Unit{Name: "Ounce", Abbreviation: "OZ"}).Error)
	require.NoError(t, db.Create(&catalog.Category{Name: "RUM"}).Error)
	var rum catalog.Category
	require.NoError(t, db.Where("name = ?", "RUM").First(&rum).Error)
	require.NoError(t, db.Create(&catalog.Bottle{Name: "APPLETON", CategoryID: rum.ID}).Error)
	require.NoError(t, db.Create(&catalog.Ingredient{Name: "lime juice"}).Error)

	svc := NewMatchService(db)
	preview, err := svc.Preview(context.Background(), sampleDocument())
	require.NoError(t, err)

	require.Len(t, preview.Units, 1)
	assert.Equal(t, MatchStatusMatched, preview.Units[0].Status)
	require.NotNil(t, preview.Units[0].ExistingMatch)

	require.Len(t, preview.Categories, 1)
	assert.Equal(t, MatchStatusMatched, preview.Categories[0].Status)

	require.Len(t, preview.Bottles, 1)
	assert.Equal(t, MatchStatusMatched, preview.Bottles[0].Status)
	assert.Equal(t, "APPLETON", preview.Bottles[0].ExistingMatch.Name)

	require.Len(t, preview.Ingredients, 1)
	assert.Equal(t, MatchStatusMatched, preview.Ingredients[0].Status)
}

func TestPreviewCocktailExistenceIsCaseSensitive(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&catalog.Cocktail{Name: "daiquiri"}).Error)

	svc := NewMatchService(db)
	preview, err := svc.Preview(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.False(t, preview.Cocktail.AlreadyExists)

	require.NoError(t, db.Create(&catalog.Cocktail{Name: "Daiquiri"}).Error)
	preview, err = svc.Preview(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, preview.Cocktail.AlreadyExists)
}

func TestPreviewRejectsUnsupportedVersion(t *testing.T) {
	svc := NewMatchService(testDB(t))
	doc := sampleDocument()
	doc.FormatVersion = 2

	_, err := svc.Preview(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestCollectReferencesDedupesFirstOccurrenceWins(t *testing.T) {
	doc := &Document{
		FormatVersion: FormatVersion,
		Recipe: Recipe{
			Name: "Layered",
			IngredientLines: []IngredientLine{
				{
					SourceType: catalog.SourceCategory,
					SourceName: "Rum",
					SourceDetail: SourceDetail{Category: &CategoryDetail{
						Type:         "Spirit",
						DesiredStock: 3,
					}},
					Unit: UnitDescriptor{Abbreviation: "oz"},
				},
				// 同一分類再次出現，名稱大小寫不同、payload 較貧乏
				{
					SourceType: catalog.SourceCategory,
					SourceName: "RUM",
					Unit:       UnitDescriptor{Abbreviation: "OZ"},
				},
			},
		},
	}

	refs := collectReferences(doc)

	require.Len(t, refs.categoryKeys, 1)
	got := refs.categories[refs.categoryKeys[0]]
	assert.Equal(t, "Rum", got.Name)
	assert.Equal(t, "Spirit", got.Type)
	assert.Equal(t, 3, got.DesiredStock)

	require.Len(t, refs.unitKeys, 1)
	assert.Equal(t, "oz", refs.units[refs.unitKeys[0]].Abbreviation)
}

func TestCollectReferencesPreservesDocumentOrder(t *testing.T) {
	doc := &Document{
		FormatVersion: FormatVersion,
		Recipe: Recipe{
			Name: "Ordered",
			IngredientLines: []IngredientLine{
				{SourceType: catalog.SourceIngredient, SourceName: "Zucchini", Unit: UnitDescriptor{Abbreviation: "g"}},
				{SourceType: catalog.SourceIngredient, SourceName: "Agave", Unit: UnitDescriptor{Abbreviation: "ml"}},
			},
		},
	}

	refs := collectReferences(doc)
	require.Len(t, refs.ingredientKeys, 2)
	assert.Equal(t, "Zucchini", refs.ingredients[refs.ingredientKeys[0]].Name)
	assert.Equal(t, "Agave", refs.ingredients[refs.ingredientKeys[1]].Name)
}

func TestCollectReferencesIncludesPreferredBottles(t *testing.T) {
	doc := &Document{
		FormatVersion: FormatVersion,
		Recipe: Recipe{
			Name: "Preferred",
			IngredientLines: []IngredientLine{
				{
					SourceType: catalog.SourceCategory,
					SourceName: "Rum",
					Unit:       UnitDescriptor{Abbreviation: "oz"},
					PreferredBottles: []PreferredBottleRef{
						{Name: "Appleton", CategoryName: "Rum"},
						{Name: "Plantation", CategoryName: "Rum"},
					},
				},
			},
		},
	}

	refs := collectReferences(doc)
	assert.Len(t, refs.bottleKeys, 2)
	assert.Len(t, refs.categoryKeys, 1)
}
