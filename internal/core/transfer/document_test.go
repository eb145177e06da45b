package transfer

import (
	"encoding/json"
	"testing"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDetailMarshalPicksVariant(t *testing.T) {
	bottle := SourceDetail{Bottle: &BottleDetail{CategoryName: "Rum", CategoryType: "Spirit"}}
	data, err := json.Marshal(bottle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"categoryName":"Rum","categoryType":"Spirit"}`, string(data))

	empty := SourceDetail{}
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestIngredientLineUnmarshalSwitchesOnSourceType(t *testing.T) {
	raw := `{
		"sourceType": "CATEGORY",
		"sourceName": "Rum",
		"sourceDetail": {"type": "Spirit", "desiredStock": 2},
		"quantity": 2,
		"unit": {"name": "Ounce", "abbreviation": "oz", "conversionFactorToMl": 29.57},
		"position": 0
	}`

	var line IngredientLine
	require.NoError(t, json.Unmarshal([]byte(raw), &line))

	assert.Equal(t, catalog.SourceCategory, line.SourceType)
	require.NotNil(t, line.SourceDetail.Category)
	assert.Equal(t, "Spirit", line.SourceDetail.Category.Type)
	assert.Equal(t, 2, line.SourceDetail.Category.DesiredStock)
	assert.Nil(t, line.SourceDetail.Bottle)
	assert.Nil(t, line.SourceDetail.Ingredient)
}

func TestIngredientLineUnmarshalRejectsUnknownSourceType(t *testing.T) {
	raw := `{"sourceType": "GARNISH", "sourceName": "Mint", "sourceDetail": {"icon": "x"}}`
	var line IngredientLine
	err := json.Unmarshal([]byte(raw), &line)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sourceType")
}

func TestIngredientLineUnmarshalAllowsMissingDetail(t *testing.T) {
	raw := `{"sourceType": "BOTTLE", "sourceName": "Appleton"}`
	var line IngredientLine
	require.NoError(t, json.Unmarshal([]byte(raw), &line))
	assert.Nil(t, line.SourceDetail.Bottle)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Document{
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

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Recipe.Name, decoded.Recipe.Name)
	require.Len(t, decoded.Recipe.IngredientLines, 2)
	require.NotNil(t, decoded.Recipe.IngredientLines[0].SourceDetail.Bottle)
	assert.Equal(t, "Rum", decoded.Recipe.IngredientLines[0].SourceDetail.Bottle.CategoryName)
	require.NotNil(t, decoded.Recipe.IngredientLines[1].SourceDetail.Ingredient)
	assert.Equal(t, "lime", decoded.Recipe.IngredientLines[1].SourceDetail.Ingredient.Icon)
}

func TestDocumentValidate(t *testing.T) {
	doc := &Document{FormatVersion: FormatVersion, Recipe: Recipe{Name: "Daiquiri"}}
	require.NoError(t, doc.Validate())

	unsupported := &Document{FormatVersion: 2, Recipe: Recipe{Name: "Daiquiri"}}
	err := unsupported.Validate()
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))

	unnamed := &Document{FormatVersion: FormatVersion, Recipe: Recipe{Name: "   "}}
	err = unnamed.Validate()
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, NormalizeKey("Rum"), NormalizeKey("rum"))
	assert.Equal(t, NormalizeKey("RUM"), NormalizeKey("rum"))
	assert.NotEqual(t, NormalizeKey("rum"), NormalizeKey("gin"))
}
