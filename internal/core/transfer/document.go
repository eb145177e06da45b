package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"
)

// FormatVersion 目前唯一支援的可攜文件版本
const FormatVersion = 1

// Document 可攜配方文件：不含任何實例 ID，實體一律以名稱引用
type Document struct {
	FormatVersion int       `json:"formatVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Recipe        Recipe    `json:"recipe"`
}

// Recipe 文件內的配方本體
type Recipe struct {
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	IngredientLines  []IngredientLine  `json:"ingredientLines"`
	InstructionSteps []InstructionStep `json:"instructionSteps"`
}

// InstructionStep 調製步驟；匯入時步驟編號一律重新編派
type InstructionStep struct {
	StepNumber int    `json:"stepNumber"`
	Text       string `json:"text"`
}

// UnitDescriptor 完整的單位描述（絕不只是 ID）
type UnitDescriptor struct {
	Name                 string              `json:"name"`
	Abbreviation         string              `json:"abbreviation"`
	ConversionFactorToMl float64             `json:"conversionFactorToMl"`
	NameTranslations     common.Translations `json:"nameTranslations,omitempty"`
}

// PreferredBottleRef 優先酒瓶引用；僅對 CATEGORY 行有意義
type PreferredBottleRef struct {
	Name         string `json:"name"`
	CategoryName string `json:"categoryName,omitempty"`
}

// BottleDetail BOTTLE 行的重建資料：缺少該酒瓶時可先重建其分類
type BottleDetail struct {
	CategoryName             string              `json:"categoryName"`
	CategoryType             string              `json:"categoryType,omitempty"`
	CategoryNameTranslations common.Translations `json:"categoryNameTranslations,omitempty"`
}

// CategoryDetail CATEGORY 行的重建資料
type CategoryDetail struct {
	Type             string              `json:"type,omitempty"`
	DesiredStock     int                 `json:"desiredStock,omitempty"`
	NameTranslations common.Translations `json:"nameTranslations,omitempty"`
}

// IngredientDetail INGREDIENT 行的重建資料
type IngredientDetail struct {
	Icon             string              `json:"icon,omitempty"`
	NameTranslations common.Translations `json:"nameTranslations,omitempty"`
}

// SourceDetail 依 sourceType 決定形狀的變體，恰好三種情況。
// 序列化時攤平為該情況的 payload；三者皆空時輸出空物件。
type SourceDetail struct {
	Bottle     *BottleDetail
	Category   *CategoryDetail
	Ingredient *IngredientDetail
}

// MarshalJSON 輸出目前持有的變體
func (d SourceDetail) MarshalJSON() ([]byte, error) {
	switch {
	case d.Bottle != nil:
		return json.Marshal(d.Bottle)
	case d.Category != nil:
		return json.Marshal(d.Category)
	case d.Ingredient != nil:
		return json.Marshal(d.Ingredient)
	default:
		return []byte("{}"), nil
	}
}

// IngredientLine 文件內的原料行
type IngredientLine struct {
	SourceType       catalog.SourceType   `json:"sourceType"`
	SourceName       string               `json:"sourceName"`
	SourceDetail     SourceDetail         `json:"sourceDetail"`
	Quantity         float64              `json:"quantity"`
	Unit             UnitDescriptor       `json:"unit"`
	Position         int                  `json:"position"`
	PreferredBottles []PreferredBottleRef `json:"preferredBottles,omitempty"`
}

// UnmarshalJSON 依 sourceType 解出 sourceDetail 的變體
func (l *IngredientLine) UnmarshalJSON(data []byte) error {
	type alias struct {
		SourceType       catalog.SourceType   `json:"sourceType"`
		SourceName       string               `json:"sourceName"`
		SourceDetail     json.RawMessage      `json:"sourceDetail"`
		Quantity         float64              `json:"quantity"`
		Unit             UnitDescriptor       `json:"unit"`
		Position         int                  `json:"position"`
		PreferredBottles []PreferredBottleRef `json:"preferredBottles"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	l.SourceType = a.SourceType
	l.SourceName = a.SourceName
	l.Quantity = a.Quantity
	l.Unit = a.Unit
	l.Position = a.Position
	l.PreferredBottles = a.PreferredBottles
	l.SourceDetail = SourceDetail{}

	if len(a.SourceDetail) == 0 || string(a.SourceDetail) == "null" {
		return nil
	}

	switch a.SourceType {
	case catalog.SourceBottle:
		var detail BottleDetail
		if err := json.Unmarshal(a.SourceDetail, &detail); err != nil {
			return fmt.Errorf("invalid bottle sourceDetail: %w", err)
		}
		l.SourceDetail.Bottle = &detail
	case catalog.SourceCategory:
		var detail CategoryDetail
		if err := json.Unmarshal(a.SourceDetail, &detail); err != nil {
			return fmt.Errorf("invalid category sourceDetail: %w", err)
		}
		l.SourceDetail.Category = &detail
	case catalog.SourceIngredient:
		var detail IngredientDetail
		if err := json.Unmarshal(a.SourceDetail, &detail); err != nil {
			return fmt.Errorf("invalid ingredient sourceDetail: %w", err)
		}
		l.SourceDetail.Ingredient = &detail
	default:
		return fmt.Errorf("unknown sourceType: %q", a.SourceType)
	}
	return nil
}

// Validate 在任何目錄存取前檢查文件本身：
// 版本必須等於 1、配方名稱不可為空。
func (d *Document) Validate() error {
	if d == nil {
		return common.NewValidationError("document is required")
	}
	if d.FormatVersion != FormatVersion {
		return common.NewValidationError(
			fmt.Sprintf("unsupported document format version: %d", d.FormatVersion))
	}
	if strings.TrimSpace(d.Recipe.Name) == "" {
		return common.NewValidationError("recipe name is required")
	}
	return nil
}
