package catalog

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// SourceType 原料行的來源類型
type SourceType string

const (
	SourceBottle     SourceType = "BOTTLE"     // 指定酒瓶
	SourceCategory   SourceType = "CATEGORY"   // 指定分類（任一瓶皆可）
	SourceIngredient SourceType = "INGREDIENT" // 非酒精原料
)

// DefaultCategoryTypeColor 自動補建分類類型時使用的預設顏色
const DefaultCategoryTypeColor = "#888888"

// CategoryType 分類類型（如烈酒、利口酒、糖漿）
type CategoryType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category 酒瓶分類
type Category struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"uniqueIndex;not null" json:"name"`
	Type             string         `json:"type"` // 對應 CategoryType.Name
	DesiredStock     int            `json:"desired_stock"`
	NameTranslations datatypes.JSON `json:"name_translations,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Unit 計量單位
type Unit struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"not null" json:"name"`
	Abbreviation         string         `gorm:"uniqueIndex;not null" json:"abbreviation"`
	ConversionFactorToMl float64        `json:"conversion_factor_to_ml"`
	NameTranslations     datatypes.JSON `json:"name_translations,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// Bottle 酒瓶
type Bottle struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	CategoryID uint      `gorm:"index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	InStock    bool      `gorm:"default:true" json:"in_stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Ingredient 非酒精原料（果汁、糖漿、裝飾物）
type Ingredient struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"uniqueIndex;not null" json:"name"`
	Icon             string         `json:"icon"`
	NameTranslations datatypes.JSON `json:"name_translations,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Cocktail 調酒配方
type Cocktail struct {
	ID           uint                  `gorm:"primaryKey" json:"id"`
	Name         string                `gorm:"uniqueIndex;not null" json:"name"`
	Description  string                `json:"description"`
	Notes        string                `json:"notes"`
	Tags         string                `json:"tags"` // 逗號分隔
	Ingredients  []CocktailIngredient  `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
	Instructions []CocktailInstruction `gorm:"constraint:OnDelete:CASCADE" json:"instructions"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// CocktailIngredient 配方原料行
// SourceType 決定 BottleID / CategoryID / IngredientID 哪個有值；
// 匯入的降級行允許三者皆空。
type CocktailIngredient struct {
	ID           uint                       `gorm:"primaryKey" json:"id"`
	CocktailID   uint                       `gorm:"index" json:"cocktail_id"`
	SourceType   SourceType                 `gorm:"not null" json:"source_type"`
	BottleID     *uint                      `json:"bottle_id,omitempty"`
	Bottle       *Bottle                    `json:"bottle,omitempty"`
	CategoryID   *uint                      `json:"category_id,omitempty"`
	Category     *Category                  `json:"category,omitempty"`
	IngredientID *uint                      `json:"ingredient_id,omitempty"`
	Ingredient   *Ingredient                `json:"ingredient,omitempty"`
	Quantity     float64                    `json:"quantity"`
	UnitID       *uint                      `json:"unit_id,omitempty"`
	Unit         *Unit                      `json:"unit,omitempty"`
	Position     int                        `json:"position"`
	// 僅 CATEGORY 行使用：優先選用的酒瓶
	PreferredBottles []CocktailIngredientBottle `gorm:"constraint:OnDelete:CASCADE" json:"preferred_bottles,omitempty"`
}

// CocktailIngredientBottle 原料行的優先酒瓶（有序）
type CocktailIngredientBottle struct {
	ID                   uint    `gorm:"primaryKey" json:"id"`
	CocktailIngredientID uint    `gorm:"index" json:"cocktail_ingredient_id"`
	BottleID             uint    `json:"bottle_id"`
	Bottle               *Bottle `json:"bottle,omitempty"`
	Position             int     `json:"position"`
}

// CocktailInstruction 調製步驟
type CocktailInstruction struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CocktailID uint   `gorm:"index" json:"cocktail_id"`
	StepNumber int    `json:"step_number"`
	Text       string `json:"text"`
}

// SplitTags 將逗號分隔的標籤字串拆成有序列表，去除空白與空項
func SplitTags(tags string) []string {
	if tags == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// JoinTags 將標籤列表組回儲存用的逗號分隔字串
func JoinTags(tags []string) string {
	var kept []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, ",")
}
