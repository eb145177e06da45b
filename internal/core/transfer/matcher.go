package transfer

import (
	"context"

	"bar-catalog/internal/core/catalog"
	"bar-catalog/internal/pkg/common"

	"gorm.io/gorm"
)

// MatchStatus 單一引用的比對結果狀態
type MatchStatus string

const (
	MatchStatusMatched MatchStatus = "matched"
	MatchStatusMissing MatchStatus = "missing"
)

// CategoryRef 分類的重建資料（含名稱）
type CategoryRef struct {
	Name             string              `json:"name"`
	Type             string              `json:"type,omitempty"`
	DesiredStock     int                 `json:"desiredStock,omitempty"`
	NameTranslations common.Translations `json:"nameTranslations,omitempty"`
}

// BottleRef 酒瓶的重建資料（含名稱）
type BottleRef struct {
	Name         string `json:"name"`
	CategoryName string `json:"categoryName,omitempty"`
}

// IngredientRef 原料的重建資料（含名稱）
type IngredientRef struct {
	Name             string              `json:"name"`
	Icon             string              `json:"icon,omitempty"`
	NameTranslations common.Translations `json:"nameTranslations,omitempty"`
}

// UnitMatch 單位比對結果
type UnitMatch struct {
	Ref           UnitDescriptor `json:"ref"`
	ExistingMatch *catalog.Unit  `json:"existingMatch"`
	Status        MatchStatus    `json:"status"`
}

// CategoryMatch 分類比對結果
type CategoryMatch struct {
	Ref           CategoryRef       `json:"ref"`
	ExistingMatch *catalog.Category `json:"existingMatch"`
	Status        MatchStatus       `json:"status"`
}

// BottleMatch 酒瓶比對結果
type BottleMatch struct {
	Ref           BottleRef       `json:"ref"`
	ExistingMatch *catalog.Bottle `json:"existingMatch"`
	Status        MatchStatus     `json:"status"`
}

// IngredientMatch 原料比對結果
type IngredientMatch struct {
	Ref           IngredientRef       `json:"ref"`
	ExistingMatch *catalog.Ingredient `json:"existingMatch"`
	Status        MatchStatus         `json:"status"`
}

// CocktailSummary 預覽中的配方摘要
type CocktailSummary struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	AlreadyExists bool     `json:"alreadyExists"`
}

// Preview 匯入預覽結果
type Preview struct {
	Cocktail    CocktailSummary   `json:"cocktail"`
	Units       []UnitMatch       `json:"units"`
	Categories  []CategoryMatch   `json:"categories"`
	Bottles     []BottleMatch     `json:"bottles"`
	Ingredients []IngredientMatch `json:"ingredients"`
}

// MatchService 匯入預覽：比對文件引用與目前目錄，不做任何寫入，
// 可重複、可並行呼叫
type MatchService struct {
	db *gorm.DB
}

// NewMatchService 創建匯入預覽服務
func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{db: db}
}

// Preview 計算文件中每個引用是否已存在於目錄
func (s *MatchService) Preview(ctx context.Context, doc *Document) (*Preview, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	refs := collectReferences(doc)
	db := s.db.WithContext(ctx)

	var units []catalog.Unit
	if err := db.Find(&units).Error; err != nil {
		return nil, common.NewInternalError(err)
	}
	var categories []catalog.Category
	if err := db.Find(&categories).Error; err != nil {
		return nil, common.NewInternalError(err)
	}
	var bottles []catalog.Bottle
	if err := db.Preload("Category").Find(&bottles).Error; err != nil {
		return nil, common.NewInternalError(err)
	}
	var ingredients []catalog.Ingredient
	if err := db.Find(&ingredients).Error; err != nil {
		return nil, common.NewInternalError(err)
	}
	var cocktailNames []string
	if err := db.Model(&catalog.Cocktail{}).Pluck("name", &cocktailNames).Error; err != nil {
		return nil, common.NewInternalError(err)
	}

	// 大小寫不敏感的查表在核心做，不下放給儲存層的 collation
	unitByKey := make(map[string]*catalog.Unit, len(units))
	for i := range units {
		key := NormalizeKey(units[i].Abbreviation)
		if _, ok := unitByKey[key]; !ok {
			unitByKey[key] = &units[i]
		}
	}
	categoryByKey := make(map[string]*catalog.Category, len(categories))
	for i := range categories {
		key := NormalizeKey(categories[i].Name)
		if _, ok := categoryByKey[key]; !ok {
			categoryByKey[key] = &categories[i]
		}
	}
	bottleByKey := make(map[string]*catalog.Bottle, len(bottles))
	for i := range bottles {
		key := NormalizeKey(bottles[i].Name)
		if _, ok := bottleByKey[key]; !ok {
			bottleByKey[key] = &bottles[i]
		}
	}
	ingredientByKey := make(map[string]*catalog.Ingredient, len(ingredients))
	for i := range ingredients {
		key := NormalizeKey(ingredients[i].Name)
		if _, ok := ingredientByKey[key]; !ok {
			ingredientByKey[key] = &ingredients[i]
		}
	}

	preview := &Preview{
		Cocktail: CocktailSummary{
			Name:        doc.Recipe.Name,
			Description: doc.Recipe.Description,
			Tags:        doc.Recipe.Tags,
			// 配方本身的存在檢查刻意用大小寫敏感的相等：
			// 這是提示呼叫端名稱碰撞，而不是悄悄重用
			AlreadyExists: containsExact(cocktailNames, doc.Recipe.Name),
		},
	}

	for _, key := range refs.unitKeys {
		m := UnitMatch{Ref: refs.units[key], Status: MatchStatusMissing}
		if row, ok := unitByKey[key]; ok {
			m.ExistingMatch = row
			m.Status = MatchStatusMatched
		}
		preview.Units = append(preview.Units, m)
	}
	for _, key := range refs.categoryKeys {
		m := CategoryMatch{Ref: refs.categories[key], Status: MatchStatusMissing}
		if row, ok := categoryByKey[key]; ok {
			m.ExistingMatch = row
			m.Status = MatchStatusMatched
		}
		preview.Categories = append(preview.Categories, m)
	}
	for _, key := range refs.bottleKeys {
		m := BottleMatch{Ref: refs.bottles[key], Status: MatchStatusMissing}
		if row, ok := bottleByKey[key]; ok {
			m.ExistingMatch = row
			m.Status = MatchStatusMatched
		}
		preview.Bottles = append(preview.Bottles, m)
	}
	for _, key := range refs.ingredientKeys {
		m := IngredientMatch{Ref: refs.ingredients[key], Status: MatchStatusMissing}
		if row, ok := ingredientByKey[key]; ok {
			m.ExistingMatch = row
			m.Status = MatchStatusMatched
		}
		preview.Ingredients = append(preview.Ingredients, m)
	}

	return preview, nil
}

func containsExact(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// docRefs 文件引用的去重集合，保留首次出現的順序與 payload
type docRefs struct {
	unitKeys []string
	units    map[string]UnitDescriptor

	categoryKeys []string
	categories   map[string]CategoryRef

	bottleKeys []string
	bottles    map[string]BottleRef

	ingredientKeys []string
	ingredients    map[string]IngredientRef
}

// collectReferences 走訪所有原料行一次，收集四種去重後的引用。
// 一律「不存在才插入」：先出現的重建 payload 優先，
// 後到、更詳細的引用不會錯誤覆蓋先前的佔位。
func collectReferences(doc *Document) *docRefs {
	refs := &docRefs{
		units:       make(map[string]UnitDescriptor),
		categories:  make(map[string]CategoryRef),
		bottles:     make(map[string]BottleRef),
		ingredients: make(map[string]IngredientRef),
	}

	for _, line := range doc.Recipe.IngredientLines {
		refs.addUnit(line.Unit)

		switch line.SourceType {
		case catalog.SourceBottle:
			ref := BottleRef{Name: line.SourceName}
			if d := line.SourceDetail.Bottle; d != nil {
				ref.CategoryName = d.CategoryName
				// 缺瓶時得先有分類才能補建酒瓶，因此 BOTTLE 行也貢獻
				// 一個隱含的分類引用
				refs.addCategory(CategoryRef{
					Name:             d.CategoryName,
					Type:             d.CategoryType,
					NameTranslations: d.CategoryNameTranslations,
				})
			}
			refs.addBottle(ref)
		case catalog.SourceCategory:
			ref := CategoryRef{Name: line.SourceName}
			if d := line.SourceDetail.Category; d != nil {
				ref.Type = d.Type
				ref.DesiredStock = d.DesiredStock
				ref.NameTranslations = d.NameTranslations
			}
			refs.addCategory(ref)
		case catalog.SourceIngredient:
			ref := IngredientRef{Name: line.SourceName}
			if d := line.SourceDetail.Ingredient; d != nil {
				ref.Icon = d.Icon
				ref.NameTranslations = d.NameTranslations
			}
			refs.addIngredient(ref)
		}

		for _, pb := range line.PreferredBottles {
			refs.addBottle(BottleRef{Name: pb.Name, CategoryName: pb.CategoryName})
			refs.addCategory(CategoryRef{Name: pb.CategoryName})
		}
	}

	return refs
}

func (r *docRefs) addUnit(ref UnitDescriptor) {
	key := NormalizeKey(ref.Abbreviation)
	if key == "" {
		return
	}
	if _, ok := r.units[key]; ok {
		return
	}
	r.units[key] = ref
	r.unitKeys = append(r.unitKeys, key)
}

func (r *docRefs) addCategory(ref CategoryRef) {
	key := NormalizeKey(ref.Name)
	if key == "" {
		return
	}
	if _, ok := r.categories[key]; ok {
		return
	}
	r.categories[key] = ref
	r.categoryKeys = append(r.categoryKeys, key)
}

func (r *docRefs) addBottle(ref BottleRef) {
	key := NormalizeKey(ref.Name)
	if key == "" {
		return
	}
	if _, ok := r.bottles[key]; ok {
		return
	}
	r.bottles[key] = ref
	r.bottleKeys = append(r.bottleKeys, key)
}

func (r *docRefs) addIngredient(ref IngredientRef) {
	key := NormalizeKey(ref.Name)
	if key == "" {
		return
	}
	if _, ok := r.ingredients[key]; ok {
		return
	}
	r.ingredients[key] = ref
	r.ingredientKeys = append(r.ingredientKeys, key)
}
