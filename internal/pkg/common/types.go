package common

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Translations 名稱翻譯（語言代碼 → 顯示名稱）
type Translations map[string]string

// ToJSON 轉換為儲存用的 JSON 欄位，空翻譯回傳 nil
func (t Translations) ToJSON() datatypes.JSON {
	if len(t) == 0 {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// TranslationsFromJSON 從儲存的 JSON 欄位還原翻譯
func TranslationsFromJSON(data datatypes.JSON) Translations {
	if len(data) == 0 {
		return nil
	}
	var t Translations
	if err := json.Unmarshal(data, &t); err != nil {
		return nil
	}
	return t
}
