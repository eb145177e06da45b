package transfer

import "strings"

// NormalizeKey 從顯示名稱產生比對鍵。
// 僅做小寫化，匯出去重、比對與解析查表都使用同一個函式，
// 同名但大小寫不同的引用才會收斂成同一個處理單位。
func NormalizeKey(name string) string {
	return strings.ToLower(name)
}
