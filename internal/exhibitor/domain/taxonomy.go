package domain

import "strings"

// VendorCategories は出店区分の正準ラベル一覧。
var VendorCategories = []string{
	"キッチンカー",
	"屋台",
	"物販",
	"ワークショップ",
	"サービス",
}

// CanonicalVendorCategory はユーザー入力を正規化して既知の出店区分に合わせる。
// ローマ字コードと正準ラベルの両方を受け付け、未知の値はそのまま返す。
func CanonicalVendorCategory(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	switch strings.ToLower(trimmed) {
	case "kitchen_car", "kitchencar", "food_truck":
		return "キッチンカー"
	case "yatai", "stall":
		return "屋台"
	case "buppan", "goods", "retail":
		return "物販"
	case "workshop":
		return "ワークショップ"
	case "service":
		return "サービス"
	}

	for _, category := range VendorCategories {
		if trimmed == category {
			return trimmed
		}
	}

	return trimmed
}

// KnownVendorCategory は正準ラベルとして登録済みの区分かどうかを返す。
func KnownVendorCategory(category string) bool {
	for _, known := range VendorCategories {
		if category == known {
			return true
		}
	}
	return false
}
