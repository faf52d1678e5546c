package workflow

import (
	"strings"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// フィールド識別子。エラー順序は入力画面の宣言順に合わせる。
const (
	FieldName          = "name"
	FieldGender        = "gender"
	FieldAge           = "age"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldCategory      = "category"
	FieldGenre         = "genre"
	FieldTermsAccepted = "termsAccepted"
)

// FieldError は利用者が修正できるフィールド単位の検証エラー。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult は入力ステップ全体の検証結果。FocusField は宣言順で
// 最初に失敗したフィールドで、画面側のスクロール・フォーカス誘導に使う。
type ValidationResult struct {
	Errors     []FieldError `json:"errors,omitempty"`
	FocusField string       `json:"focusField,omitempty"`
}

// OK は全ルールを通過したかどうかを返す。
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(field, message string) {
	if r.FocusField == "" {
		r.FocusField = field
	}
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

var documentSlotLabels = map[domain.DocumentSlot]string{
	domain.SlotBusinessLicense:      "営業許可証",
	domain.SlotVehicleInspection:    "車両点検記録",
	domain.SlotAutomobileInspection: "車検証",
	domain.SlotLiabilityInsurance:   "PL保険加入証",
	domain.SlotFireEquipmentLayout:  "火器類レイアウト図",
}

// DocumentSlotLabel は書類枠の表示名を返す。
func DocumentSlotLabel(slot domain.DocumentSlot) string {
	if label, ok := documentSlotLabels[slot]; ok {
		return label
	}
	return string(slot)
}

// ValidateForm は入力ステップの全ルールを短絡せずに評価し、失敗した
// フィールドをすべて列挙する。確認ステップへ進む前のゲートとして使う。
func ValidateForm(form domain.FormState) ValidationResult {
	var result ValidationResult

	if strings.TrimSpace(form.Fields.Name) == "" {
		result.add(FieldName, "お名前を入力してください")
	}

	if form.Fields.Gender == "" {
		result.add(FieldGender, "性別を選択してください")
	} else if !form.Fields.Gender.Valid() {
		result.add(FieldGender, "性別の指定が正しくありません")
	}

	if form.Fields.Age != nil && !domain.ValidAge(*form.Fields.Age) {
		result.add(FieldAge, "年齢は0〜99の範囲で入力してください")
	}

	if strings.TrimSpace(form.Fields.Phone) == "" {
		result.add(FieldPhone, "電話番号を入力してください")
	} else if _, err := domain.NormalizePhoneNumber(form.Fields.Phone); err != nil {
		result.add(FieldPhone, err.Error())
	}

	if strings.TrimSpace(form.Fields.Email) == "" {
		result.add(FieldEmail, "メールアドレスを入力してください")
	} else if !domain.ValidEmail(form.Fields.Email) {
		result.add(FieldEmail, "メールアドレスの形式が正しくありません")
	}

	if strings.TrimSpace(form.Fields.Category) == "" {
		result.add(FieldCategory, "出店区分を選択してください")
	}

	if strings.TrimSpace(form.Fields.Genre) == "" {
		result.add(FieldGenre, "出店ジャンルを入力してください")
	}

	for _, slot := range domain.DocumentSlots {
		if strings.TrimSpace(form.Documents.Get(slot)) == "" {
			result.add(string(slot), DocumentSlotLabel(slot)+"をアップロードしてください")
		}
	}

	if !form.TermsAccepted {
		result.add(FieldTermsAccepted, "利用規約への同意が必要です")
	}

	return result
}
