package domain

// Step はウィザードの進行段階。1=入力、2=確認、3=完了（終端）。
type Step int

const (
	StepInput    Step = 1
	StepConfirm  Step = 2
	StepComplete Step = 3
)

// CoerceStep は復元した値を {1,2,3} に丸める。範囲外・未設定は入力ステップへ戻す。
func CoerceStep(value int) Step {
	switch Step(value) {
	case StepInput, StepConfirm, StepComplete:
		return Step(value)
	default:
		return StepInput
	}
}

// Gender は出店者の性別区分。
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

// Valid は既知の性別区分かどうかを返す。空文字は未入力扱いで false。
func (g Gender) Valid() bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther:
		return true
	}
	return false
}

// Fields は出店登録フォームの入力値。Age は未入力を nil で表現する。
type Fields struct {
	Name     string `json:"name"`
	Gender   Gender `json:"gender"`
	Age      *int   `json:"age,omitempty"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Genre    string `json:"genre"`
}

// DocumentSlot は提出書類の枠を識別する。
type DocumentSlot string

const (
	SlotBusinessLicense      DocumentSlot = "businessLicense"
	SlotVehicleInspection    DocumentSlot = "vehicleInspection"
	SlotAutomobileInspection DocumentSlot = "automobileInspection"
	SlotLiabilityInsurance   DocumentSlot = "liabilityInsurance"
	SlotFireEquipmentLayout  DocumentSlot = "fireEquipmentLayout"
)

// DocumentSlots は書類枠の宣言順。バリデーションのエラー順序にもこの順を使う。
var DocumentSlots = []DocumentSlot{
	SlotBusinessLicense,
	SlotVehicleInspection,
	SlotAutomobileInspection,
	SlotLiabilityInsurance,
	SlotFireEquipmentLayout,
}

// ValidDocumentSlot は既知の書類枠かどうかを返す。
func ValidDocumentSlot(slot DocumentSlot) bool {
	for _, s := range DocumentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Documents は 5 枠の提出書類。値はアップロード済みリソースの URL、空文字は未提出。
type Documents struct {
	BusinessLicense      string `json:"businessLicense"`
	VehicleInspection    string `json:"vehicleInspection"`
	AutomobileInspection string `json:"automobileInspection"`
	LiabilityInsurance   string `json:"liabilityInsurance"`
	FireEquipmentLayout  string `json:"fireEquipmentLayout"`
}

// Get は書類枠の URL を返す。
func (d Documents) Get(slot DocumentSlot) string {
	switch slot {
	case SlotBusinessLicense:
		return d.BusinessLicense
	case SlotVehicleInspection:
		return d.VehicleInspection
	case SlotAutomobileInspection:
		return d.AutomobileInspection
	case SlotLiabilityInsurance:
		return d.LiabilityInsurance
	case SlotFireEquipmentLayout:
		return d.FireEquipmentLayout
	}
	return ""
}

// Set は書類枠に URL を設定する。未知の枠は無視する。
func (d *Documents) Set(slot DocumentSlot, url string) {
	switch slot {
	case SlotBusinessLicense:
		d.BusinessLicense = url
	case SlotVehicleInspection:
		d.VehicleInspection = url
	case SlotAutomobileInspection:
		d.AutomobileInspection = url
	case SlotLiabilityInsurance:
		d.LiabilityInsurance = url
	case SlotFireEquipmentLayout:
		d.FireEquipmentLayout = url
	}
}

// FormState は編集中のウィザード全体のメモリ上の状態。
type FormState struct {
	Step           Step
	Fields         Fields
	Documents      Documents
	TermsAccepted  bool
	HasViewedTerms bool
}

// NewFormState は入力ステップから始まる空のフォーム状態を返す。
func NewFormState() FormState {
	return FormState{Step: StepInput}
}

// IsEmpty はステップ以外のすべてが初期値かどうかを返す。
// 空のフォームの下書きは保存してはならない、という不変条件の判定に使う。
func (f FormState) IsEmpty() bool {
	if f.Fields != (Fields{}) {
		return false
	}
	if f.Documents != (Documents{}) {
		return false
	}
	return !f.TermsAccepted && !f.HasViewedTerms
}
