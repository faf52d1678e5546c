package domain

import "encoding/json"

// FormType は下書きストア上でこのウィザードを識別する固定タグ。
// 同じユーザーが別種のフォームの下書きを持っても衝突しない。
const FormType = "exhibitor_registration"

// DraftPayloadVersion はペイロード形式の世代。古い形式の下書きを安全に
// 読み捨て・補完するための目印で、楽観ロックには使わない。
const DraftPayloadVersion = 1

// DraftPayload はリモートの下書きストアへ保存するスナップショット。
// (userID, FormType) をキーに不透明な JSON として永続化される。
type DraftPayload struct {
	Version        int       `json:"version"`
	Step           int       `json:"step"`
	Fields         Fields    `json:"fields"`
	Documents      Documents `json:"documents"`
	TermsAccepted  bool      `json:"termsAccepted"`
	HasViewedTerms bool      `json:"hasViewedTerms"`
}

// NewDraftPayload はフォーム状態からペイロードを組み立てる。
func NewDraftPayload(form FormState) DraftPayload {
	return DraftPayload{
		Version:        DraftPayloadVersion,
		Step:           int(form.Step),
		Fields:         form.Fields,
		Documents:      form.Documents,
		TermsAccepted:  form.TermsAccepted,
		HasViewedTerms: form.HasViewedTerms,
	}
}

// RestoreForm はペイロードをフォーム状態へ復元する。壊れた step は入力
// ステップへ丸め、欠けたフィールドは JSON デコード時点でゼロ値に補完済み。
func (p DraftPayload) RestoreForm() FormState {
	return FormState{
		Step:           CoerceStep(p.Step),
		Fields:         p.Fields,
		Documents:      p.Documents,
		TermsAccepted:  p.TermsAccepted,
		HasViewedTerms: p.HasViewedTerms,
	}
}

// IsEmpty は保存する価値のある値を一つも含まないかどうかを返す。
func (p DraftPayload) IsEmpty() bool {
	return p.RestoreForm().IsEmpty()
}

// Encode はストアへ渡す JSON 表現を返す。重複書き込み判定の基準値にも使う。
func (p DraftPayload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeDraftPayload は保存済み JSON からペイロードを復元する。
func DecodeDraftPayload(raw string) (DraftPayload, error) {
	var payload DraftPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return DraftPayload{}, err
	}
	return payload, nil
}
