package domain

// VerificationState は営業許可証チェックの進行状態。
type VerificationState string

const (
	VerificationIdle      VerificationState = "idle"
	VerificationVerifying VerificationState = "verifying"
	VerificationValid     VerificationState = "valid"
	VerificationInvalid   VerificationState = "invalid"
)

// VerificationStatus は現在アップロードされている営業許可証に対する
// 確認結果。アップロードのたびに丸ごと置き換え、削除で idle に戻す。
type VerificationStatus struct {
	State          VerificationState `json:"state"`
	ExpirationDate string            `json:"expirationDate,omitempty"`
	Reason         string            `json:"reason,omitempty"`
}

// VerificationIdleStatus は未確認状態を返す。
func VerificationIdleStatus() VerificationStatus {
	return VerificationStatus{State: VerificationIdle}
}

// VerificationVerifyingStatus は確認リクエスト送信中の状態を返す。
func VerificationVerifyingStatus() VerificationStatus {
	return VerificationStatus{State: VerificationVerifying}
}

// VerificationValidStatus は有効期限付きの有効判定を返す。
func VerificationValidStatus(expirationDate string) VerificationStatus {
	return VerificationStatus{State: VerificationValid, ExpirationDate: expirationDate}
}

// VerificationInvalidStatus は理由付きの無効判定を返す。提出は妨げない。
func VerificationInvalidStatus(reason string) VerificationStatus {
	return VerificationStatus{State: VerificationInvalid, Reason: reason}
}
