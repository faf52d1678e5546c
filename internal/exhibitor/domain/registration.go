package domain

import "time"

// Registration は本登録として恒久ストアへ保存する確定レコード。
// Phone は正規化済み（半角数字のみ）、LicenseExpiresOn は営業許可証の
// 確認が valid だった場合のみ設定される。
type Registration struct {
	UserID           string
	Name             string
	Gender           Gender
	Age              *int
	Phone            string
	Email            string
	Category         string
	Genre            string
	Documents        Documents
	LicenseExpiresOn string
	TermsAcceptedAt  time.Time
	CreatedAt        time.Time
}
