package application

import (
	"context"
	"errors"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// ErrAlreadyRegistered は同一ユーザーの本登録が既に存在する場合に返す。
var ErrAlreadyRegistered = errors.New("既に出店者登録が完了しています")

// RegistrationRepository は本登録レコードの恒久ストアへのポート。
// Create の前に ExistsByUserID による冪等性チェックを行うこと。
type RegistrationRepository interface {
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, registration *domain.Registration) error
	Find(ctx context.Context, filter RegistrationFilter, paging Paging) ([]domain.Registration, error)
}

// ReceiptNotifier は本登録の受付通知を送るポート。送信は投げっぱなしで、
// 失敗しても登録結果には影響しない。
type ReceiptNotifier interface {
	NotifyRegistrationReceipt(ctx context.Context, registration domain.Registration)
}

// RegistrationFilter は主催者向けの本登録検索条件。
type RegistrationFilter struct {
	Category string
	Keyword  string
}

// Paging はページネーション指定。
type Paging struct {
	Page  int
	Limit int
}

// Offset は SQL の OFFSET 値を返す。
func (p Paging) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Normalize().Limit
}

// Normalize は未指定・過大な値を既定値へ丸めたコピーを返す。
func (p Paging) Normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return p
}
