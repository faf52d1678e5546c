package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// RegistrationService は出店者の本登録を確定するアプリケーションサービス。
// ウィザードの送信操作から呼ばれる。
type RegistrationService struct {
	repo     RegistrationRepository
	notifier ReceiptNotifier
	logger   *log.Logger
}

// NewRegistrationService は本登録サービスを構築する。notifier は nil でもよい。
func NewRegistrationService(repo RegistrationRepository, notifier ReceiptNotifier, logger *log.Logger) *RegistrationService {
	return &RegistrationService{repo: repo, notifier: notifier, logger: logger}
}

// Submit は本登録レコードを組み立てて保存する。保存前に同一ユーザーの
// 既存レコードを確認し、あれば ErrAlreadyRegistered を返す。古いタブや
// 二度押しからの二重登録はここで止まる。
func (s *RegistrationService) Submit(ctx context.Context, userID string, form domain.FormState, licenseExpiry string) (*domain.Registration, error) {
	exists, err := s.repo.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("既存登録の確認に失敗: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	phone, err := domain.NormalizePhoneNumber(form.Fields.Phone)
	if err != nil {
		return nil, fmt.Errorf("電話番号の正規化に失敗: %w", err)
	}

	now := time.Now().UTC()
	registration := &domain.Registration{
		UserID:           userID,
		Name:             strings.TrimSpace(form.Fields.Name),
		Gender:           form.Fields.Gender,
		Age:              form.Fields.Age,
		Phone:            phone,
		Email:            strings.TrimSpace(form.Fields.Email),
		Category:         domain.CanonicalVendorCategory(form.Fields.Category),
		Genre:            strings.TrimSpace(form.Fields.Genre),
		Documents:        form.Documents,
		LicenseExpiresOn: strings.TrimSpace(licenseExpiry),
		TermsAcceptedAt:  now,
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, fmt.Errorf("本登録の保存に失敗: %w", err)
	}

	if s.notifier != nil {
		go s.notifier.NotifyRegistrationReceipt(context.Background(), *registration)
	}

	return registration, nil
}
