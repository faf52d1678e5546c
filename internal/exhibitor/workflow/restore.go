package workflow

import (
	"context"
	"log"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// Restorer はセッション開始時に過去の下書きを読み込み、正常な
// フォーム状態へ復元する。
type Restorer struct {
	store  DraftStore
	logger *log.Logger
}

// NewRestorer は下書きストアに紐づく Restorer を返す。
func NewRestorer(store DraftStore, logger *log.Logger) *Restorer {
	return &Restorer{store: store, logger: logger}
}

// Restore は (userID, formType) の最新の下書きを取得し、step の丸めと
// 欠損フィールドの補完を済ませたフォーム状態を返す。復元に使った
// ペイロードも返すので、呼び出し側はそれをエンジンの基準値に種付けして
// 読み込み直後の再書き込みを防ぐ。下書きが無い・読めない場合は nil と
// 空のフォームを返し、読み取り失敗は利用者へ出さずログに留める。
func (r *Restorer) Restore(ctx context.Context, userID string) (domain.FormState, *domain.DraftPayload) {
	payload, err := r.store.Find(ctx, userID, domain.FormType)
	if err != nil {
		r.logger.Printf("下書きの読み込みに失敗: user=%s err=%v", userID, err)
		return domain.NewFormState(), nil
	}
	if payload == nil {
		return domain.NewFormState(), nil
	}

	form := payload.RestoreForm()

	// 基準値には丸め後の状態を使う。壊れた step のまま種付けすると、
	// 最初の編集で差分が出ずに保存が抜けることがある。
	restored := domain.NewDraftPayload(form)
	return form, &restored
}
