package workflow

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// DefaultDebounce は下書き保存のデバウンス幅。編集が続く間は書き込まず、
// 手が止まってからこの時間後に最後の状態だけを永続化する。
const DefaultDebounce = 800 * time.Millisecond

// 下書きストアへの 1 回の書き込み・削除に許す時間。
const syncOperationTimeout = 5 * time.Second

// DraftStore はリモート下書きストアへのポート。(userID, formType) を
// 複合キーとした upsert/delete/read を提供する。
type DraftStore interface {
	Upsert(ctx context.Context, userID, formType string, payload domain.DraftPayload) error
	Delete(ctx context.Context, userID, formType string) error
	Find(ctx context.Context, userID, formType string) (*domain.DraftPayload, error)
}

// SyncEngine はフォーム状態の変更をまとめ、デバウンス付きで下書きストアへ
// 書き戻すエンジン。予約済みの操作は常に 1 件だけで、新しい変更が来るたびに
// 前の予約を取り消して置き換える。「下書きが存在するか」と直近の保存内容は
// エンジンのインスタンスが保持し、セッションごとに独立してテストできる。
type SyncEngine struct {
	store    DraftStore
	logger   *log.Logger
	userID   string
	formType string
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	baseline string
	exists   bool
	closed   bool
}

// NewSyncEngine はユーザー 1 人・フォーム 1 種に紐づくエンジンを作る。
// debounce が 0 以下のときは既定値を使う。
func NewSyncEngine(store DraftStore, logger *log.Logger, userID string, debounce time.Duration) *SyncEngine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &SyncEngine{
		store:    store,
		logger:   logger,
		userID:   userID,
		formType: domain.FormType,
		debounce: debounce,
	}
}

// Evaluate はフォーム変更のたびに呼ばれ、ペイロードが空なら削除を、
// そうでなければ保存を予約する。空の下書きは決して書き込まない。
func (e *SyncEngine) Evaluate(payload domain.DraftPayload) {
	if payload.IsEmpty() {
		e.ScheduleDeletion()
		return
	}
	e.ScheduleUpsert(payload)
}

// ScheduleUpsert は保留中の操作を取り消し、デバウンス満了時に payload を
// 保存する予約を入れる。満了時点で直近の保存内容と同一なら書き込まない。
func (e *SyncEngine) ScheduleUpsert(payload domain.DraftPayload) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelPendingLocked()
	e.timer = time.AfterFunc(e.debounce, func() {
		e.persist(payload)
	})
}

// ScheduleDeletion は下書きが存在すると分かっている場合のみ、デバウンス
// 満了時の削除を予約する。存在しなければ何もしない。
func (e *SyncEngine) ScheduleDeletion() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.cancelPendingLocked()
	if !e.exists {
		return
	}
	e.timer = time.AfterFunc(e.debounce, e.deleteDraft)
}

// SeedBaseline は復元した下書きを基準値として登録する。読み込んだ直後の
// 状態をそのまま再保存してしまう無駄な書き込みを防ぐ。
func (e *SyncEngine) SeedBaseline(payload domain.DraftPayload) {
	encoded, err := payload.Encode()
	if err != nil {
		e.logger.Printf("下書き基準値のエンコードに失敗: %v", err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseline = encoded
	e.exists = true
}

// DraftExists はリモートに下書きがあるとエンジンが認識しているかを返す。
func (e *SyncEngine) DraftExists() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exists
}

// DeleteNow は保留中の予約を取り消し、下書きを同期的に削除する。
// 本登録の完了時に使う。存在しない場合は何もせず成功を返す。
func (e *SyncEngine) DeleteNow(ctx context.Context) error {
	e.mu.Lock()
	e.cancelPendingLocked()
	exists := e.exists
	e.mu.Unlock()

	if !exists {
		return nil
	}
	if err := e.store.Delete(ctx, e.userID, e.formType); err != nil {
		return err
	}

	e.mu.Lock()
	e.exists = false
	e.baseline = ""
	e.mu.Unlock()
	return nil
}

// Close は保留中の予約を取り消し、以後の予約を受け付けなくする。
// セッション破棄後の書き込みを防ぐため、必ず呼び出すこと。
func (e *SyncEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelPendingLocked()
	e.closed = true
}

func (e *SyncEngine) cancelPendingLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// persist はデバウンス満了時の保存処理。失敗はログのみで利用者へは
// 出さない。次の編集が新しい予約を生むので自然に再試行される。
func (e *SyncEngine) persist(payload domain.DraftPayload) {
	encoded, err := payload.Encode()
	if err != nil {
		e.logger.Printf("下書きのエンコードに失敗: %v", err)
		return
	}

	e.mu.Lock()
	if e.closed || encoded == e.baseline {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), syncOperationTimeout)
	defer cancel()

	if err := e.store.Upsert(ctx, e.userID, e.formType, payload); err != nil {
		e.logger.Printf("下書きの保存に失敗: user=%s err=%v", e.userID, err)
		return
	}

	e.mu.Lock()
	e.baseline = encoded
	e.exists = true
	e.mu.Unlock()
}

// deleteDraft はデバウンス満了時の削除処理。別セッションが先に消していて
// 対象が無くても、ストア実装がそれを成功として扱う前提で静かに済ませる。
func (e *SyncEngine) deleteDraft() {
	e.mu.Lock()
	if e.closed || !e.exists {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), syncOperationTimeout)
	defer cancel()

	if err := e.store.Delete(ctx, e.userID, e.formType); err != nil {
		e.logger.Printf("下書きの削除に失敗: user=%s err=%v", e.userID, err)
		return
	}

	e.mu.Lock()
	e.exists = false
	e.baseline = ""
	e.mu.Unlock()
}
