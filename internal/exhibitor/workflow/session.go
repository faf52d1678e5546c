package workflow

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// ErrNotOnConfirmStep は確認ステップ以外からの送信操作に返す。
var ErrNotOnConfirmStep = errors.New("確認画面から送信してください")

// ErrUnknownDocumentSlot は未知の書類枠の指定に返す。
var ErrUnknownDocumentSlot = errors.New("不明な書類の種別です")

// Verifier は営業許可証の外部確認サービスへのポート。結果は助言であり、
// どんな結果でも登録フローを妨げない。
type Verifier interface {
	Verify(ctx context.Context, imageURL string) domain.VerificationStatus
}

// RegistrationSubmitter は本登録の確定処理へのポート。重複登録は
// エラーとして返る。
type RegistrationSubmitter interface {
	Submit(ctx context.Context, userID string, form domain.FormState, licenseExpiry string) (*domain.Registration, error)
}

// StepResult はステップ遷移操作の結果。遷移できなかった場合は
// Validation に失敗フィールドが入る。ScrollTop は確認ステップへ進んだ
// 直後に画面最上部へ戻す合図。
type StepResult struct {
	Step       domain.Step      `json:"step"`
	Moved      bool             `json:"moved"`
	ScrollTop  bool             `json:"scrollTop,omitempty"`
	Validation ValidationResult `json:"validation"`
}

// View はセッション状態のスナップショット。画面描画用。
type View struct {
	Step           domain.Step               `json:"step"`
	Fields         domain.Fields             `json:"fields"`
	Documents      domain.Documents          `json:"documents"`
	TermsAccepted  bool                      `json:"termsAccepted"`
	HasViewedTerms bool                      `json:"hasViewedTerms"`
	Verification   domain.VerificationStatus `json:"verification"`
	DraftExists    bool                      `json:"draftExists"`
}

// Session は 1 ユーザー分の出店登録ウィザード。フォーム状態・同期
// エンジン・確認結果を保持し、すべての更新を単一のロック経由で通す。
type Session struct {
	mu     sync.Mutex
	logger *log.Logger
	userID string

	form         domain.FormState
	verification domain.VerificationStatus
	verifyGen    int

	engine    *SyncEngine
	verifier  Verifier
	submitter RegistrationSubmitter
}

// SetFields はフォーム入力値を丸ごと置き換え、下書き同期を再評価する。
// 入力のたびに全量が送られてくる前提で、正規化は検証・送信時に行う。
func (s *Session) SetFields(fields domain.Fields) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Fields = fields
	s.evaluateLocked()
}

// AttachDocument は書類枠にアップロード済み URL を載せる。営業許可証の
// 枠だけは自動で外部確認を開始するが、確認の完了を待たずに戻る。
func (s *Session) AttachDocument(slot domain.DocumentSlot, url string) error {
	if !domain.ValidDocumentSlot(slot) {
		return ErrUnknownDocumentSlot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Documents.Set(slot, url)
	s.evaluateLocked()

	if slot == domain.SlotBusinessLicense {
		s.verifyGen++
		s.verification = domain.VerificationVerifyingStatus()
		go s.runVerification(s.verifyGen, url)
	}
	return nil
}

// RemoveDocument は書類枠を空にする。営業許可証を外したときは確認結果も
// idle に戻し、進行中の確認があれば結果を捨てる。
func (s *Session) RemoveDocument(slot domain.DocumentSlot) error {
	if !domain.ValidDocumentSlot(slot) {
		return ErrUnknownDocumentSlot
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Documents.Set(slot, "")
	if slot == domain.SlotBusinessLicense {
		s.verifyGen++
		s.verification = domain.VerificationIdleStatus()
	}
	s.evaluateLocked()
	return nil
}

// MarkTermsViewed は利用規約画面を開いたことを記録する。同意とは別に
// 追跡し、規約画面から戻ってもステップやスクロール位置は変えない。
func (s *Session) MarkTermsViewed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.HasViewedTerms = true
	s.evaluateLocked()
}

// SetTermsAccepted は利用規約への同意状態を更新する。
func (s *Session) SetTermsAccepted(accepted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.TermsAccepted = accepted
	s.evaluateLocked()
}

// Next は入力ステップの検証を実行し、全ルール通過時のみ確認ステップへ
// 進める。失敗時はステップを変えず、失敗フィールドの一覧と最初の
// フォーカス先を返す。確認ステップからは送信操作でしか先へ進めない。
func (s *Session) Next() StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.form.Step {
	case domain.StepInput:
		validation := ValidateForm(s.form)
		if !validation.OK() {
			return StepResult{Step: s.form.Step, Validation: validation}
		}
		s.form.Step = domain.StepConfirm
		s.evaluateLocked()
		return StepResult{Step: s.form.Step, Moved: true, ScrollTop: true}
	default:
		return StepResult{Step: s.form.Step}
	}
}

// Back は確認ステップから入力ステップへ戻る。後退に検証は不要。
func (s *Session) Back() StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form.Step == domain.StepConfirm {
		s.form.Step = domain.StepInput
		s.evaluateLocked()
		return StepResult{Step: s.form.Step, Moved: true}
	}
	return StepResult{Step: s.form.Step}
}

// Validate は現在のフォームを検証だけする。規約画面から戻った直後の
// 再検証に使い、ステップは動かさない。
func (s *Session) Validate() ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ValidateForm(s.form)
}

// Submit は確認ステップからの明示的な確定操作。本登録を保存し、成功
// したら下書きを同期的に削除してフォームを完了ステップへ進める。
// 保存に失敗した場合は下書きに触れず確認ステップへ留まるので、入力は
// 失われない。ロックを保持したまま実行するため、連打された送信の
// 2 回目は 1 回目の完了後に重複チェックで止まる。
func (s *Session) Submit(ctx context.Context) (*domain.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form.Step != domain.StepConfirm {
		return nil, ErrNotOnConfirmStep
	}

	licenseExpiry := ""
	if s.verification.State == domain.VerificationValid {
		licenseExpiry = s.verification.ExpirationDate
	}

	registration, err := s.submitter.Submit(ctx, s.userID, s.form, licenseExpiry)
	if err != nil {
		return nil, err
	}

	if err := s.engine.DeleteNow(ctx); err != nil {
		// 本登録は済んでいるので失敗しても巻き戻さない
		s.logger.Printf("本登録後の下書き削除に失敗: user=%s err=%v", s.userID, err)
	}

	s.verifyGen++
	s.verification = domain.VerificationIdleStatus()
	s.form = domain.NewFormState()
	s.form.Step = domain.StepComplete
	return registration, nil
}

// Snapshot は現在のセッション状態を返す。
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		Step:           s.form.Step,
		Fields:         s.form.Fields,
		Documents:      s.form.Documents,
		TermsAccepted:  s.form.TermsAccepted,
		HasViewedTerms: s.form.HasViewedTerms,
		Verification:   s.verification,
		DraftExists:    s.engine.DraftExists(),
	}
}

// Close は保留中の下書き同期を取り消してセッションを畳む。
func (s *Session) Close() {
	s.engine.Close()
}

// evaluateLocked は現在のフォームからペイロードを作り、同期エンジンに
// 保存か削除かを判断させる。呼び出し側がロックを保持していること。
func (s *Session) evaluateLocked() {
	s.engine.Evaluate(domain.NewDraftPayload(s.form))
}

// runVerification は外部確認を実行し、結果を単一の更新経路でセッションへ
// 合流させる。開始後に許可証が差し替えられていたら結果は捨てる。
func (s *Session) runVerification(gen int, url string) {
	status := s.verifier.Verify(context.Background(), url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.verifyGen {
		return
	}
	s.verification = status
}

// ManagerConfig はセッション生成に必要な依存の束。
type ManagerConfig struct {
	Logger    *log.Logger
	Drafts    DraftStore
	Verifier  Verifier
	Submitter RegistrationSubmitter
	Debounce  time.Duration
}

// Manager はユーザー ID ごとのセッションを管理する。
type Manager struct {
	cfg ManagerConfig

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager はセッションマネージャを返す。
func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Open はユーザーのセッションを返す。初回は下書きを復元して新規作成し、
// 復元できた場合はエンジンの基準値に種付けする。既存セッションがあれば
// そのまま返すので、タブの開き直しで状態が失われることはない。
func (m *Manager) Open(ctx context.Context, userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[userID]; ok {
		return session
	}

	engine := NewSyncEngine(m.cfg.Drafts, m.cfg.Logger, userID, m.cfg.Debounce)
	form, restored := NewRestorer(m.cfg.Drafts, m.cfg.Logger).Restore(ctx, userID)
	if restored != nil {
		engine.SeedBaseline(*restored)
	}

	session := &Session{
		logger:       m.cfg.Logger,
		userID:       userID,
		form:         form,
		verification: domain.VerificationIdleStatus(),
		engine:       engine,
		verifier:     m.cfg.Verifier,
		submitter:    m.cfg.Submitter,
	}
	m.sessions[userID] = session
	return session
}

// Get は既存セッションを返す。
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	return session, ok
}

// Close は指定ユーザーのセッションを畳んで破棄する。
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	session, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		session.Close()
	}
}

// CloseAll はサーバー停止時に全セッションの保留タイマーを止める。
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}
