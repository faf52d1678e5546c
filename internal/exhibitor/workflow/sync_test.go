package workflow

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDraftStore struct {
	mu        sync.Mutex
	upserts   []domain.DraftPayload
	deletes   int
	payload   *domain.DraftPayload
	findErr   error
	upsertErr error
	deleteErr error
}

func (s *fakeDraftStore) Upsert(_ context.Context, _, _ string, payload domain.DraftPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, payload)
	return nil
}

func (s *fakeDraftStore) Delete(_ context.Context, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes++
	return nil
}

func (s *fakeDraftStore) Find(_ context.Context, _, _ string) (*domain.DraftPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload, s.findErr
}

func (s *fakeDraftStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts)
}

func (s *fakeDraftStore) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testPayload(name string) domain.DraftPayload {
	form := domain.NewFormState()
	form.Fields.Name = name
	return domain.NewDraftPayload(form)
}

func newTestEngine(store *fakeDraftStore) *SyncEngine {
	return NewSyncEngine(store, testLogger(), "user-1", 10*time.Millisecond)
}

func TestSyncEnginePersistsAfterDebounce(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	engine.Evaluate(testPayload("山田太郎"))

	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, engine.DraftExists())
}

func TestSyncEngineReplacesPendingOperation(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	engine.Evaluate(testPayload("山"))
	engine.Evaluate(testPayload("山田"))
	engine.Evaluate(testPayload("山田太郎"))

	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// 最後の状態だけが 1 回書かれる
	assert.Equal(t, 1, store.upsertCount())
	store.mu.Lock()
	assert.Equal(t, "山田太郎", store.upserts[0].Fields.Name)
	store.mu.Unlock()
}

func TestSyncEngineSkipsDuplicateWrite(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	payload := testPayload("山田太郎")
	engine.Evaluate(payload)
	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)

	// 同一内容の再評価は書き込みを生まない
	engine.Evaluate(payload)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.upsertCount())
}

func TestSyncEngineEmptyPayloadSchedulesDeletion(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	engine.Evaluate(testPayload("山田太郎"))
	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)

	engine.Evaluate(domain.NewDraftPayload(domain.NewFormState()))
	require.Eventually(t, func() bool { return store.deleteCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, engine.DraftExists())
}

func TestSyncEngineDeletionNoopWithoutDraft(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	engine.Evaluate(domain.NewDraftPayload(domain.NewFormState()))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, store.deleteCount())
	assert.Equal(t, 0, store.upsertCount())
}

func TestSyncEngineSeedBaselinePreventsRewrite(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	payload := testPayload("山田太郎")
	engine.SeedBaseline(payload)
	assert.True(t, engine.DraftExists())

	// 復元直後の再評価は内容が変わっていないので保存されない
	engine.Evaluate(payload)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.upsertCount())
}

func TestSyncEngineCloseCancelsPending(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)

	engine.Evaluate(testPayload("山田太郎"))
	engine.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.upsertCount())

	// Close 後の予約は受け付けない
	engine.Evaluate(testPayload("別の内容"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.upsertCount())
}

func TestSyncEngineDeleteNow(t *testing.T) {
	store := &fakeDraftStore{}
	engine := newTestEngine(store)
	defer engine.Close()

	// 下書きが無ければストアへは触れない
	require.NoError(t, engine.DeleteNow(context.Background()))
	assert.Equal(t, 0, store.deleteCount())

	payload := testPayload("山田太郎")
	engine.Evaluate(payload)
	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, engine.DeleteNow(context.Background()))
	assert.Equal(t, 1, store.deleteCount())
	assert.False(t, engine.DraftExists())

	// 基準値もリセットされるので同じ内容を再び保存できる
	engine.Evaluate(payload)
	require.Eventually(t, func() bool { return store.upsertCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestSyncEngineUpsertFailureKeepsBaseline(t *testing.T) {
	store := &fakeDraftStore{upsertErr: errors.New("mongo down")}
	engine := newTestEngine(store)
	defer engine.Close()

	payload := testPayload("山田太郎")
	engine.Evaluate(payload)
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, 0, store.upsertCount())
	assert.False(t, engine.DraftExists())

	// ストア復旧後、同じ内容の再評価で再試行される
	store.mu.Lock()
	store.upsertErr = nil
	store.mu.Unlock()

	engine.Evaluate(payload)
	require.Eventually(t, func() bool { return store.upsertCount() == 1 }, time.Second, 5*time.Millisecond)
}
