package messenger

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func sampleRegistration() domain.Registration {
	return domain.Registration{
		UserID:           "user-1",
		Name:             "山田太郎",
		Category:         "キッチンカー",
		Genre:            "クレープ",
		LicenseExpiresOn: "2027-03-31",
	}
}

func TestNotifyRegistrationReceipt(t *testing.T) {
	type message struct {
		UserID      string `json:"userId"`
		Text        string `json:"text"`
		Destination string `json:"destination"`
	}

	received := make(chan message, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages", r.URL.Path)
		var msg message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		received <- msg
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "line", time.Second, testLogger())
	notifier.NotifyRegistrationReceipt(context.Background(), sampleRegistration())

	select {
	case msg := <-received:
		assert.Equal(t, "user-1", msg.UserID)
		assert.Equal(t, "line", msg.Destination)
		assert.Contains(t, msg.Text, "山田太郎")
		assert.Contains(t, msg.Text, "キッチンカー")
		assert.Contains(t, msg.Text, "2027-03-31")
	case <-time.After(time.Second):
		t.Fatal("通知リクエストが届かなかった")
	}
}

func TestNotifyRetriesOnFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "line", time.Second, testLogger())
	notifier.NotifyRegistrationReceipt(context.Background(), sampleRegistration())

	assert.Equal(t, int32(3), attempts.Load())
}

func TestNotifySkipsWithoutEndpoint(t *testing.T) {
	notifier := NewNotifier("", "line", time.Second, testLogger())
	// エンドポイント未設定なら静かに何もしない
	notifier.NotifyRegistrationReceipt(context.Background(), sampleRegistration())
}
