package verification

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestVerifyValidResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req struct {
			ImageURL string `json:"imageUrl"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://media.example.com/license.jpg", req.ImageURL)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"yes","expirationDate":"2027-03-31"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationValid, status.State)
	assert.Equal(t, "2027-03-31", status.ExpirationDate)
}

func TestVerifyInvalidResultWithReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"no","reason":"有効期限が切れています"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
	assert.Equal(t, "有効期限が切れています", status.Reason)
}

func TestVerifyInvalidResultWithoutReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"no"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
	assert.Equal(t, "有効期限を確認できませんでした", status.Reason)
}

func TestVerifyServerErrorBecomesInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
	assert.Equal(t, "確認処理に失敗しました", status.Reason)
}

func TestVerifyBrokenResponseBecomesInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
}

func TestVerifyUnknownResultBecomesInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"maybe"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
}

func TestVerifyConnectionFailureBecomesInvalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, testLogger())
	status := client.Verify(context.Background(), "https://media.example.com/license.jpg")

	assert.Equal(t, domain.VerificationInvalid, status.State)
	assert.Equal(t, "確認処理に失敗しました", status.Reason)
}
