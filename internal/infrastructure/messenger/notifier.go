package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// Notifier はメッセンジャーゲートウェイ経由で本登録の受付通知を送る。
// 送信はすべて投げっぱなしで、失敗はログに残すだけに留める。
type Notifier struct {
	httpClient  *http.Client
	endpoint    string
	destination string
	logger      *log.Logger
}

// NewNotifier は通知クライアントを構築する。
func NewNotifier(endpoint, destination string, timeout time.Duration, logger *log.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Notifier{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		destination: strings.TrimSpace(destination),
		logger:      logger,
	}
}

// NotifyRegistrationReceipt は出店者本人へ受付完了メッセージを送る。
func (n *Notifier) NotifyRegistrationReceipt(ctx context.Context, registration domain.Registration) {
	if n.endpoint == "" {
		return
	}
	message := buildReceiptMessage(registration)
	if err := n.sendWithRetry(ctx, registration.UserID, message, 3, 200*time.Millisecond); err != nil {
		n.logger.Printf("受付通知の送信に失敗: user=%s err=%v", registration.UserID, err)
	}
}

func buildReceiptMessage(registration domain.Registration) string {
	var builder strings.Builder
	builder.WriteString("出店者登録を受け付けました。ご協力ありがとうございます！\n")
	builder.WriteString(fmt.Sprintf("お名前: %s\n", registration.Name))
	builder.WriteString(fmt.Sprintf("出店区分: %s\n", registration.Category))
	if registration.Genre != "" {
		builder.WriteString(fmt.Sprintf("ジャンル: %s\n", registration.Genre))
	}
	if registration.LicenseExpiresOn != "" {
		builder.WriteString(fmt.Sprintf("営業許可証の有効期限: %s\n", registration.LicenseExpiresOn))
	}
	return builder.String()
}

func (n *Notifier) sendWithRetry(ctx context.Context, userID, text string, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := n.send(ctx, userID, text); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return lastErr
}

func (n *Notifier) send(ctx context.Context, userID, text string) error {
	trimmedUserID := strings.TrimSpace(userID)
	if trimmedUserID == "" {
		return errors.New("userID is required")
	}

	payload := map[string]any{
		"userId": trimmedUserID,
		"text":   text,
	}
	if n.destination != "" {
		payload["destination"] = n.destination
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("通知ペイロードの作成に失敗: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	timeout := n.httpClient.Timeout
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxWithTimeout, http.MethodPost, n.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("通知リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("通知リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("通知送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return nil
}
