package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// 確認サービスが返す拒否理由が空だったときの既定文言。
const defaultInvalidReason = "有効期限を確認できませんでした"

// 通信・応答解釈に失敗したときの文言。確認は助言なので登録は止めない。
const failureReason = "確認処理に失敗しました"

// Client は営業許可証の外部確認サービスを呼び出す HTTP クライアント。
// 応答は {result:"yes"|"no", expirationDate, reason}、エラー時は {error}。
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *log.Logger
}

// NewClient は確認サービスのエンドポイントに紐づくクライアントを返す。
func NewClient(endpoint string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		logger:     logger,
	}
}

type verifyRequest struct {
	ImageURL string `json:"imageUrl"`
}

type verifyResponse struct {
	Result         string `json:"result"`
	ExpirationDate string `json:"expirationDate"`
	Reason         string `json:"reason"`
}

type verifyErrorResponse struct {
	Error string `json:"error"`
}

// Verify は画像 URL を確認サービスへ送り、結果を状態として返す。
// どんな失敗も invalid に畳み、エラーは返さない。確認不能であることが
// 登録フローを止めてはならないため。
func (c *Client) Verify(ctx context.Context, imageURL string) domain.VerificationStatus {
	status, err := c.post(ctx, imageURL)
	if err != nil {
		c.logger.Printf("営業許可証の確認リクエストに失敗: %v", err)
		return domain.VerificationInvalidStatus(failureReason)
	}
	return status
}

func (c *Client) post(ctx context.Context, imageURL string) (domain.VerificationStatus, error) {
	body, err := json.Marshal(verifyRequest{ImageURL: imageURL})
	if err != nil {
		return domain.VerificationStatus{}, fmt.Errorf("確認リクエストの作成に失敗: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.VerificationStatus{}, fmt.Errorf("確認リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.VerificationStatus{}, fmt.Errorf("確認サービスへの送信に失敗: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil {
		return domain.VerificationStatus{}, fmt.Errorf("確認サービス応答の読み取りに失敗: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var payload verifyErrorResponse
		_ = json.Unmarshal(raw, &payload)
		return domain.VerificationStatus{}, fmt.Errorf("確認サービスがエラー応答: status=%d error=%s", res.StatusCode, strings.TrimSpace(payload.Error))
	}

	var payload verifyResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.VerificationStatus{}, fmt.Errorf("確認サービス応答の解釈に失敗: %w", err)
	}

	switch payload.Result {
	case "yes":
		return domain.VerificationValidStatus(strings.TrimSpace(payload.ExpirationDate)), nil
	case "no":
		reason := strings.TrimSpace(payload.Reason)
		if reason == "" {
			reason = defaultInvalidReason
		}
		return domain.VerificationInvalidStatus(reason), nil
	default:
		return domain.VerificationStatus{}, fmt.Errorf("確認サービスの result が不明: %q", payload.Result)
	}
}
