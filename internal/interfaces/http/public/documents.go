package public

import (
	"context"
	"net/http"
	"strings"
	"time"

	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
)

// uploadURLHandler は書類アップロード用の署名付き URL を払い出す。
// クライアントは受け取った URL へ直接 PUT し、公開 URL を書類枠に
// 添付する流れになる。
func (h *Handler) uploadURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報を取得できませんでした")
			return
		}

		var req uploadURLRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		slot := exhibitordomain.DocumentSlot(strings.TrimSpace(req.DocumentSlot))
		if !exhibitordomain.ValidDocumentSlot(slot) {
			common.WriteError(h.logger, w, http.StatusBadRequest, "不明な書類区分です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		upload, err := h.uploader.PresignPut(ctx, user.ID, string(slot))
		if err != nil {
			h.logger.Printf("署名付きURLの発行に失敗: userId=%s slot=%s err=%v", user.ID, slot, err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "アップロードURLの発行に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, uploadURLResponse{
			Key:       upload.Key,
			UploadURL: upload.UploadURL,
			PublicURL: upload.PublicURL,
			ExpiresIn: int(upload.ExpiresIn / time.Second),
		})
	}
}
