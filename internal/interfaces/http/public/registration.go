package public

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	exhibitorapp "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/application"
	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/workflow"
	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
)

// openSession は認証済みユーザーのセッションを取得する。無ければ下書きを
// 復元して新規に開くので、どの操作から始めても状態は一貫する。
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok {
		common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報を取得できませんでした")
		return nil, false
	}
	return h.sessions.Open(r.Context(), user.ID), true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, fmt.Sprintf("リクエストの形式が不正です: %v", err))
		return false
	}
	return true
}

func (h *Handler) writeState(w http.ResponseWriter, session *workflow.Session) {
	common.WriteJSON(h.logger, w, http.StatusOK, stateResponse{
		Status: "ok",
		State:  session.Snapshot(),
	})
}

// sessionOpenHandler はウィザードを開始する。過去の下書きがあれば復元
// した状態を返す。
func (h *Handler) sessionOpenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}
		h.writeState(w, session)
	}
}

// sessionCloseHandler はセッションを畳み、保留中の下書き同期を取り消す。
func (h *Handler) sessionCloseHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報を取得できませんでした")
			return
		}
		h.sessions.Close(user.ID)
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// stateHandler は現在のウィザード状態を返す。
func (h *Handler) stateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}
		h.writeState(w, session)
	}
}

// fieldsHandler はフォーム入力値を全量で受け取り置き換える。保存は
// デバウンス付きで裏に流れるため、入力のたびに呼んでよい。
func (h *Handler) fieldsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		var req updateFieldsRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		session.SetFields(req.Fields)
		h.writeState(w, session)
	}
}

// documentAttachHandler はアップロード済み書類の URL を枠に載せる。
func (h *Handler) documentAttachHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		slot := exhibitordomain.DocumentSlot(strings.TrimSpace(chi.URLParam(r, "slot")))

		var req attachDocumentRequest
		if !h.decodeBody(w, r, &req) {
			return
		}
		url := strings.TrimSpace(req.URL)
		if url == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "書類のURLを指定してください")
			return
		}

		if err := session.AttachDocument(slot, url); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeState(w, session)
	}
}

// documentRemoveHandler は書類枠を空にする。
func (h *Handler) documentRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		slot := exhibitordomain.DocumentSlot(strings.TrimSpace(chi.URLParam(r, "slot")))
		if err := session.RemoveDocument(slot); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeState(w, session)
	}
}

// termsViewedHandler は利用規約画面を開いたことを記録し、戻ってきた
// 時点の再検証結果を返す。ステップは動かさない。
func (h *Handler) termsViewedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		session.MarkTermsViewed()
		validation := session.Validate()
		view := session.Snapshot()
		common.WriteJSON(h.logger, w, http.StatusOK, stepResponse{
			Status:     "ok",
			Step:       int(view.Step),
			FocusField: validation.FocusField,
			Errors:     validation.Errors,
			State:      &view,
		})
	}
}

// termsHandler は利用規約への同意状態を更新する。
func (h *Handler) termsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		var req updateTermsRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		session.SetTermsAccepted(req.Accepted)
		h.writeState(w, session)
	}
}

// nextHandler は確認ステップへの遷移を試みる。検証に失敗した場合は
// 422 で失敗フィールドと最初のフォーカス先を返す。
func (h *Handler) nextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		result := session.Next()
		if !result.Moved && !result.Validation.OK() {
			common.WriteJSON(h.logger, w, http.StatusUnprocessableEntity, stepResponse{
				Status:     "invalid",
				Step:       int(result.Step),
				FocusField: result.Validation.FocusField,
				Errors:     result.Validation.Errors,
			})
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, stepResponse{
			Status:    "ok",
			Step:      int(result.Step),
			ScrollTop: result.ScrollTop,
		})
	}
}

// backHandler は入力ステップへ戻る。後退に検証は無い。
func (h *Handler) backHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		result := session.Back()
		common.WriteJSON(h.logger, w, http.StatusOK, stepResponse{
			Status: "ok",
			Step:   int(result.Step),
		})
	}
}

// submitHandler は本登録を確定する。重複登録は 409、保存失敗は 500 を
// 返し、いずれも下書きは残るので入力は失われない。
func (h *Handler) submitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.openSession(w, r)
		if !ok {
			return
		}

		registration, err := session.Submit(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, exhibitorapp.ErrAlreadyRegistered):
				common.WriteError(h.logger, w, http.StatusConflict, err.Error())
			case errors.Is(err, workflow.ErrNotOnConfirmStep):
				common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			default:
				h.logger.Printf("本登録の確定に失敗: %v", err)
				common.WriteError(h.logger, w, http.StatusInternalServerError, "本登録の保存に失敗しました。時間をおいて再度お試しください")
			}
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponse{
			Status:           "ok",
			Step:             int(exhibitordomain.StepComplete),
			LicenseExpiresOn: registration.LicenseExpiresOn,
		})
	}
}
