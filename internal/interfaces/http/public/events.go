package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
	organizerapp "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
	"go.mongodb.org/mongo-driver/mongo"
)

// eventListHandler は公開中イベントの一覧を返す。
func (h *Handler) eventListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageSize)
		if limit > common.MaxPageSize {
			limit = common.MaxPageSize
		}

		filter := organizerapp.EventFilter{
			Prefecture:    strings.TrimSpace(query.Get("prefecture")),
			Keyword:       strings.TrimSpace(query.Get("q")),
			PublishedOnly: true,
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		events, err := h.eventQueries.List(ctx, filter, organizerapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Printf("イベント一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "イベント一覧の取得に失敗しました")
			return
		}

		now := time.Now().In(h.location)
		responses := make([]eventResponse, 0, len(events))
		for _, event := range events {
			responses = append(responses, mapEventResponse(event, now))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, eventListResponse{
			Events: responses,
			Page:   page,
			Limit:  limit,
		})
	}
}

// eventDetailHandler はイベント 1 件の詳細を返す。
func (h *Handler) eventDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "IDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		event, err := h.eventQueries.Detail(ctx, id)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteError(h.logger, w, http.StatusNotFound, "イベントが見つかりません")
				return
			}
			h.logger.Printf("イベント詳細の取得に失敗: id=%s err=%v", id, err)
			common.WriteError(h.logger, w, http.StatusBadRequest, "不正なIDです")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapEventResponse(*event, time.Now().In(h.location)))
	}
}

// authVerifyHandler は認証トークンの疎通確認用エンドポイント。
func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusInternalServerError, "認証情報の取得に失敗しました")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user":   user,
		})
	}
}
