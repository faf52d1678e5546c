package organizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
	organizerapp "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
	"go.mongodb.org/mongo-driver/mongo"
)

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

// eventListHandler は下書き状態も含めた全イベントを返す。
func (h *Handler) eventListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := common.ParsePositiveInt(query.Get("page"), 1)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageSize)
		if limit > common.MaxPageSize {
			limit = common.MaxPageSize
		}

		filter := organizerapp.EventFilter{
			Prefecture: strings.TrimSpace(query.Get("prefecture")),
			Keyword:    strings.TrimSpace(query.Get("q")),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		events, err := h.eventQueries.List(ctx, filter, organizerapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.logger.Printf("イベント一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "イベント一覧の取得に失敗しました")
			return
		}

		responses := make([]eventResponse, 0, len(events))
		for _, event := range events {
			responses = append(responses, mapEventResponse(event))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, eventListResponse{
			Events: responses,
			Page:   page,
			Limit:  limit,
		})
	}
}

// eventDetailHandler はイベント 1 件を返す。
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

		common.WriteJSON(h.logger, w, http.StatusOK, mapEventResponse(*event))
	}
}

// eventCreateHandler はイベントを新規作成する。
func (h *Handler) eventCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertEventRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		event, err := h.eventCommands.Create(ctx, req.toCommand())
		if err != nil {
			h.logger.Printf("イベント作成に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, mapEventResponse(*event))
	}
}

// eventUpdateHandler は既存イベントを更新する。
func (h *Handler) eventUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "IDが指定されていません")
			return
		}

		var req upsertEventRequest
		if !h.decodeBody(w, r, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		event, err := h.eventCommands.Update(ctx, id, req.toCommand())
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				common.WriteError(h.logger, w, http.StatusNotFound, "イベントが見つかりません")
				return
			}
			h.logger.Printf("イベント更新に失敗: id=%s err=%v", id, err)
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, mapEventResponse(*event))
	}
}
