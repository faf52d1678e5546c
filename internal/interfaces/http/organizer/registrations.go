package organizer

import (
	"context"
	"net/http"
	"time"

	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
)

// registrationListHandler は本登録済みの出店者一覧を返す。
func (h *Handler) registrationListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, paging := registrationFilterFromQuery(r)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		registrations, err := h.registrations.Find(ctx, filter, paging)
		if err != nil {
			h.logger.Printf("出店者一覧の取得に失敗: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "出店者一覧の取得に失敗しました")
			return
		}

		responses := make([]registrationResponse, 0, len(registrations))
		for _, reg := range registrations {
			responses = append(responses, mapRegistrationResponse(reg))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, registrationListResponse{
			Registrations: responses,
			Page:          paging.Page,
			Limit:         paging.Limit,
		})
	}
}
