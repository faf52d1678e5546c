package organizer

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	exhibitorapp "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/application"
	"github.com/shutten-navi/shutten-navi-services/api/internal/interfaces/http/common"
	organizerapp "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
)

// Handler は主催者向けエンドポイント群。
type Handler struct {
	logger        *log.Logger
	eventQueries  organizerapp.EventQueryService
	eventCommands organizerapp.EventCommandService
	registrations organizerapp.RegistrationReader
	location      *time.Location
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger        *log.Logger
	EventQueries  organizerapp.EventQueryService
	EventCommands organizerapp.EventCommandService
	Registrations organizerapp.RegistrationReader
	Location      *time.Location
}

// NewHandler constructs an organizer HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		eventQueries:  cfg.EventQueries,
		eventCommands: cfg.EventCommands,
		registrations: cfg.Registrations,
		location:      cfg.Location,
	}
}

// Register mounts organizer routes. 認証に加えて主催者ロールを要求する。
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(h.requireOrganizer)

		r.Get("/events", h.eventListHandler())
		r.Post("/events", h.eventCreateHandler())
		r.Get("/events/{id}", h.eventDetailHandler())
		r.Put("/events/{id}", h.eventUpdateHandler())

		r.Get("/registrations", h.registrationListHandler())
	})
}

// requireOrganizer は主催者ロール以外のアクセスを拒否する。
func (h *Handler) requireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok || !user.IsOrganizer() {
			common.WriteError(h.logger, w, http.StatusForbidden, "主催者権限が必要です")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func registrationFilterFromQuery(r *http.Request) (exhibitorapp.RegistrationFilter, exhibitorapp.Paging) {
	query := r.URL.Query()
	page, _ := common.ParsePositiveInt(query.Get("page"), 1)
	limit, _ := common.ParsePositiveInt(query.Get("limit"), common.DefaultPageSize)
	if limit > common.MaxPageSize {
		limit = common.MaxPageSize
	}
	filter := exhibitorapp.RegistrationFilter{
		Category: query.Get("category"),
		Keyword:  query.Get("q"),
	}
	return filter, exhibitorapp.Paging{Page: page, Limit: limit}
}
