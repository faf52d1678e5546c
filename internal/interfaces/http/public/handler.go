package public

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/workflow"
	"github.com/shutten-navi/shutten-navi-services/api/internal/infrastructure/storage"
	organizerapp "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger       *log.Logger
	eventQueries organizerapp.EventQueryService
	sessions     *workflow.Manager
	uploader     *storage.Uploader
	location     *time.Location
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger       *log.Logger
	EventQueries organizerapp.EventQueryService
	Sessions     *workflow.Manager
	Uploader     *storage.Uploader
	Location     *time.Location
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:       cfg.Logger,
		eventQueries: cfg.EventQueries,
		sessions:     cfg.Sessions,
		uploader:     cfg.Uploader,
		location:     cfg.Location,
	}
}

// Register mounts all public routes onto the router.
// 出店登録ウィザードは認証必須。イベント参照は誰でも見られる。
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/events", h.eventListHandler())
	r.Get("/events/{id}", h.eventDetailHandler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/auth/verify", h.authVerifyHandler())
		r.Post("/exhibitor/uploads", h.uploadURLHandler())

		r.Route("/exhibitor/registration", func(r chi.Router) {
			r.Post("/session", h.sessionOpenHandler())
			r.Delete("/session", h.sessionCloseHandler())
			r.Get("/", h.stateHandler())
			r.Put("/fields", h.fieldsHandler())
			r.Put("/documents/{slot}", h.documentAttachHandler())
			r.Delete("/documents/{slot}", h.documentRemoveHandler())
			r.Post("/terms/viewed", h.termsViewedHandler())
			r.Put("/terms", h.termsHandler())
			r.Post("/next", h.nextHandler())
			r.Post("/back", h.backHandler())
			r.Post("/submit", h.submitHandler())
		})
	})
}
