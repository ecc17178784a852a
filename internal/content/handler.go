package content

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/moderation"
	"github.com/arunika-id/arunika-admin/internal/observability"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
)

// Handler wires HTTP endpoints for episode moderation.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     guard.Middleware
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, g guard.Middleware, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, guard: g, metrics: metrics, validator: validator.New()}
}

// MountRoutes registers content routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(identity.RoleUploader, identity.RoleSuperadmin))
		r.Get("/episodes", h.reviewQueue)
		r.Post("/episodes/{id}/decision", h.decide)
	})
}

type groupJSON struct {
	SeriesID    string        `json:"series_id"`
	SeriesTitle string        `json:"series_title"`
	Episodes    []episodeJSON `json:"episodes"`
}

type episodeJSON struct {
	ID            string `json:"id"`
	EpisodeNumber int    `json:"episode_number"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Note          string `json:"note,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func (h *Handler) reviewQueue(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ReviewQueue(r.Context())
	if err != nil {
		h.logger.Error("content review queue", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]groupJSON, 0, len(groups))
	for _, group := range groups {
		gj := groupJSON{
			SeriesID:    group.SeriesID.String(),
			SeriesTitle: group.SeriesTitle,
			Episodes:    make([]episodeJSON, 0, len(group.Episodes)),
		}
		for _, ep := range group.Episodes {
			gj.Episodes = append(gj.Episodes, toEpisodeJSON(ep))
		}
		out = append(out, gj)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"series": out})
}

type decisionPayload struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Note   string `json:"note" validate:"max=500"`
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id tidak valid")
		return
	}
	var payload decisionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body tidak dapat dibaca")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	ident := identity.FromContext(r.Context())
	if ident == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "identitas belum diketahui")
		return
	}

	updated, err := h.service.Decide(r.Context(), id, moderation.Status(payload.Status), payload.Note, ident.ID)
	if err != nil {
		var illegal *moderation.IllegalTransitionError
		if errors.As(err, &illegal) {
			httpx.Problem(w, http.StatusConflict, "Illegal Transition", illegal.Error())
			return
		}
		h.logger.Error("decide episode", slog.String("id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.RecordDecision(Domain, string(updated.Status))
	httpx.JSON(w, http.StatusOK, toEpisodeJSON(updated))
}

func toEpisodeJSON(ep Episode) episodeJSON {
	return episodeJSON{
		ID:            ep.ID.String(),
		EpisodeNumber: ep.EpisodeNumber,
		Title:         ep.Title,
		Status:        string(ep.Status),
		Note:          ep.Note,
		CreatedAt:     ep.CreatedAt.Format(time.RFC3339),
	}
}
