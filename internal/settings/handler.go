package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
)

// ErrUnknownToggle indicates a toggle key outside the known set.
var ErrUnknownToggle = errors.New("unknown toggle")

// Handler wires HTTP endpoints for the site-wide settings toggles.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   guard.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, g guard.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: g}
}

// MountRoutes registers settings routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(identity.RoleSuperadmin))
		r.Get("/", h.list)
		r.Put("/{key}", h.set)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	toggles, err := h.service.All(r.Context())
	if err != nil {
		h.logger.Error("list settings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"settings": toggles})
}

type togglePayload struct {
	Value bool `json:"value"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var payload togglePayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body tidak dapat dibaca")
		return
	}
	ident := identity.FromContext(r.Context())
	if ident == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "identitas belum diketahui")
		return
	}
	if err := h.service.SetToggle(r.Context(), key, payload.Value, ident.ID); err != nil {
		if errors.Is(err, ErrUnknownToggle) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("set toggle", slog.String("key", key), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"key": key, "value": payload.Value})
}
