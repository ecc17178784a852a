package staff

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
)

// ErrUnknownCapability indicates a grant key the catalog does not declare.
var ErrUnknownCapability = errors.New("unknown capability")

// Handler manages staff management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     guard.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, g guard.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: g, validator: validator.New()}
}

// MountRoutes registers staff routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(identity.RoleSuperadmin))
		r.Get("/", h.list)
		r.Put("/{id}/permissions", h.replaceGrants)
	})
}

type memberJSON struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	RawRole     string   `json:"raw_role"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list staff", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		perms := m.Permissions
		if perms == nil {
			perms = []string{}
		}
		out = append(out, memberJSON{
			ID:          m.ID,
			Email:       m.Email,
			DisplayName: m.DisplayName,
			Role:        string(m.Role),
			RawRole:     m.RawRole,
			IsActive:    m.IsActive,
			Permissions: perms,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"staff": out})
}

type grantsPayload struct {
	Permissions []string `json:"permissions" validate:"required,dive,min=1"`
}

func (h *Handler) replaceGrants(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id tidak valid")
		return
	}
	var payload grantsPayload
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
	if err := h.service.ReplaceGrants(r.Context(), staffID, ident.ID, payload.Permissions); err != nil {
		if errors.Is(err, ErrUnknownCapability) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("replace grants", slog.Int64("staff_id", staffID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
