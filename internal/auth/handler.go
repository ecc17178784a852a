package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/arunika-id/arunika-admin/internal/capability"
	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	identities     guard.IdentityResolver
	catalog        []capability.Entry
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, identities guard.IdentityResolver, catalog []capability.Entry, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		identities:     identities,
		catalog:        catalog,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "body tidak dapat dibaca")
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Email atau password tidak valid")
		return
	}

	sess.SetStaff(user.ID)
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	h.writeIdentity(w, r, user.ID, csrfToken)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMe returns the canonical identity plus the visible navigation
// catalog. The SPA calls this on boot; until it answers, the frontend
// stays in its loading state rather than flashing denied chrome.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.Staff() == 0 {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "identitas belum diketahui, silakan masuk")
		return
	}
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	h.writeIdentity(w, r, sess.Staff(), csrfToken)
}

type menuEntry struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	Target   string      `json:"target,omitempty"`
	Children []menuEntry `json:"children,omitempty"`
}

type identityResponse struct {
	ID          int64       `json:"id"`
	DisplayName string      `json:"display_name"`
	Role        string      `json:"role"`
	Permissions []string    `json:"permissions"`
	Menu        []menuEntry `json:"menu"`
	CSRFToken   string      `json:"csrf_token,omitempty"`
}

func (h *Handler) writeIdentity(w http.ResponseWriter, r *http.Request, staffID int64, csrfToken string) {
	ident, err := h.identities.Resolve(r.Context(), staffID)
	if err != nil {
		h.logger.Error("resolve identity", slog.Int64("staff_id", staffID), slog.Any("error", err))
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "akun tidak ditemukan atau nonaktif")
		return
	}
	visible := capability.ResolveVisible(ident, h.catalog)
	perms := ident.Permissions.Keys()
	if perms == nil {
		perms = []string{}
	}
	httpx.JSON(w, http.StatusOK, identityResponse{
		ID:          ident.ID,
		DisplayName: ident.DisplayName,
		Role:        string(ident.Role),
		Permissions: perms,
		Menu:        toMenu(visible),
		CSRFToken:   csrfToken,
	})
}

func toMenu(entries []capability.Entry) []menuEntry {
	menu := make([]menuEntry, 0, len(entries))
	for _, entry := range entries {
		menu = append(menu, menuEntry{
			Key:      entry.Key,
			Label:    entry.Label,
			Target:   entry.Target,
			Children: toMenu(entry.Children),
		})
	}
	return menu
}
