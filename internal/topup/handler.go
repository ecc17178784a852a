package topup

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/arunika-id/arunika-admin/internal/guard"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/moderation"
	"github.com/arunika-id/arunika-admin/internal/observability"
	"github.com/arunika-id/arunika-admin/internal/platform/httpx"
	"github.com/arunika-id/arunika-admin/internal/shared"
)

// Handler wires HTTP endpoints for top-up moderation.
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

// MountRoutes registers top-up routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRoles(identity.RoleKeuangan, identity.RoleSuperadmin))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Post("/{id}/decision", h.decide)
	})
}

type listResponse struct {
	Requests   []requestJSON     `json:"requests"`
	Pagination shared.Pagination `json:"pagination"`
}

type requestJSON struct {
	ID         string   `json:"id"`
	MemberID   int64    `json:"member_id"`
	MemberName string   `json:"member_name"`
	Amount     int64    `json:"amount"`
	Method     string   `json:"method"`
	ProofURL   string   `json:"proof_url,omitempty"`
	Status     string   `json:"status"`
	Note       string   `json:"note,omitempty"`
	CreatedAt  string   `json:"created_at"`
	LegalNext  []string `json:"legal_next"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	status := moderation.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = StatusPending
	}
	if !knownStatus(status) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "status tidak dikenal: "+string(status))
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, 0)

	reqs, total, err := h.service.List(r.Context(), status, pagination)
	if err != nil {
		h.logger.Error("list topups", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	resp := listResponse{
		Requests:   make([]requestJSON, 0, len(reqs)),
		Pagination: shared.NewPagination(pagination.Page, pagination.PerPage, total),
	}
	for _, req := range reqs {
		resp.Requests = append(resp.Requests, toJSON(req))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id tidak valid")
		return
	}
	req, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJSON(req))
}

type decisionPayload struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED PAID CANCELED"`
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
		h.logger.Error("decide topup", slog.String("id", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.metrics.RecordDecision(Domain, string(updated.Status))
	httpx.JSON(w, http.StatusOK, toJSON(updated))
}

func toJSON(req Request) requestJSON {
	legal := Table().Legal(req.Status)
	next := make([]string, 0, len(legal))
	for _, s := range legal {
		next = append(next, string(s))
	}
	return requestJSON{
		ID:         req.ID.String(),
		MemberID:   req.MemberID,
		MemberName: req.MemberName,
		Amount:     req.Amount,
		Method:     req.Method,
		ProofURL:   req.ProofURL,
		Status:     string(req.Status),
		Note:       req.Note,
		CreatedAt:  req.CreatedAt.Format(time.RFC3339),
		LegalNext:  next,
	}
}

func knownStatus(s moderation.Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPaid, StatusCanceled:
		return true
	}
	return false
}
