package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/arunika-id/arunika-admin/internal/auth"
	"github.com/arunika-id/arunika-admin/internal/capability"
	"github.com/arunika-id/arunika-admin/internal/identity"
	"github.com/arunika-id/arunika-admin/internal/shared"
	_ "github.com/arunika-id/arunika-admin/testing"
)

type stubRepo struct {
	user *auth.StaffUser
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.StaffUser, error) {
	if s.user == nil {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, staffID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

type stubResolver struct {
	ident identity.Identity
}

func (s stubResolver) Resolve(ctx context.Context, staffID int64) (identity.Identity, error) {
	if staffID != s.ident.ID {
		return identity.Identity{}, shared.ErrNotFound
	}
	return s.ident, nil
}

func sessionInjector(manager *shared.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r.Context(), r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			ctx := shared.ContextWithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newAuthRouter(t *testing.T, repo auth.Repository, resolver stubResolver) (http.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(nil, auth.NewService(repo), resolver, capability.DefaultCatalog(), sessionManager, csrfManager)

	r := chi.NewRouter()
	r.Use(sessionInjector(sessionManager))
	r.Route("/auth", handler.MountRoutes)
	return r, sessionManager
}

func TestLoginSuccess(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia-123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.StaffUser{ID: 7, Email: "rani@arunika.id", DisplayName: "Rani", PasswordHash: string(hashed), IsActive: true}}
	resolver := stubResolver{ident: identity.New(7, "Rani", "KEUANGAN_STAFF", []string{"topup-manual", "riwayat-topup"})}
	router, _ := newAuthRouter(t, repo, resolver)

	body := `{"email":"rani@arunika.id","password":"rahasia-123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var payload struct {
		ID          int64    `json:"id"`
		DisplayName string   `json:"display_name"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
		Menu        []struct {
			Key      string `json:"key"`
			Children []struct {
				Key string `json:"key"`
			} `json:"children"`
		} `json:"menu"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID != 7 || payload.Role != "keuangan" {
		t.Fatalf("unexpected identity: %+v", payload)
	}
	if payload.CSRFToken == "" {
		t.Fatalf("login must issue a csrf token")
	}
	if len(payload.Menu) != 1 || payload.Menu[0].Key != "keuangan" {
		t.Fatalf("expected keuangan menu group only, got %+v", payload.Menu)
	}
	if len(payload.Menu[0].Children) != 2 {
		t.Fatalf("expected both keuangan leaves, got %+v", payload.Menu[0].Children)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia-123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.StaffUser{ID: 7, Email: "rani@arunika.id", PasswordHash: string(hashed), IsActive: true}}
	router, _ := newAuthRouter(t, repo, stubResolver{})

	body := `{"email":"rani@arunika.id","password":"salah-semua"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Email atau password tidak valid") {
		t.Fatalf("expected Indonesian error message, got %s", res.Body.String())
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia-123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubRepo{user: &auth.StaffUser{ID: 7, Email: "rani@arunika.id", PasswordHash: string(hashed), IsActive: false}}
	router, _ := newAuthRouter(t, repo, stubResolver{})

	body := `{"email":"rani@arunika.id","password":"rahasia-123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("inactive account must not sign in, got %d", res.Code)
	}
}

func TestLoginValidatesPayload(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{}, stubResolver{})

	body := `{"email":"bukan-email","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestMeUnauthenticated(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{}, stubResolver{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me must map to 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "identitas belum diketahui") {
		t.Fatalf("expected loading notice, got %s", res.Body.String())
	}
}

func TestMeEmptyMenuSerializesAsArray(t *testing.T) {
	// Unrecognized role with no grants resolves zero catalog entries.
	resolver := stubResolver{ident: identity.New(9, "Tomo", "moderator", nil)}
	router, sessionManager := newAuthRouter(t, &stubRepo{}, resolver)

	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sessionManager.Load(context.Background(), seed)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetStaff(9)
	if err := sessionManager.Commit(context.Background(), httptest.NewRecorder(), seed, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"menu":[]`) {
		t.Fatalf("empty menu must render as [], got %s", res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"permissions":[]`) {
		t.Fatalf("empty permissions must render as [], got %s", res.Body.String())
	}
}

func TestMeAuthenticated(t *testing.T) {
	resolver := stubResolver{ident: identity.New(7, "Rani", "keuangan", []string{"topup-manual"})}
	router, sessionManager := newAuthRouter(t, &stubRepo{}, resolver)

	// Prime an authenticated session directly in the store.
	seed := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sessionManager.Load(context.Background(), seed)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	sess.SetStaff(7)
	if err := sessionManager.Commit(context.Background(), httptest.NewRecorder(), seed, sess); err != nil {
		t.Fatalf("commit session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"display_name":"Rani"`) {
		t.Fatalf("expected identity payload, got %s", res.Body.String())
	}
}
