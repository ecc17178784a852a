package settings_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/arunika-id/arunika-admin/internal/settings"
	"github.com/arunika-id/arunika-admin/internal/shared"
	_ "github.com/arunika-id/arunika-admin/testing"
)

type recordingAudit struct {
	logs []shared.AuditLog
}

func (r *recordingAudit) Record(ctx context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func newService(t *testing.T) (*settings.Service, *recordingAudit) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	audit := &recordingAudit{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return settings.NewService(client, audit, logger), audit
}

func TestAllReturnsDefaults(t *testing.T) {
	service, _ := newService(t)

	all, err := service.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if all["maintenance_mode"] {
		t.Fatalf("maintenance_mode must default to false")
	}
	if !all["registration_open"] || !all["comments_enabled"] || !all["manual_topup_open"] {
		t.Fatalf("expected open defaults, got %v", all)
	}
}

func TestSetToggleOverridesDefault(t *testing.T) {
	service, audit := newService(t)

	if err := service.SetToggle(context.Background(), "maintenance_mode", true, 1); err != nil {
		t.Fatalf("set toggle: %v", err)
	}

	all, err := service.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if !all["maintenance_mode"] {
		t.Fatalf("stored toggle must override the default")
	}
	if len(audit.logs) != 1 || audit.logs[0].EntityID != "maintenance_mode" {
		t.Fatalf("expected audit record for the toggle, got %+v", audit.logs)
	}
}

func TestSetToggleRejectsUnknownKey(t *testing.T) {
	service, audit := newService(t)

	err := service.SetToggle(context.Background(), "dark_mode", true, 1)
	if !errors.Is(err, settings.ErrUnknownToggle) {
		t.Fatalf("expected ErrUnknownToggle, got %v", err)
	}
	if len(audit.logs) != 0 {
		t.Fatalf("rejected toggle must not be audited")
	}
}
