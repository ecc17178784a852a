package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/arunika-id/arunika-admin/internal/shared"
)

const redisKey = "site:settings"

// Known toggle keys with their defaults. Toggles outside this map are
// rejected rather than stored.
var defaults = map[string]bool{
	"maintenance_mode":  false,
	"registration_open": true,
	"comments_enabled":  true,
	"manual_topup_open": true,
}

// Service manages the site-wide settings toggles in Redis.
type Service struct {
	client *redis.Client
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(client *redis.Client, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{client: client, audit: audit, logger: logger}
}

// All returns every toggle merged over its default.
func (s *Service) All(ctx context.Context) (map[string]bool, error) {
	stored, err := s.client.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}
	out := make(map[string]bool, len(defaults))
	for key, def := range defaults {
		out[key] = def
		if raw, ok := stored[key]; ok {
			if value, err := strconv.ParseBool(raw); err == nil {
				out[key] = value
			}
		}
	}
	return out, nil
}

// SetToggle updates a single toggle and records the change.
func (s *Service) SetToggle(ctx context.Context, key string, value bool, actorID int64) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("settings: %w: toggle %q", ErrUnknownToggle, key)
	}
	if err := s.client.HSet(ctx, redisKey, key, strconv.FormatBool(value)).Err(); err != nil {
		return fmt.Errorf("settings: store: %w", err)
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   "settings.toggle",
		Entity:   "site_setting",
		EntityID: key,
		Meta:     map[string]any{"value": value},
	}); err != nil {
		s.logger.Warn("record settings audit", slog.Any("error", err))
	}
	return nil
}
