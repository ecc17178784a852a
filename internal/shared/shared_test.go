package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunika-id/arunika-admin/internal/shared"
	_ "github.com/arunika-id/arunika-admin/testing"
)

func TestNewPagination(t *testing.T) {
	p := shared.NewPagination(0, 0, 45)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, p.Offset())

	p = shared.NewPagination(3, 10, 45)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 20, p.Offset())
}

func TestCSRFManagerRoundTrip(t *testing.T) {
	csrf := shared.NewCSRFManager("rahasia")

	sess := &shared.Session{}
	token, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// EnsureToken is stable for the session lifetime.
	again, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, csrf.VerifyToken(context.Background(), sess, token))
	assert.Error(t, csrf.VerifyToken(context.Background(), sess, "token-palsu"))
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, ""), shared.ErrCSRFTokenMissing)
}

func TestSessionStaffRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(client, "test_session", time.Hour, false)

	sess := &shared.Session{}
	sess.SetStaff(7)
	require.Equal(t, int64(7), sess.Staff())
	assert.Equal(t, "7", sess.StaffString())

	anon := &shared.Session{}
	assert.Equal(t, "", anon.StaffString())
	assert.Equal(t, time.Hour, manager.TTL())
	assert.Equal(t, "test_session", manager.CookieName())
}
