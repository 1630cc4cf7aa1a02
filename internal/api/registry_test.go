// internal/api/registry_test.go
package api

import (
	"context"
	"testing"
	"time"

	"listing-wizard/internal/common/database"
	apperrors "listing-wizard/internal/common/errors"
	"listing-wizard/internal/common/logger"
	"listing-wizard/internal/models"
	"listing-wizard/internal/wizard"
	"listing-wizard/internal/wizard/listing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(t *testing.T) (*Registry, *fakeClock) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	submitNothing := wizard.SubmitterFunc[listing.State](func(context.Context, listing.State) error { return nil })
	r := NewRegistry(
		SessionEnv{KV: database.NewRedisFromClient(rdb), KeyPrefix: "wizard", Logger: logger.NewTestLogger(t)},
		nil,
		Bind(listing.NewFlow(), submitNothing, listing.DecodePatch),
	)
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	r.now = clock.now
	return r, clock
}

func TestRegistry_SweepUnmountsIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(t)
	ctx := context.Background()

	idle, _, err := r.Open(ctx, listing.FlowName, models.Identity{UserID: "idle-user", Email: "idle@example.com"})
	require.NoError(t, err)
	require.NoError(t, idle.Patch("propertyBasics", []byte(`{"propertyName":"Lakeview Inn"}`)))
	require.NoError(t, idle.Save(ctx))
	msg, err := idle.Attach(ctx, "details.photos", models.File{Name: "front.png", Data: pngBytes})
	require.NoError(t, err)
	require.Empty(t, msg)
	photo := idle.(*binding[listing.State]).session.Sections().Details.Photos[0]

	_, _, err = r.Open(ctx, listing.FlowName, models.Identity{UserID: "busy-user", Email: "busy@example.com"})
	require.NoError(t, err)

	clock.advance(20 * time.Minute)
	_, err = r.Get(listing.FlowName, "busy-user")
	require.NoError(t, err)
	clock.advance(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep(ctx, 30*time.Minute))
	assert.False(t, photo.Attached(), "sweeping releases attachments")

	_, err = r.Get(listing.FlowName, "idle-user")
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeSessionNotFound, stdErr.Code)
	_, err = r.Get(listing.FlowName, "busy-user")
	assert.NoError(t, err)

	// The draft survives, so reopening resumes it.
	_, resumed, err := r.Open(ctx, listing.FlowName, models.Identity{UserID: "idle-user", Email: "idle@example.com"})
	require.NoError(t, err)
	assert.True(t, resumed)

	assert.Equal(t, 0, r.Sweep(ctx, 30*time.Minute))
}

func TestRegistry_RunSweeperStopsWithContext(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunSweeper(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
