package device

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, username string, _ string) (models.Token, error) {
	return models.Token{AccessToken: "tok-" + username}, nil
}

func (stubAuth) Me(_ context.Context, token string) (models.User, error) {
	return models.User{Username: token}, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newRegistry(backend storage.Backend) (*Registry, *clock) {
	c := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRegistry(backend, stubAuth{}, Options{}, zerolog.Nop())
	r.now = c.now
	return r, c
}

func TestGetReusesDevice(t *testing.T) {
	r, _ := newRegistry(storage.NewMemoryBackend())

	a := r.Get("dev-a")
	assert.Same(t, a, r.Get("dev-a"))
	assert.NotSame(t, a, r.Get("dev-b"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "dev-a", a.Store.Namespace())
}

func TestSweepEvictsIdleDevices(t *testing.T) {
	r, c := newRegistry(storage.NewMemoryBackend())
	r.Get("old")
	c.t = c.t.Add(20 * time.Minute)
	r.Get("fresh")
	c.t = c.t.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())
}

func TestSweepKeepsWatchedDevices(t *testing.T) {
	r, c := newRegistry(storage.NewMemoryBackend())
	d := r.Get("watched")
	unsubscribe := d.Session.Subscribe(func(session.State) {})

	c.t = c.t.Add(time.Hour)
	assert.Zero(t, r.Sweep(time.Minute))

	unsubscribe()
	assert.Equal(t, 1, r.Sweep(time.Minute))
}

func TestEvictedDeviceRestoresFromStore(t *testing.T) {
	backend := storage.NewMemoryBackend()
	r, c := newRegistry(backend)
	ctx := context.Background()

	d := r.Get("dev")
	d.Session.Init(ctx)
	require.True(t, d.Session.Login(ctx, "momo", "secret1"))
	d.Preferences.UpdateSelectedTags(ctx, []string{"pet"})
	d.Selection.Select(ctx, "p1")

	c.t = c.t.Add(time.Hour)
	require.Equal(t, 1, r.Sweep(time.Minute))

	again := r.Get("dev")
	assert.NotSame(t, d, again)
	again.Session.Init(ctx)
	assert.Equal(t, session.StatusAuthenticated, again.Session.Snapshot().Status)
	assert.Equal(t, []string{"pet"}, again.Preferences.Read(ctx).SelectedTags)
	assert.Equal(t, "p1", *again.Selection.Read(ctx).PropertyID)
}
