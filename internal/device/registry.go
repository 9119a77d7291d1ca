package device

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/preferences"
	"github.com/MitsuruMe/momomoving-fe/internal/selection"
	"github.com/MitsuruMe/momomoving-fe/internal/session"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

// Device is everything the server keeps for one browser. Its state can be
// rebuilt from the store at any time.
type Device struct {
	ID          string
	Store       *storage.Accessor
	Session     *session.Manager
	Preferences *preferences.Cache
	Selection   *selection.Cache
}

type Options struct {
	Session session.Options
}

type entry struct {
	device   *Device
	lastUsed time.Time
}

// Registry hands out devices and forgets those left idle.
type Registry struct {
	backend storage.Backend
	auth    session.Authenticator
	opts    Options
	log     zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	devices map[string]*entry
}

func NewRegistry(backend storage.Backend, auth session.Authenticator, opts Options, log zerolog.Logger) *Registry {
	return &Registry{
		backend: backend,
		auth:    auth,
		opts:    opts,
		log:     log,
		now:     time.Now,
		devices: make(map[string]*entry),
	}
}

// Get returns the device for id, building it on first use.
func (r *Registry) Get(id string) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.devices[id]
	if !ok {
		e = &entry{device: r.build(id)}
		r.devices[id] = e
	}
	e.lastUsed = r.now()
	return e.device
}

func (r *Registry) build(id string) *Device {
	log := r.log.With().Str("device_id", id).Logger()
	store := storage.NewAccessor(r.backend, id, log)
	return &Device{
		ID:          id,
		Store:       store,
		Session:     session.NewManager(r.auth, store, r.opts.Session, log),
		Preferences: preferences.NewCache(store, log),
		Selection:   selection.NewCache(store, log),
	}
}

// Sweep drops devices unused for longer than idle. Devices still resolving
// or with live subscribers are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var evicted []*Device
	for id, e := range r.devices {
		if e.lastUsed.After(cutoff) {
			continue
		}
		if e.device.Session.Subscribers() > 0 {
			continue
		}
		if s := e.device.Session.Snapshot(); s.Status == session.StatusInitializing {
			continue
		}
		delete(r.devices, id)
		evicted = append(evicted, e.device)
	}
	r.mu.Unlock()

	for _, d := range evicted {
		d.Session.Close()
	}
	if len(evicted) > 0 {
		r.log.Debug().Int("evicted", len(evicted)).Msg("idle devices swept")
	}
	return len(evicted)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}
