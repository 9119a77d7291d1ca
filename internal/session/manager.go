package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

// Authenticator is the part of the remote API the session needs.
type Authenticator interface {
	Login(ctx context.Context, username string, password string) (models.Token, error)
	Me(ctx context.Context, token string) (models.User, error)
}

// Sealer protects the bearer token while it sits in the device store.
type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

type Options struct {
	// ErrorTTL is how long a login error stays visible. Zero keeps it until
	// cleared.
	ErrorTTL time.Duration
	Sealer   Sealer
}

type subscriber struct {
	id uint64
	fn func(State)
}

// Manager owns the session of one device. It is safe for concurrent use.
type Manager struct {
	auth     Authenticator
	store    *storage.Accessor
	sealer   Sealer
	errorTTL time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	state    State
	epoch    uint64
	errSeq   uint64
	errTimer *time.Timer
	changed  chan struct{}
	subs     []subscriber
	nextSub  uint64

	notifyMu sync.Mutex
}

func NewManager(auth Authenticator, store *storage.Accessor, opts Options, log zerolog.Logger) *Manager {
	return &Manager{
		auth:     auth,
		store:    store,
		sealer:   opts.Sealer,
		errorTTL: opts.ErrorTTL,
		log:      log,
		state:    Initial(),
		changed:  make(chan struct{}),
	}
}

// Init resolves the stored token into a session. Only the first call does
// any work; later calls return immediately.
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.state.Status != StatusUninitialized {
		m.mu.Unlock()
		return
	}
	epoch := m.epoch
	fns := m.applyLocked(Action{Type: ActionSetLoading, Loading: true})
	m.mu.Unlock()
	m.notify(fns)

	token := m.readToken(ctx)
	if token == "" {
		m.commit(epoch, Action{Type: ActionLogout}, nil)
		return
	}

	user, err := m.auth.Me(ctx, token)
	if err != nil {
		m.log.Warn().Err(err).Msg("stored token rejected, discarding")
		m.commit(epoch, Action{Type: ActionLogout}, func() {
			m.store.RemoveItem(context.WithoutCancel(ctx), storage.KeyAuthToken)
		})
		return
	}

	m.commit(epoch, Action{Type: ActionLoginSuccess, User: &user, Token: token}, nil)
}

// Login exchanges credentials for a token, loads the user and persists the
// token only when both steps succeed.
func (m *Manager) Login(ctx context.Context, username string, password string) bool {
	m.mu.Lock()
	m.epoch++
	epoch := m.epoch
	m.cancelErrorClearLocked()
	fns := m.applyLocked(Action{Type: ActionLoginStart})
	m.mu.Unlock()
	m.notify(fns)

	token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		m.log.Debug().Err(err).Str("username", username).Msg("login rejected")
		m.fail(epoch, failureMessage(err, "login failed"))
		return false
	}

	user, err := m.auth.Me(ctx, token.AccessToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("identity fetch after login failed")
		m.fail(epoch, failureMessage(err, "failed to load user"))
		return false
	}

	return m.commit(epoch, Action{Type: ActionLoginSuccess, User: &user, Token: token.AccessToken}, func() {
		m.writeToken(context.WithoutCancel(ctx), token.AccessToken)
	})
}

// Logout forgets the token locally. The remote API is not told. The purge
// outlives a cancelled ctx.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.epoch++
	m.cancelErrorClearLocked()
	m.store.RemoveItem(context.WithoutCancel(ctx), storage.KeyAuthToken)
	fns := m.applyLocked(Action{Type: ActionLogout})
	m.mu.Unlock()
	m.notify(fns)
}

// Expire ends the session after the remote API refused that token. A token that
// is no longer the current one is ignored.
func (m *Manager) Expire(ctx context.Context, token string) bool {
	m.mu.Lock()
	if m.state.Status != StatusAuthenticated || m.state.Token == nil || *m.state.Token != token {
		m.mu.Unlock()
		return false
	}
	m.epoch++
	m.cancelErrorClearLocked()
	m.store.RemoveItem(context.WithoutCancel(ctx), storage.KeyAuthToken)
	fns := m.applyLocked(Action{Type: ActionExpire})
	m.mu.Unlock()

	m.log.Info().Msg("session expired by remote api")
	m.notify(fns)
	return true
}

func (m *Manager) ClearError() {
	m.mu.Lock()
	m.cancelErrorClearLocked()
	fns := m.applyLocked(Action{Type: ActionClearError})
	m.mu.Unlock()
	m.notify(fns)
}

// SetUser replaces the cached user, e.g. after a profile update.
func (m *Manager) SetUser(user models.User) {
	m.mu.Lock()
	fns := m.applyLocked(Action{Type: ActionSetUser, User: &user})
	m.mu.Unlock()
	m.notify(fns)
}

func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneState(m.state)
}

// Token returns the bearer token of an authenticated session.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Status != StatusAuthenticated || m.state.Token == nil {
		return "", false
	}
	return *m.state.Token, true
}

// Wait blocks until the session is not loading or ctx is done. It always
// returns the latest state.
func (m *Manager) Wait(ctx context.Context) (State, error) {
	for {
		m.mu.Lock()
		if !m.state.Loading {
			s := cloneState(m.state)
			m.mu.Unlock()
			return s, nil
		}
		changed := m.changed
		m.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		}
	}
}

// Subscribe registers fn for every state change and returns its
// unsubscribe function.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Close stops the pending error timer.
func (m *Manager) Close() {
	m.mu.Lock()
	m.cancelErrorClearLocked()
	m.mu.Unlock()
}

func (m *Manager) fail(epoch uint64, msg string) {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return
	}
	fns := m.applyLocked(Action{Type: ActionLoginFailure, Error: msg})
	m.scheduleErrorClearLocked()
	m.mu.Unlock()
	m.notify(fns)
}

// commit applies a unless a newer login or logout superseded the caller.
func (m *Manager) commit(epoch uint64, a Action, effect func()) bool {
	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		return false
	}
	if effect != nil {
		effect()
	}
	fns := m.applyLocked(a)
	m.mu.Unlock()
	m.notify(fns)
	return true
}

func (m *Manager) applyLocked(a Action) []func(State) {
	m.state = Reduce(m.state, a)
	close(m.changed)
	m.changed = make(chan struct{})

	fns := make([]func(State), 0, len(m.subs))
	for _, s := range m.subs {
		fns = append(fns, s.fn)
	}
	return fns
}

// notify hands subscribers the current state, so a late notification never
// delivers a stale one.
func (m *Manager) notify(fns []func(State)) {
	if len(fns) == 0 {
		return
	}
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	s := m.Snapshot()
	for _, fn := range fns {
		fn(s)
	}
}

func (m *Manager) scheduleErrorClearLocked() {
	m.cancelErrorClearLocked()
	if m.errorTTL <= 0 {
		return
	}

	seq := m.errSeq
	m.errTimer = time.AfterFunc(m.errorTTL, func() {
		m.mu.Lock()
		if m.errSeq != seq || m.state.Error == nil {
			m.mu.Unlock()
			return
		}
		fns := m.applyLocked(Action{Type: ActionClearError})
		m.mu.Unlock()
		m.notify(fns)
	})
}

func (m *Manager) cancelErrorClearLocked() {
	m.errSeq++
	if m.errTimer != nil {
		m.errTimer.Stop()
		m.errTimer = nil
	}
}

func (m *Manager) readToken(ctx context.Context) string {
	var stored string
	if !m.store.GetItem(ctx, storage.KeyAuthToken, &stored) || stored == "" {
		return ""
	}
	if m.sealer == nil {
		return stored
	}

	token, err := m.sealer.Open(stored)
	if err != nil {
		m.log.Warn().Err(err).Msg("discarding unreadable stored token")
		m.store.RemoveItem(context.WithoutCancel(ctx), storage.KeyAuthToken)
		return ""
	}
	return token
}

func (m *Manager) writeToken(ctx context.Context, token string) {
	value := token
	if m.sealer != nil {
		sealed, err := m.sealer.Seal(token)
		if err != nil {
			m.log.Error().Err(err).Msg("seal token")
			return
		}
		value = sealed
	}
	if !m.store.SetItem(ctx, storage.KeyAuthToken, value) {
		m.log.Warn().Msg("token not persisted, session lasts until idle eviction")
	}
}

func failureMessage(err error, fallback string) string {
	if errors.Is(err, momoapi.ErrNetwork) {
		return "network error"
	}
	var apiErr *momoapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(fallback)
	}
	return fallback
}

func cloneState(s State) State {
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	if s.Token != nil {
		token := *s.Token
		s.Token = &token
	}
	if s.Error != nil {
		msg := *s.Error
		s.Error = &msg
	}
	return s
}
