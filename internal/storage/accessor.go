package storage

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"

	"github.com/rs/zerolog"
)

// Key names one persisted value inside a device namespace.
type Key string

const (
	KeyAuthToken        Key = "auth_token"
	KeyUserPreferences  Key = "user_preferences"
	KeySelectedProperty Key = "user_property_selection"
)

var ErrNotFound = errors.New("storage: key not found")

// Backend is a raw key/value store partitioned by namespace. Get returns
// ErrNotFound for absent keys.
type Backend interface {
	Get(ctx context.Context, namespace string, key string) ([]byte, error)
	Set(ctx context.Context, namespace string, key string, value []byte) error
	Delete(ctx context.Context, namespace string, key string) error
	Clear(ctx context.Context, namespace string) error
	Close() error
}

// Accessor is the only path from the caches to the backend. It never
// returns errors: an unavailable backend or a failed call degrades to
// false or the caller's default, and the failure is logged.
type Accessor struct {
	backend   Backend
	namespace string
	log       zerolog.Logger
}

func NewAccessor(backend Backend, namespace string, log zerolog.Logger) *Accessor {
	return &Accessor{
		backend:   backend,
		namespace: namespace,
		log:       log.With().Str("namespace", namespace).Logger(),
	}
}

func (a *Accessor) Available() bool {
	return a != nil && a.backend != nil
}

func (a *Accessor) Namespace() string {
	if a == nil {
		return ""
	}
	return a.namespace
}

func (a *Accessor) SetItem(ctx context.Context, key Key, value any) bool {
	if !a.Available() {
		return false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Error().Err(err).Str("key", string(key)).Msg("encode stored value failed")
		return false
	}

	if err := a.backend.Set(ctx, a.namespace, string(key), raw); err != nil {
		a.log.Error().Err(err).Str("key", string(key)).Msg("store write failed")
		return false
	}
	return true
}

// GetItem decodes the stored value into out, which must be a non-nil
// pointer. out is only written when the whole value decodes.
func (a *Accessor) GetItem(ctx context.Context, key Key, out any) bool {
	if !a.Available() {
		return false
	}

	target := reflect.ValueOf(out)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		a.log.Error().Str("key", string(key)).Msg("get item needs a non-nil pointer")
		return false
	}

	raw, ok := a.raw(ctx, key)
	if !ok {
		return false
	}

	tmp := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(raw, tmp.Interface()); err != nil {
		a.log.Warn().Err(err).Str("key", string(key)).Msg("discarding malformed stored value")
		return false
	}

	target.Elem().Set(tmp.Elem())
	return true
}

func (a *Accessor) RemoveItem(ctx context.Context, key Key) bool {
	if !a.Available() {
		return false
	}

	if err := a.backend.Delete(ctx, a.namespace, string(key)); err != nil {
		a.log.Error().Err(err).Str("key", string(key)).Msg("store delete failed")
		return false
	}
	return true
}

func (a *Accessor) HasItem(ctx context.Context, key Key) bool {
	_, ok := a.raw(ctx, key)
	return ok
}

// Clear drops every key of the namespace.
func (a *Accessor) Clear(ctx context.Context) bool {
	if !a.Available() {
		return false
	}

	if err := a.backend.Clear(ctx, a.namespace); err != nil {
		a.log.Error().Err(err).Msg("store clear failed")
		return false
	}
	return true
}

func (a *Accessor) raw(ctx context.Context, key Key) ([]byte, bool) {
	if !a.Available() {
		return nil, false
	}

	raw, err := a.backend.Get(ctx, a.namespace, string(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.log.Error().Err(err).Str("key", string(key)).Msg("store read failed")
		}
		return nil, false
	}
	return raw, true
}

// Get returns the decoded value for key, or def when it is absent,
// malformed or the store is unavailable.
func Get[T any](ctx context.Context, a *Accessor, key Key, def T) T {
	var out T
	if !a.GetItem(ctx, key, &out) {
		return def
	}
	return out
}
