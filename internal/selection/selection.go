package selection

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

// PropertySelection is the one property the user tentatively chose.
type PropertySelection struct {
	PropertyID *string    `json:"property_id"`
	SelectedAt *time.Time `json:"selected_at,omitempty"`
}

// Cache keeps the selection record. Writes replace it whole.
type Cache struct {
	store *storage.Accessor
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.Mutex
	sel    PropertySelection
	loaded bool
}

func NewCache(store *storage.Accessor, log zerolog.Logger) *Cache {
	return &Cache{store: store, log: log, now: time.Now}
}

func (c *Cache) Read(ctx context.Context) PropertySelection {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.loaded = true
		c.sel = storage.Get(ctx, c.store, storage.KeySelectedProperty, PropertySelection{})
	}
	return clone(c.sel)
}

func (c *Cache) Select(ctx context.Context, propertyID string) PropertySelection {
	c.mu.Lock()
	defer c.mu.Unlock()

	at := c.now().UTC()
	c.sel = PropertySelection{PropertyID: &propertyID, SelectedAt: &at}
	c.loaded = true

	if !c.store.SetItem(ctx, storage.KeySelectedProperty, c.sel) {
		c.log.Warn().Str("property_id", propertyID).Msg("selection kept in memory only")
	}
	return clone(c.sel)
}

func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sel = PropertySelection{}
	c.loaded = true
	c.store.RemoveItem(ctx, storage.KeySelectedProperty)
}

func (c *Cache) HasSelection(ctx context.Context) bool {
	return c.Read(ctx).PropertyID != nil
}

func clone(s PropertySelection) PropertySelection {
	if s.PropertyID != nil {
		id := *s.PropertyID
		s.PropertyID = &id
	}
	if s.SelectedAt != nil {
		at := *s.SelectedAt
		s.SelectedAt = &at
	}
	return s
}
