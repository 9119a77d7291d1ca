package preferences

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/storage"
)

// UserPreferences are the search filters and onboarding answers of one
// device. Nil fields were never answered.
type UserPreferences struct {
	SelectedTags          []string `json:"selectedTags"`
	MaxRent               *int     `json:"maxRent,omitempty"`
	NearestStation        *string  `json:"nearestStation,omitempty"`
	MinFloorArea          *float64 `json:"minFloorArea,omitempty"`
	MaxFloorArea          *float64 `json:"maxFloorArea,omitempty"`
	MaxWalkMinutes        *int     `json:"maxWalkMinutes,omitempty"`
	NuroAvailable         *bool    `json:"nuroAvailable,omitempty"`
	SonetAvailable        *bool    `json:"sonetAvailable,omitempty"`
	DestinationPostalCode *string  `json:"destinationPostalCode,omitempty"`
	DestinationAddress    *string  `json:"destinationAddress,omitempty"`
}

// Partial is a merge request. Nil fields, and a nil SelectedTags, leave the
// stored value as it is.
type Partial struct {
	SelectedTags          []string `json:"selectedTags" binding:"omitempty,dive,min=1,max=30"`
	MaxRent               *int     `json:"maxRent" binding:"omitempty,min=0,max=1000000"`
	NearestStation        *string  `json:"nearestStation" binding:"omitempty,max=50"`
	MinFloorArea          *float64 `json:"minFloorArea" binding:"omitempty,min=0"`
	MaxFloorArea          *float64 `json:"maxFloorArea" binding:"omitempty,min=0"`
	MaxWalkMinutes        *int     `json:"maxWalkMinutes" binding:"omitempty,min=0,max=60"`
	NuroAvailable         *bool    `json:"nuroAvailable"`
	SonetAvailable        *bool    `json:"sonetAvailable"`
	DestinationPostalCode *string  `json:"destinationPostalCode" binding:"omitempty,postalcode"`
	DestinationAddress    *string  `json:"destinationAddress" binding:"omitempty,max=200"`
}

func defaults() UserPreferences {
	return UserPreferences{SelectedTags: []string{}}
}

// Cache mirrors the stored record in memory after the first read.
type Cache struct {
	store *storage.Accessor
	log   zerolog.Logger

	mu     sync.Mutex
	prefs  UserPreferences
	loaded bool
}

func NewCache(store *storage.Accessor, log zerolog.Logger) *Cache {
	return &Cache{store: store, log: log, prefs: defaults()}
}

func (c *Cache) Read(ctx context.Context) UserPreferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked(ctx)
	return clone(c.prefs)
}

// Save shallow-merges p into the record and rewrites it whole.
func (c *Cache) Save(ctx context.Context, p Partial) UserPreferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hydrateLocked(ctx)

	c.prefs = merge(c.prefs, p)
	if !c.store.SetItem(ctx, storage.KeyUserPreferences, c.prefs) {
		c.log.Warn().Msg("preferences kept in memory only")
	}
	return clone(c.prefs)
}

func (c *Cache) UpdateSelectedTags(ctx context.Context, tags []string) UserPreferences {
	if tags == nil {
		tags = []string{}
	}
	return c.Save(ctx, Partial{SelectedTags: tags})
}

func (c *Cache) UpdateDestination(ctx context.Context, postalCode string, address *string) UserPreferences {
	return c.Save(ctx, Partial{DestinationPostalCode: &postalCode, DestinationAddress: address})
}

func (c *Cache) UpdateSearchConditions(ctx context.Context, p Partial) UserPreferences {
	return c.Save(ctx, p)
}

// Clear resets the record and removes it from the store.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prefs = defaults()
	c.loaded = true
	c.store.RemoveItem(ctx, storage.KeyUserPreferences)
}

// HasPreferences reports whether onboarding produced anything to search with.
func (c *Cache) HasPreferences(ctx context.Context) bool {
	p := c.Read(ctx)
	return len(p.SelectedTags) > 0 || p.DestinationPostalCode != nil
}

func (c *Cache) hydrateLocked(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	stored := storage.Get(ctx, c.store, storage.KeyUserPreferences, defaults())
	if stored.SelectedTags == nil {
		stored.SelectedTags = []string{}
	}
	stored.SelectedTags = uniqueTags(stored.SelectedTags)
	c.prefs = stored
}

// SearchConditions turns the record into remote property-search filters.
func (p UserPreferences) SearchConditions() models.PropertySearch {
	return models.PropertySearch{
		MaxRent:        p.MaxRent,
		NearestStation: p.NearestStation,
		MinFloorArea:   p.MinFloorArea,
		MaxFloorArea:   p.MaxFloorArea,
		MaxWalkMinutes: p.MaxWalkMinutes,
		NuroAvailable:  p.NuroAvailable,
		SonetAvailable: p.SonetAvailable,
		Tags:           slices.Clone(p.SelectedTags),
	}
}

func merge(cur UserPreferences, p Partial) UserPreferences {
	if p.SelectedTags != nil {
		cur.SelectedTags = uniqueTags(p.SelectedTags)
	}
	if p.MaxRent != nil {
		cur.MaxRent = p.MaxRent
	}
	if p.NearestStation != nil {
		cur.NearestStation = p.NearestStation
	}
	if p.MinFloorArea != nil {
		cur.MinFloorArea = p.MinFloorArea
	}
	if p.MaxFloorArea != nil {
		cur.MaxFloorArea = p.MaxFloorArea
	}
	if p.MaxWalkMinutes != nil {
		cur.MaxWalkMinutes = p.MaxWalkMinutes
	}
	if p.NuroAvailable != nil {
		cur.NuroAvailable = p.NuroAvailable
	}
	if p.SonetAvailable != nil {
		cur.SonetAvailable = p.SonetAvailable
	}
	if p.DestinationPostalCode != nil {
		cur.DestinationPostalCode = p.DestinationPostalCode
	}
	if p.DestinationAddress != nil {
		cur.DestinationAddress = p.DestinationAddress
	}
	return clone(cur)
}

// uniqueTags keeps the first occurrence of every tag.
func uniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func clone(p UserPreferences) UserPreferences {
	p.SelectedTags = slices.Clone(p.SelectedTags)
	if p.SelectedTags == nil {
		p.SelectedTags = []string{}
	}
	p.MaxRent = clonePtr(p.MaxRent)
	p.NearestStation = clonePtr(p.NearestStation)
	p.MinFloorArea = clonePtr(p.MinFloorArea)
	p.MaxFloorArea = clonePtr(p.MaxFloorArea)
	p.MaxWalkMinutes = clonePtr(p.MaxWalkMinutes)
	p.NuroAvailable = clonePtr(p.NuroAvailable)
	p.SonetAvailable = clonePtr(p.SonetAvailable)
	p.DestinationPostalCode = clonePtr(p.DestinationPostalCode)
	p.DestinationAddress = clonePtr(p.DestinationAddress)
	return p
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}
