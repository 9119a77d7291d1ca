package momoapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

// SearchQuery encodes the set filters; tags repeat the "tags" parameter.
func SearchQuery(s models.PropertySearch) url.Values {
	q := url.Values{}
	if s.MaxRent != nil {
		q.Set("max_rent", strconv.Itoa(*s.MaxRent))
	}
	if s.NearestStation != nil {
		q.Set("nearest_station", *s.NearestStation)
	}
	if s.MinFloorArea != nil {
		q.Set("min_floor_area", strconv.FormatFloat(*s.MinFloorArea, 'f', -1, 64))
	}
	if s.MaxFloorArea != nil {
		q.Set("max_floor_area", strconv.FormatFloat(*s.MaxFloorArea, 'f', -1, 64))
	}
	if s.MinBuildYear != nil {
		q.Set("min_build_year", strconv.Itoa(*s.MinBuildYear))
	}
	if s.MaxBuildYear != nil {
		q.Set("max_build_year", strconv.Itoa(*s.MaxBuildYear))
	}
	if s.MaxWalkMinutes != nil {
		q.Set("max_walk_minutes", strconv.Itoa(*s.MaxWalkMinutes))
	}
	if s.NuroAvailable != nil {
		q.Set("nuro_available", strconv.FormatBool(*s.NuroAvailable))
	}
	if s.SonetAvailable != nil {
		q.Set("sonet_available", strconv.FormatBool(*s.SonetAvailable))
	}
	for _, tag := range s.Tags {
		q.Add("tags", tag)
	}
	return q
}

func (c *Client) SearchProperties(ctx context.Context, token string, s models.PropertySearch) ([]models.Property, error) {
	var props []models.Property
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/properties",
		query:  SearchQuery(s),
		token:  token,
	}, &props)
	if props == nil {
		props = []models.Property{}
	}
	return props, err
}

func (c *Client) Property(ctx context.Context, token string, propertyID string) (models.PropertyDetails, error) {
	var details models.PropertyDetails
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/properties/" + url.PathEscape(propertyID),
		token:  token,
	}, &details)
	return details, err
}

// RecommendedProperties logs the conditions derived from the user's
// preferences but, like the MVP backend contract, fetches the full list and
// drops duplicate listings.
func (c *Client) RecommendedProperties(ctx context.Context, token string, conditions models.PropertySearch) ([]models.Property, error) {
	c.log.Debug().
		Interface("conditions", conditions).
		Bool("active", len(SearchQuery(conditions)) > 0).
		Msg("recommended properties requested")

	props, err := c.SearchProperties(ctx, token, models.PropertySearch{})
	if err != nil {
		return []models.Property{}, err
	}
	return Dedupe(props), nil
}

// Dedupe keeps the first listing of each property_id, preserving order.
func Dedupe(props []models.Property) []models.Property {
	seen := make(map[string]struct{}, len(props))
	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if _, ok := seen[p.PropertyID]; ok {
			continue
		}
		seen[p.PropertyID] = struct{}{}
		out = append(out, p)
	}
	return out
}
