package momoapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func (c *Client) Suggestion(ctx context.Context, token string, suggestionContext models.SuggestionContext) (models.AISuggestion, error) {
	var out models.AISuggestion
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/ai/suggestions",
		query:  url.Values{"context": {string(suggestionContext)}},
		token:  token,
	}, &out)
	return out, err
}

func (c *Client) BulkWasteInfo(ctx context.Context, token string) (models.BulkWasteInfo, error) {
	var out models.BulkWasteInfo
	err := c.do(ctx, request{method: http.MethodGet, path: "/ai/bulk_waste_collection_date", token: token}, &out)
	return out, err
}
