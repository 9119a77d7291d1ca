package models

type SuggestionContext string

const (
	SuggestionInternetContract  SuggestionContext = "internet_contract"
	SuggestionMovingPreparation SuggestionContext = "moving_preparation"
	SuggestionUtilities         SuggestionContext = "utilities"
	SuggestionGeneral           SuggestionContext = "general"
)

// AISuggestion is the raw payload of GET /ai/suggestions.
type AISuggestion struct {
	SuggestionType string `json:"suggestion_type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
}

type BulkWasteInfo struct {
	PostalCode string `json:"postal_code"`
	Info       string `json:"info"`
}
