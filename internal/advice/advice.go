package advice

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

const (
	maxMessageRunes = 50
	ellipsis        = "..."
)

// Source is the remote AI endpoint family.
type Source interface {
	Suggestion(ctx context.Context, token string, suggestionContext models.SuggestionContext) (models.AISuggestion, error)
	BulkWasteInfo(ctx context.Context, token string) (models.BulkWasteInfo, error)
}

// Tip is what the home and task screens show. Err keeps the cause when a
// canned message was substituted.
type Tip struct {
	Context  models.SuggestionContext `json:"context"`
	Title    string                   `json:"title,omitempty"`
	Message  string                   `json:"message"`
	Fallback bool                     `json:"fallback"`
	Err      error                    `json:"-"`
}

type Service struct {
	source  Source
	timeout time.Duration
	log     zerolog.Logger
}

func NewService(source Source, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{source: source, timeout: timeout, log: log}
}

// Suggestion fetches a tip within the configured timeout. It always yields
// something to show.
func (s *Service) Suggestion(ctx context.Context, token string, suggestionContext models.SuggestionContext, daysUntilMove int) Tip {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	type result struct {
		suggestion models.AISuggestion
		err        error
	}
	done := make(chan result, 1)
	go func() {
		sug, err := s.source.Suggestion(ctx, token, suggestionContext)
		done <- result{suggestion: sug, err: err}
	}()

	var err error
	select {
	case r := <-done:
		if r.err == nil && r.suggestion.Message != "" {
			return Tip{
				Context: suggestionContext,
				Title:   r.suggestion.Title,
				Message: Truncate(r.suggestion.Message),
			}
		}
		err = r.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	msg := FallbackMessage(suggestionContext, daysUntilMove)
	s.log.Debug().Err(err).Str("context", string(suggestionContext)).Msg("using canned suggestion")
	return Tip{Context: suggestionContext, Message: msg, Fallback: true, Err: err}
}

func (s *Service) BulkWaste(ctx context.Context, token string) (models.BulkWasteInfo, error) {
	return s.source.BulkWasteInfo(ctx, token)
}

// Truncate shortens messages longer than 50 characters to 47 plus an
// ellipsis.
func Truncate(msg string) string {
	if utf8.RuneCountInString(msg) <= maxMessageRunes {
		return msg
	}
	runes := []rune(msg)
	return string(runes[:maxMessageRunes-utf8.RuneCountInString(ellipsis)]) + ellipsis
}

// FallbackMessage picks the canned tip for a context and the days left.
func FallbackMessage(suggestionContext models.SuggestionContext, daysUntilMove int) string {
	if suggestionContext == models.SuggestionInternetContract {
		return "インターネット契約の準備を進めましょう！"
	}

	switch {
	case daysUntilMove <= 3:
		return "いよいよ引越し間近！最後の仕上げを頑張ろう！"
	case daysUntilMove <= 7:
		return "あと1週間！荷造りなど最終準備を進めよう！"
	case daysUntilMove <= 14:
		return "あと2週間！本格的な準備を始めよう！"
	case daysUntilMove <= 30:
		return "もう少しで新生活だね！頑張ろう！"
	}
	return "まだ時間はあるけど、計画的に準備を進めよう！"
}
