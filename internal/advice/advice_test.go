package advice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
	"github.com/MitsuruMe/momomoving-fe/internal/momoapi"
)

type fakeSource struct {
	suggestion func(ctx context.Context) (models.AISuggestion, error)
}

func (f fakeSource) Suggestion(ctx context.Context, _ string, _ models.SuggestionContext) (models.AISuggestion, error) {
	return f.suggestion(ctx)
}

func (f fakeSource) BulkWasteInfo(context.Context, string) (models.BulkWasteInfo, error) {
	return models.BulkWasteInfo{PostalCode: "150-0001", Info: "毎週水曜日"}, nil
}

func TestSuggestionPassesThrough(t *testing.T) {
	svc := NewService(fakeSource{suggestion: func(context.Context) (models.AISuggestion, error) {
		return models.AISuggestion{Title: "tip", Message: "荷造りを始めよう"}, nil
	}}, time.Second, zerolog.Nop())

	tip := svc.Suggestion(context.Background(), "tok", models.SuggestionGeneral, 20)
	assert.False(t, tip.Fallback)
	assert.Equal(t, "荷造りを始めよう", tip.Message)
	assert.NoError(t, tip.Err)
}

func TestSuggestionTimeoutFallsBack(t *testing.T) {
	svc := NewService(fakeSource{suggestion: func(ctx context.Context) (models.AISuggestion, error) {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return models.AISuggestion{Message: "too late"}, nil
	}}, 20*time.Millisecond, zerolog.Nop())

	tip := svc.Suggestion(context.Background(), "tok", models.SuggestionMovingPreparation, 5)
	assert.True(t, tip.Fallback)
	assert.Equal(t, "あと1週間！荷造りなど最終準備を進めよう！", tip.Message)
	assert.ErrorIs(t, tip.Err, context.DeadlineExceeded)
}

func TestSuggestionErrorKeepsCause(t *testing.T) {
	svc := NewService(fakeSource{suggestion: func(context.Context) (models.AISuggestion, error) {
		return models.AISuggestion{}, &momoapi.APIError{Status: 401}
	}}, time.Second, zerolog.Nop())

	tip := svc.Suggestion(context.Background(), "tok", models.SuggestionInternetContract, 100)
	assert.True(t, tip.Fallback)
	assert.Equal(t, "インターネット契約の準備を進めましょう！", tip.Message)
	assert.True(t, errors.Is(tip.Err, momoapi.ErrUnauthorized))
}

func TestEmptyMessageFallsBack(t *testing.T) {
	svc := NewService(fakeSource{suggestion: func(context.Context) (models.AISuggestion, error) {
		return models.AISuggestion{}, nil
	}}, time.Second, zerolog.Nop())

	tip := svc.Suggestion(context.Background(), "tok", models.SuggestionGeneral, 45)
	assert.True(t, tip.Fallback)
	assert.Equal(t, "まだ時間はあるけど、計画的に準備を進めよう！", tip.Message)
}

func TestTruncate(t *testing.T) {
	short := strings.Repeat("あ", 50)
	assert.Equal(t, short, Truncate(short))

	long := strings.Repeat("あ", 51)
	got := Truncate(long)
	assert.Equal(t, 50, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("あ", 47)+"...", got)
}

func TestFallbackMessageBands(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "いよいよ引越し間近！最後の仕上げを頑張ろう！"},
		{3, "いよいよ引越し間近！最後の仕上げを頑張ろう！"},
		{4, "あと1週間！荷造りなど最終準備を進めよう！"},
		{14, "あと2週間！本格的な準備を始めよう！"},
		{30, "もう少しで新生活だね！頑張ろう！"},
		{31, "まだ時間はあるけど、計画的に準備を進めよう！"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackMessage(models.SuggestionGeneral, tt.days), "days=%d", tt.days)
	}
}

func TestBulkWaste(t *testing.T) {
	svc := NewService(fakeSource{}, time.Second, zerolog.Nop())
	info, err := svc.BulkWaste(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "150-0001", info.PostalCode)
}
