package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func tasksWith(completed, total int) []models.Task {
	tasks := make([]models.Task, total)
	for i := range tasks {
		tasks[i] = models.Task{UserTaskID: string(rune('a' + i)), Status: models.TaskStatusPending}
		if i < completed {
			tasks[i].Status = models.TaskStatusCompleted
		}
	}
	return tasks
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompletionRate(tasksWith(tt.completed, tt.total)), "%d/%d", tt.completed, tt.total)
	}
}

func TestCompletionRateBounds(t *testing.T) {
	for total := 1; total <= 20; total++ {
		for done := 0; done <= total; done++ {
			rate := CompletionRate(tasksWith(done, total))
			assert.GreaterOrEqual(t, rate, 0)
			assert.LessOrEqual(t, rate, 100)
		}
	}
}

func TestDaysUntilMove(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	now := time.Date(2026, 3, 1, 23, 59, 0, 0, jst)

	tests := []struct {
		move string
		want int
	}{
		{"2026-03-01", 0},
		{"2026-03-02", 1},
		{"2026-03-31", 30},
		{"2026-04-01T10:00:00", 31},
		{"2025-12-31", 0},
		{"1999-01-01", 0},
	}
	for _, tt := range tests {
		got, err := DaysUntilMove(tt.move, now)
		require.NoError(t, err, tt.move)
		assert.Equal(t, tt.want, got, tt.move)
	}

	_, err := DaysUntilMove("soon", now)
	assert.Error(t, err)
}

func TestDaysUntilMoveIgnoresTimeOfDay(t *testing.T) {
	early := time.Date(2026, 3, 1, 0, 1, 0, 0, time.UTC)
	late := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)

	a, _ := DaysUntilMove("2026-03-10", early)
	b, _ := DaysUntilMove("2026-03-10", late)
	assert.Equal(t, 9, a)
	assert.Equal(t, a, b)
}

func TestBadgesAreLive(t *testing.T) {
	tasks := tasksWith(3, 3)
	earned, unearned := Partition(Badges, tasks)
	assert.Equal(t, []string{"first_task", "half_way", "complete"}, badgeIDs(earned))
	assert.Equal(t, []string{"task_warrior"}, badgeIDs(unearned))

	tasks[0].Status = models.TaskStatusPending
	earned, _ = Partition(Badges, tasks)
	assert.NotContains(t, badgeIDs(earned), "complete")
}

func TestEligible(t *testing.T) {
	assert.False(t, Eligible(Condition{Kind: FirstTaskCompleted}, nil, 0))
	assert.True(t, Eligible(Condition{Kind: FirstTaskCompleted}, tasksWith(1, 10), 10))
	assert.True(t, Eligible(Condition{Kind: CountCompletedAtLeast, Threshold: 5}, tasksWith(5, 10), 50))
	assert.False(t, Eligible(Condition{Kind: CountCompletedAtLeast, Threshold: 5}, tasksWith(4, 4), 100))
	assert.True(t, Eligible(Condition{Kind: CompletionRateAtLeast, Threshold: 100}, nil, 100))
	assert.False(t, Eligible(Condition{Kind: ConditionKind(99)}, tasksWith(1, 1), 100))
}

func TestEmptyTaskListEarnsNothing(t *testing.T) {
	earned, unearned := Partition(Badges, nil)
	assert.Empty(t, earned)
	assert.Len(t, unearned, len(Badges))
}

func badgeIDs(badges []Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, b.ID)
	}
	return ids
}
