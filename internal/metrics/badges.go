package metrics

import "github.com/MitsuruMe/momomoving-fe/internal/models"

type ConditionKind int

const (
	FirstTaskCompleted ConditionKind = iota
	CompletionRateAtLeast
	CountCompletedAtLeast
)

func (k ConditionKind) String() string {
	switch k {
	case FirstTaskCompleted:
		return "first_task_completed"
	case CompletionRateAtLeast:
		return "completion_rate_at_least"
	case CountCompletedAtLeast:
		return "count_completed_at_least"
	}
	return "unknown"
}

func (k ConditionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Threshold int           `json:"threshold,omitempty"`
}

type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Condition   Condition `json:"condition"`
}

var Badges = []Badge{
	{
		ID:          "first_task",
		Title:       "最初の一歩を踏み込めたで賞",
		Description: "はじめてのタスクを完了した",
		Icon:        "/images/badge-mascot.png",
		Condition:   Condition{Kind: FirstTaskCompleted},
	},
	{
		ID:          "task_warrior",
		Title:       "タスクウォーリアー",
		Description: "タスクを5つ完了した",
		Icon:        "/images/tech-mascot.png",
		Condition:   Condition{Kind: CountCompletedAtLeast, Threshold: 5},
	},
	{
		ID:          "half_way",
		Title:       "折り返し地点",
		Description: "タスクの半分を完了した",
		Icon:        "/images/badge-mascot.png",
		Condition:   Condition{Kind: CompletionRateAtLeast, Threshold: 50},
	},
	{
		ID:          "complete",
		Title:       "引越し準備完了",
		Description: "すべてのタスクを完了した",
		Icon:        "/images/badge-mascot.png",
		Condition:   Condition{Kind: CompletionRateAtLeast, Threshold: 100},
	},
}

// Eligible evaluates one condition against the current task list.
func Eligible(c Condition, tasks []models.Task, rate int) bool {
	switch c.Kind {
	case FirstTaskCompleted:
		for _, t := range tasks {
			if t.Status == models.TaskStatusCompleted {
				return true
			}
		}
		return false
	case CompletionRateAtLeast:
		return rate >= c.Threshold
	case CountCompletedAtLeast:
		return CountCompleted(tasks) >= c.Threshold
	}
	return false
}

// Partition splits catalog into earned and unearned badges for tasks. It is
// recomputed on every call.
func Partition(catalog []Badge, tasks []models.Task) (earned []Badge, unearned []Badge) {
	rate := CompletionRate(tasks)
	earned = make([]Badge, 0, len(catalog))
	unearned = make([]Badge, 0, len(catalog))
	for _, b := range catalog {
		if Eligible(b.Condition, tasks, rate) {
			earned = append(earned, b)
		} else {
			unearned = append(unearned, b)
		}
	}
	return earned, unearned
}
