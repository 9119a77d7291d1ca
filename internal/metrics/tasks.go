package metrics

import (
	"fmt"
	"time"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

const deadlineSoonDays = 3

func ByStatus(tasks []models.Task, status models.TaskStatus) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

func Find(tasks []models.Task, userTaskID string) (models.Task, bool) {
	for _, t := range tasks {
		if t.UserTaskID == userTaskID {
			return t, true
		}
	}
	return models.Task{}, false
}

// Replace returns a copy of tasks with the entry of the same id swapped for
// updated. Unknown ids leave the list unchanged.
func Replace(tasks []models.Task, updated models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].UserTaskID == updated.UserTaskID {
			out[i] = updated
			break
		}
	}
	return out
}

// IsOverdue reports a due date before today. Completed tasks are never
// overdue.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Status == models.TaskStatusCompleted {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	return dayDiff(now, due) < 0
}

// IsDeadlineSoon reports a due date between today and three days out.
func IsDeadlineSoon(t models.Task, now time.Time) bool {
	if t.Status == models.TaskStatusCompleted {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	days := dayDiff(now, due)
	return days >= 0 && days <= deadlineSoonDays
}

// FormatDateJP renders an ISO date as 2026年4月1日. Unparsable input is
// returned as is.
func FormatDateJP(value string) string {
	d, err := ParseDate(value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d年%d月%d日", d.Year(), int(d.Month()), d.Day())
}
