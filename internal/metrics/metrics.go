package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

const isoDate = "2006-01-02"

func CountCompleted(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			n++
		}
	}
	return n
}

// CompletionRate is the rounded percentage of completed tasks, 0 for an
// empty list.
func CompletionRate(tasks []models.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CountCompleted(tasks)) / float64(len(tasks))))
}

// ParseDate reads an ISO calendar date. A trailing time part is ignored.
func ParseDate(value string) (time.Time, error) {
	if len(value) > len(isoDate) {
		value = value[:len(isoDate)]
	}
	d, err := time.Parse(isoDate, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return d, nil
}

// DaysUntilMove counts whole calendar days from today to moveDate, never
// below zero.
func DaysUntilMove(moveDate string, now time.Time) (int, error) {
	move, err := ParseDate(moveDate)
	if err != nil {
		return 0, err
	}
	days := dayDiff(now, move)
	if days < 0 {
		return 0, nil
	}
	return days, nil
}

// dayDiff is the signed calendar-day distance from now's local date to d.
func dayDiff(now time.Time, d time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}
