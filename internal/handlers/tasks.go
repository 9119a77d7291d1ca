package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MitsuruMe/momomoving-fe/internal/metrics"
	"github.com/MitsuruMe/momomoving-fe/internal/middleware"
	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

type taskView struct {
	models.Task
	DueDateJP    string `json:"due_date_jp"`
	Overdue      bool   `json:"overdue"`
	DeadlineSoon bool   `json:"deadline_soon"`
}

func (h HandlerSet) taskView(t models.Task) taskView {
	now := h.now()
	return taskView{
		Task:         t,
		DueDateJP:    metrics.FormatDateJP(t.DueDate),
		Overdue:      metrics.IsOverdue(t, now),
		DeadlineSoon: metrics.IsDeadlineSoon(t, now),
	}
}

func (h HandlerSet) taskViews(tasks []models.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, h.taskView(t))
	}
	return out
}

type taskListQuery struct {
	Status *models.TaskStatus `form:"status" binding:"omitempty,oneof=pending in_progress completed"`
}

func (h HandlerSet) ListTasks(c *gin.Context) {
	var q taskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	tasks, err := h.api.Tasks(c.Request.Context(), middleware.SessionToken(c))
	if err != nil {
		h.remoteError(c, err, "タスクの取得に失敗しました")
		return
	}

	rate := metrics.CompletionRate(tasks)
	if q.Status != nil {
		tasks = metrics.ByStatus(tasks, *q.Status)
	}

	c.JSON(http.StatusOK, gin.H{
		"completion_rate": rate,
		"tasks":           h.taskViews(tasks),
	})
}

func (h HandlerSet) GetTask(c *gin.Context) {
	task, err := h.api.Task(c.Request.Context(), middleware.SessionToken(c), c.Param("id"))
	if err != nil {
		h.remoteError(c, err, "タスクの取得に失敗しました")
		return
	}
	c.JSON(http.StatusOK, h.taskView(task))
}

type taskUpdateView struct {
	Task           taskView        `json:"task"`
	CompletionRate int             `json:"completion_rate"`
	NewBadges      []metrics.Badge `json:"new_badges"`
}

// UpdateTask applies the change remotely and reports the badges it earned.
func (h HandlerSet) UpdateTask(c *gin.Context) {
	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ctx := c.Request.Context()
	token := middleware.SessionToken(c)
	id := c.Param("id")

	before, err := h.api.Tasks(ctx, token)
	if err != nil {
		h.remoteError(c, err, "タスクの取得に失敗しました")
		return
	}

	updated, err := h.api.UpdateTask(ctx, token, id, req)
	if err != nil {
		h.remoteError(c, err, "タスクの更新に失敗しました")
		return
	}

	if prev, ok := metrics.Find(before, id); ok && prev.Status != updated.Status {
		h.log.Debug().
			Str("task_id", id).
			Str("from", string(prev.Status)).
			Str("to", string(updated.Status)).
			Msg("task status changed")
	}

	after := metrics.Replace(before, updated)
	earnedBefore, _ := metrics.Partition(metrics.Badges, before)
	earnedAfter, _ := metrics.Partition(metrics.Badges, after)

	c.JSON(http.StatusOK, taskUpdateView{
		Task:           h.taskView(updated),
		CompletionRate: metrics.CompletionRate(after),
		NewBadges:      newlyEarned(earnedBefore, earnedAfter),
	})
}

func newlyEarned(before, after []metrics.Badge) []metrics.Badge {
	had := make(map[string]struct{}, len(before))
	for _, b := range before {
		had[b.ID] = struct{}{}
	}
	out := make([]metrics.Badge, 0)
	for _, b := range after {
		if _, ok := had[b.ID]; !ok {
			out = append(out, b)
		}
	}
	return out
}
