package momoapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func (c *Client) Tasks(ctx context.Context, token string) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, request{method: http.MethodGet, path: "/tasks", token: token}, &tasks)
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, err
}

func (c *Client) Task(ctx context.Context, token string, userTaskID string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/tasks/" + url.PathEscape(userTaskID),
		token:  token,
	}, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, token string, userTaskID string, in models.UpdateTaskRequest) (models.Task, error) {
	req, err := c.jsonRequest(http.MethodPut, "/tasks/"+url.PathEscape(userTaskID), token, in)
	if err != nil {
		return models.Task{}, err
	}

	var task models.Task
	err = c.do(ctx, req, &task)
	return task, err
}
