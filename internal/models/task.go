package models

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	UserTaskID    string       `json:"user_task_id"`
	TaskID        string       `json:"task_id"`
	Category      string       `json:"category"`
	TaskName      string       `json:"task_name"`
	Description   string       `json:"description"`
	Status        TaskStatus   `json:"status"`
	DueDate       string       `json:"due_date"`
	Priority      TaskPriority `json:"priority"`
	CompletedDate *string      `json:"completed_date,omitempty"`
	CustomNotes   *string      `json:"custom_notes,omitempty"`
}

type UpdateTaskRequest struct {
	Status      *TaskStatus `json:"status,omitempty" binding:"omitempty,oneof=pending in_progress completed"`
	CustomNotes *string     `json:"custom_notes,omitempty" binding:"omitempty,max=500"`
}
