package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Valid reports whether the status is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID            int64      `json:"id" bson:"_id"`
	ProjectID     int64      `json:"projectId" bson:"project_id"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description" bson:"description"`
	Status        TaskStatus `json:"status" bson:"status"`
	AssigneeEmail string     `json:"assigneeEmail" bson:"assignee_email"`
	DueDate       *time.Time `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updated_at"`

	// Derived at read time, never stored.
	IsOverdue    bool  `json:"isOverdue" bson:"-"`
	CommentCount int64 `json:"commentCount" bson:"-"`
}

// Overdue reports whether the task has a due date strictly in the past and is
// not yet done. Tasks without a due date are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != TaskStatusDone
}

// AttachDerived fills the read-time fields from the batched comment counts
// and the evaluation instant.
func (t *Task) AttachDerived(commentCount int64, now time.Time) {
	t.CommentCount = commentCount
	t.IsOverdue = t.Overdue(now)
}

// TaskUpdate holds the optional fields of an update mutation. A nil field
// means "leave the stored value untouched".
type TaskUpdate struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Status        *TaskStatus `json:"status"`
	AssigneeEmail *string     `json:"assigneeEmail"`
	DueDate       *time.Time  `json:"dueDate"`
}
