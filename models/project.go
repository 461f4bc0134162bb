package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
)

// Valid reports whether the status is one of the known project statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Project struct {
	ID             int64         `json:"id" bson:"_id"`
	OrganizationID int64         `json:"organizationId" bson:"organization_id"`
	Name           string        `json:"name" bson:"name"`
	Description    string        `json:"description" bson:"description"`
	Status         ProjectStatus `json:"status" bson:"status"`
	DueDate        *time.Time    `json:"dueDate,omitempty" bson:"due_date,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" bson:"updated_at"`

	// Derived at read time from the tasks owned by this project, never stored.
	TaskCount      int64   `json:"taskCount" bson:"-"`
	CompletedTasks int64   `json:"completedTasks" bson:"-"`
	CompletionRate float64 `json:"completionRate" bson:"-"`
}

// TaskCounts carries the per-project task totals loaded in one batched query.
type TaskCounts struct {
	Total int64
	Done  int64
}

// AttachTaskCounts fills the derived task fields. A project with no tasks
// reports a completion rate of 0.
func (p *Project) AttachTaskCounts(counts TaskCounts) {
	p.TaskCount = counts.Total
	p.CompletedTasks = counts.Done
	if counts.Total == 0 {
		p.CompletionRate = 0
		return
	}
	p.CompletionRate = float64(counts.Done) / float64(counts.Total) * 100
}

// ProjectUpdate holds the optional fields of an update mutation. A nil field
// means "leave the stored value untouched".
type ProjectUpdate struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Status      *ProjectStatus `json:"status"`
	DueDate     *time.Time     `json:"dueDate"`
}
