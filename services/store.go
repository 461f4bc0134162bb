package services

import (
	"context"

	"project-tracker/graph-service/models"
)

// The resolvers reach the entity store only through these interfaces. The
// mongo repositories implement them in production; tests substitute an
// in-memory store. A lookup miss is (nil, nil), never an error: the caller
// decides whether absence is a fault.

type OrganizationStore interface {
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	List(ctx context.Context) ([]models.Organization, error)
}

type ProjectStore interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	ListByOrganization(ctx context.Context, organizationID int64, status *models.ProjectStatus) ([]models.Project, error)
	Update(ctx context.Context, id int64, fields models.ProjectUpdate) (*models.Project, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByProject(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.Task, error)
	Update(ctx context.Context, id int64, fields models.TaskUpdate) (*models.Task, error)
	CountsByProject(ctx context.Context, projectIDs []int64) (map[int64]models.TaskCounts, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.TaskComment, error)
	CountsByTask(ctx context.Context, taskIDs []int64) (map[int64]int64, error)
}
