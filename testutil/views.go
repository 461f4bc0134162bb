package testutil

import (
	"context"

	"project-tracker/graph-service/models"
	"project-tracker/graph-service/services"
)

// The views below adapt the shared Store to the per-kind store interfaces the
// resolvers consume.

var (
	_ services.OrganizationStore = OrgView{}
	_ services.ProjectStore      = ProjectView{}
	_ services.TaskStore         = TaskView{}
	_ services.CommentStore      = CommentView{}
)

type OrgView struct{ s *Store }

func (s *Store) Orgs() OrgView { return OrgView{s} }

func (v OrgView) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	return v.s.CreateOrganization(ctx, org)
}

func (v OrgView) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return v.s.GetOrganizationBySlug(ctx, slug)
}

func (v OrgView) List(ctx context.Context) ([]models.Organization, error) {
	return v.s.ListOrganizations(ctx)
}

type ProjectView struct{ s *Store }

func (s *Store) Projects() ProjectView { return ProjectView{s} }

func (v ProjectView) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	return v.s.CreateProject(ctx, project)
}

func (v ProjectView) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	return v.s.GetProjectByID(ctx, id)
}

func (v ProjectView) ListByOrganization(ctx context.Context, organizationID int64, status *models.ProjectStatus) ([]models.Project, error) {
	return v.s.ListProjectsByOrganization(ctx, organizationID, status)
}

func (v ProjectView) Update(ctx context.Context, id int64, fields models.ProjectUpdate) (*models.Project, error) {
	return v.s.UpdateProject(ctx, id, fields)
}

type TaskView struct{ s *Store }

func (s *Store) Tasks() TaskView { return TaskView{s} }

func (v TaskView) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	return v.s.CreateTask(ctx, task)
}

func (v TaskView) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return v.s.GetTaskByID(ctx, id)
}

func (v TaskView) ListByProject(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.Task, error) {
	return v.s.ListTasksByProject(ctx, projectID, status)
}

func (v TaskView) Update(ctx context.Context, id int64, fields models.TaskUpdate) (*models.Task, error) {
	return v.s.UpdateTask(ctx, id, fields)
}

func (v TaskView) CountsByProject(ctx context.Context, projectIDs []int64) (map[int64]models.TaskCounts, error) {
	return v.s.CountsByProject(ctx, projectIDs)
}

type CommentView struct{ s *Store }

func (s *Store) Comments() CommentView { return CommentView{s} }

func (v CommentView) Create(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error) {
	return v.s.CreateComment(ctx, comment)
}

func (v CommentView) ListByTask(ctx context.Context, taskID int64) ([]models.TaskComment, error) {
	return v.s.ListCommentsByTask(ctx, taskID)
}

func (v CommentView) CountsByTask(ctx context.Context, taskIDs []int64) (map[int64]int64, error) {
	return v.s.CountsByTask(ctx, taskIDs)
}
