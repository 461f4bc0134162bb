package services

import (
	"context"
	"time"

	"project-tracker/graph-service/models"
)

// QueryService answers the read-only operations. Every method takes the
// request context of the caller; nothing consults it yet, but tenant scoping
// will live here once authentication carries real data.
type QueryService struct {
	lookup   *LookupService
	orgs     OrganizationStore
	projects ProjectStore
	tasks    TaskStore
	comments CommentStore

	// Now is the clock used for overdue evaluation; tests pin it.
	Now func() time.Time
}

func NewQueryService(lookup *LookupService, orgs OrganizationStore, projects ProjectStore, tasks TaskStore, comments CommentStore) *QueryService {
	return &QueryService{
		lookup:   lookup,
		orgs:     orgs,
		projects: projects,
		tasks:    tasks,
		comments: comments,
		Now:      time.Now,
	}
}

// ListOrganizations returns every organization, ordered by name.
func (s *QueryService) ListOrganizations(ctx context.Context, rc models.RequestContext) ([]models.Organization, error) {
	return s.orgs.List(ctx)
}

// GetOrganization is a soft lookup: an unknown slug yields nil, not an error.
func (s *QueryService) GetOrganization(ctx context.Context, rc models.RequestContext, slug string) (*models.Organization, error) {
	return s.orgs.GetBySlug(ctx, slug)
}

// ListProjects returns the organization's projects, optionally filtered by
// status. The organization must exist; its projects may be none.
func (s *QueryService) ListProjects(ctx context.Context, rc models.RequestContext, organizationSlug string, status *models.ProjectStatus) ([]models.Project, error) {
	org, err := s.lookup.OrganizationBySlug(ctx, organizationSlug)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByOrganization(ctx, org.ID, status)
	if err != nil {
		return nil, err
	}
	if err := s.attachProjectCounts(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject is a hard lookup: an unknown ID is a fault.
func (s *QueryService) GetProject(ctx context.Context, rc models.RequestContext, id int64) (*models.Project, error) {
	project, err := s.lookup.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}

	single := []models.Project{*project}
	if err := s.attachProjectCounts(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// ListTasks returns the project's tasks, optionally filtered by status. The
// project must exist.
func (s *QueryService) ListTasks(ctx context.Context, rc models.RequestContext, projectID int64, status *models.TaskStatus) ([]models.Task, error) {
	if _, err := s.lookup.ProjectByID(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID, status)
	if err != nil {
		return nil, err
	}
	if err := s.attachTaskDerived(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask is a soft lookup: an unknown ID yields nil, not an error.
func (s *QueryService) GetTask(ctx context.Context, rc models.RequestContext, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}

	single := []models.Task{*task}
	if err := s.attachTaskDerived(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// ListTaskComments returns the task's comments oldest first. The task is not
// validated; an unknown ID yields an empty list.
func (s *QueryService) ListTaskComments(ctx context.Context, rc models.RequestContext, taskID int64) ([]models.TaskComment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

// attachProjectCounts loads task totals for all listed projects in a single
// store round trip.
func (s *QueryService) attachProjectCounts(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	counts, err := s.tasks.CountsByProject(ctx, ids)
	if err != nil {
		return err
	}
	for i := range projects {
		projects[i].AttachTaskCounts(counts[projects[i].ID])
	}
	return nil
}

// attachTaskDerived loads comment totals for all listed tasks in a single
// store round trip and evaluates overdue against one instant.
func (s *QueryService) attachTaskDerived(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	counts, err := s.comments.CountsByTask(ctx, ids)
	if err != nil {
		return err
	}
	now := s.Now()
	for i := range tasks {
		tasks[i].AttachDerived(counts[tasks[i].ID], now)
	}
	return nil
}
