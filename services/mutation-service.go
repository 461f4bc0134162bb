package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"project-tracker/graph-service/logging"
	"project-tracker/graph-service/models"
)

// MutationService answers the write operations. Mutations never fail at the
// request level: every error ends up in the payload's error list with
// success=false.
type MutationService struct {
	lookup   *LookupService
	orgs     OrganizationStore
	projects ProjectStore
	tasks    TaskStore
	comments CommentStore
}

func NewMutationService(lookup *LookupService, orgs OrganizationStore, projects ProjectStore, tasks TaskStore, comments CommentStore) *MutationService {
	return &MutationService{
		lookup:   lookup,
		orgs:     orgs,
		projects: projects,
		tasks:    tasks,
		comments: comments,
	}
}

type CreateOrganizationInput struct {
	Name         string
	Slug         string
	ContactEmail string
}

type CreateProjectInput struct {
	OrganizationSlug string
	Name             string
	Description      *string
	Status           *models.ProjectStatus
	DueDate          *time.Time
}

type CreateTaskInput struct {
	ProjectID     int64
	Title         string
	Description   *string
	Status        *models.TaskStatus
	AssigneeEmail *string
	DueDate       *time.Time
}

type CreateTaskCommentInput struct {
	TaskID      int64
	Content     string
	AuthorEmail string
}

func (s *MutationService) CreateOrganization(ctx context.Context, rc models.RequestContext, input CreateOrganizationInput) models.OrganizationPayload {
	org := &models.Organization{
		Name:         input.Name,
		Slug:         input.Slug,
		ContactEmail: input.ContactEmail,
	}

	created, err := s.orgs.Create(ctx, org)
	if err != nil {
		logging.Logger.Warnf("Event ID: CREATE_ORGANIZATION_FAILED, Description: Failed to create organization with slug '%s': %v", input.Slug, err)
		return models.OrganizationPayload{Errors: []string{err.Error()}}
	}

	logging.Logger.Infof("Event ID: ORGANIZATION_CREATED, Description: Organization %d created with slug '%s'", created.ID, created.Slug)
	return models.OrganizationPayload{Organization: created, Success: true, Errors: []string{}}
}

func (s *MutationService) CreateProject(ctx context.Context, rc models.RequestContext, input CreateProjectInput) models.ProjectPayload {
	org, err := s.lookup.OrganizationBySlug(ctx, input.OrganizationSlug)
	if err != nil {
		return models.ProjectPayload{Errors: []string{err.Error()}}
	}

	project := &models.Project{
		OrganizationID: org.ID,
		Name:           input.Name,
		Status:         models.ProjectStatusActive,
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.ProjectPayload{Errors: []string{invalidStatus("project", string(*input.Status))}}
		}
		project.Status = *input.Status
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		logging.Logger.Warnf("Event ID: CREATE_PROJECT_FAILED, Description: Failed to create project under organization '%s': %v", input.OrganizationSlug, err)
		return models.ProjectPayload{Errors: []string{err.Error()}}
	}
	created.AttachTaskCounts(models.TaskCounts{})

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %d created under organization %d", created.ID, org.ID)
	return models.ProjectPayload{Project: created, Success: true, Errors: []string{}}
}

func (s *MutationService) UpdateProject(ctx context.Context, rc models.RequestContext, projectID int64, fields models.ProjectUpdate) models.ProjectPayload {
	if fields.Status != nil && !fields.Status.Valid() {
		return models.ProjectPayload{Errors: []string{invalidStatus("project", string(*fields.Status))}}
	}

	if _, err := s.lookup.ProjectByID(ctx, projectID); err != nil {
		return models.ProjectPayload{Errors: []string{err.Error()}}
	}

	updated, err := s.projects.Update(ctx, projectID, fields)
	if err != nil {
		logging.Logger.Warnf("Event ID: UPDATE_PROJECT_FAILED, Description: Failed to update project %d: %v", projectID, err)
		return models.ProjectPayload{Errors: []string{err.Error()}}
	}
	if updated == nil {
		nf := &models.NotFoundError{Kind: "Project", Field: "ID", Value: strconv.FormatInt(projectID, 10)}
		return models.ProjectPayload{Errors: []string{nf.Error()}}
	}

	counts, err := s.tasks.CountsByProject(ctx, []int64{updated.ID})
	if err != nil {
		return models.ProjectPayload{Errors: []string{err.Error()}}
	}
	updated.AttachTaskCounts(counts[updated.ID])

	return models.ProjectPayload{Project: updated, Success: true, Errors: []string{}}
}

func (s *MutationService) CreateTask(ctx context.Context, rc models.RequestContext, input CreateTaskInput) models.TaskPayload {
	if _, err := s.lookup.ProjectByID(ctx, input.ProjectID); err != nil {
		return models.TaskPayload{Errors: []string{err.Error()}}
	}

	task := &models.Task{
		ProjectID: input.ProjectID,
		Title:     input.Title,
		Status:    models.TaskStatusTodo,
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return models.TaskPayload{Errors: []string{invalidStatus("task", string(*input.Status))}}
		}
		task.Status = *input.Status
	}
	if input.AssigneeEmail != nil {
		task.AssigneeEmail = *input.AssigneeEmail
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		logging.Logger.Warnf("Event ID: CREATE_TASK_FAILED, Description: Failed to create task under project %d: %v", input.ProjectID, err)
		return models.TaskPayload{Errors: []string{err.Error()}}
	}
	created.AttachDerived(0, time.Now())

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %d created under project %d", created.ID, input.ProjectID)
	return models.TaskPayload{Task: created, Success: true, Errors: []string{}}
}

func (s *MutationService) UpdateTask(ctx context.Context, rc models.RequestContext, taskID int64, fields models.TaskUpdate) models.TaskPayload {
	if fields.Status != nil && !fields.Status.Valid() {
		return models.TaskPayload{Errors: []string{invalidStatus("task", string(*fields.Status))}}
	}

	if _, err := s.lookup.TaskByID(ctx, taskID); err != nil {
		return models.TaskPayload{Errors: []string{err.Error()}}
	}

	updated, err := s.tasks.Update(ctx, taskID, fields)
	if err != nil {
		logging.Logger.Warnf("Event ID: UPDATE_TASK_FAILED, Description: Failed to update task %d: %v", taskID, err)
		return models.TaskPayload{Errors: []string{err.Error()}}
	}
	if updated == nil {
		nf := &models.NotFoundError{Kind: "Task", Field: "ID", Value: strconv.FormatInt(taskID, 10)}
		return models.TaskPayload{Errors: []string{nf.Error()}}
	}

	counts, err := s.comments.CountsByTask(ctx, []int64{updated.ID})
	if err != nil {
		return models.TaskPayload{Errors: []string{err.Error()}}
	}
	updated.AttachDerived(counts[updated.ID], time.Now())

	return models.TaskPayload{Task: updated, Success: true, Errors: []string{}}
}

func (s *MutationService) CreateTaskComment(ctx context.Context, rc models.RequestContext, input CreateTaskCommentInput) models.TaskCommentPayload {
	if _, err := s.lookup.TaskByID(ctx, input.TaskID); err != nil {
		return models.TaskCommentPayload{Errors: []string{err.Error()}}
	}

	var errs []string
	if strings.TrimSpace(input.Content) == "" {
		errs = append(errs, "comment content must not be empty")
	}
	if strings.TrimSpace(input.AuthorEmail) == "" {
		errs = append(errs, "comment author email must not be empty")
	}
	if len(errs) > 0 {
		return models.TaskCommentPayload{Errors: errs}
	}

	comment := &models.TaskComment{
		TaskID:      input.TaskID,
		Content:     input.Content,
		AuthorEmail: input.AuthorEmail,
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		logging.Logger.Warnf("Event ID: CREATE_COMMENT_FAILED, Description: Failed to create comment under task %d: %v", input.TaskID, err)
		return models.TaskCommentPayload{Errors: []string{err.Error()}}
	}

	return models.TaskCommentPayload{Comment: created, Success: true, Errors: []string{}}
}

func invalidStatus(kind, value string) string {
	return "invalid " + kind + " status '" + value + "'"
}
