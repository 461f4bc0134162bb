package services

import (
	"context"
	"strconv"

	"project-tracker/graph-service/models"
)

// LookupService resolves human-facing identifiers to live entities. A miss is
// always a NotFoundError; callers that want soft (nil-on-miss) behavior go to
// the store directly.
type LookupService struct {
	organizations OrganizationStore
	projects      ProjectStore
	tasks         TaskStore
}

func NewLookupService(organizations OrganizationStore, projects ProjectStore, tasks TaskStore) *LookupService {
	return &LookupService{
		organizations: organizations,
		projects:      projects,
		tasks:         tasks,
	}
}

func (s *LookupService) OrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	org, err := s.organizations.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, &models.NotFoundError{Kind: "Organization", Field: "slug", Value: slug}
	}
	return org, nil
}

func (s *LookupService) ProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &models.NotFoundError{Kind: "Project", Field: "ID", Value: strconv.FormatInt(id, 10)}
	}
	return project, nil
}

func (s *LookupService) TaskByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.NotFoundError{Kind: "Task", Field: "ID", Value: strconv.FormatInt(id, 10)}
	}
	return task, nil
}
