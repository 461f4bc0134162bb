package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"project-tracker/graph-service/models"
)

// Store is an in-memory entity store for tests. It honors the same contract
// as the mongo repositories: numeric IDs from per-kind sequences, unique
// organization slugs, the per-kind orderings, partial updates that bump
// updated_at, and cascading deletes. Its clock advances one second per write
// so creation order is always distinguishable.
type Store struct {
	mu       sync.Mutex
	clock    time.Time
	counters map[string]int64

	orgs     map[int64]models.Organization
	projects map[int64]models.Project
	tasks    map[int64]models.Task
	comments map[int64]models.TaskComment

	// FailWrites, when set, is returned from every create and update. It
	// simulates a store outage or an open circuit breaker.
	FailWrites error

	// CountsByProjectCalls and CountsByTaskCalls record how many batched
	// count queries a read operation issued.
	CountsByProjectCalls int
	CountsByTaskCalls    int
}

func NewStore() *Store {
	return &Store{
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		counters: map[string]int64{},
		orgs:     map[int64]models.Organization{},
		projects: map[int64]models.Project{},
		tasks:    map[int64]models.Task{},
		comments: map[int64]models.TaskComment{},
	}
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) next(kind string) int64 {
	s.counters[kind]++
	return s.counters[kind]
}

// Clock returns the store's current clock reading.
func (s *Store) Clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Organizations

func (s *Store) CreateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	for _, existing := range s.orgs {
		if existing.Slug == org.Slug {
			return nil, &models.ValidationError{Message: fmt.Sprintf("organization with slug '%s' already exists", org.Slug)}
		}
	}
	org.ID = s.next("organizations")
	org.CreatedAt = s.tick()
	s.orgs[org.ID] = *org
	return org, nil
}

func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, org := range s.orgs {
		if org.Slug == slug {
			copied := org
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orgs := []models.Organization{}
	for _, org := range s.orgs {
		orgs = append(orgs, org)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

// DeleteOrganization cascades over projects, tasks and comments.
func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for projectID, project := range s.projects {
		if project.OrganizationID == id {
			s.deleteProjectLocked(projectID)
		}
	}
	delete(s.orgs, id)
	return nil
}

// Projects

func (s *Store) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	project.ID = s.next("projects")
	now := s.tick()
	project.CreatedAt = now
	project.UpdatedAt = now
	s.projects[project.ID] = *project
	return project, nil
}

func (s *Store) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return &project, nil
}

func (s *Store) ListProjectsByOrganization(ctx context.Context, organizationID int64, status *models.ProjectStatus) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := []models.Project{}
	for _, project := range s.projects {
		if project.OrganizationID != organizationID {
			continue
		}
		if status != nil && project.Status != *status {
			continue
		}
		projects = append(projects, project)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (s *Store) UpdateProject(ctx context.Context, id int64, fields models.ProjectUpdate) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	if fields.Name != nil {
		project.Name = *fields.Name
	}
	if fields.Description != nil {
		project.Description = *fields.Description
	}
	if fields.Status != nil {
		project.Status = *fields.Status
	}
	if fields.DueDate != nil {
		due := *fields.DueDate
		project.DueDate = &due
	}
	project.UpdatedAt = s.tick()
	s.projects[id] = project
	return &project, nil
}

// DeleteProject cascades over tasks and comments.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteProjectLocked(id)
	return nil
}

func (s *Store) deleteProjectLocked(id int64) {
	for taskID, task := range s.tasks {
		if task.ProjectID == id {
			s.deleteTaskLocked(taskID)
		}
	}
	delete(s.projects, id)
}

// Tasks

func (s *Store) CreateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	task.ID = s.next("tasks")
	now := s.tick()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return task, nil
}

func (s *Store) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *Store) ListTasksByProject(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := []models.Task{}
	for _, task := range s.tasks {
		if task.ProjectID != projectID {
			continue
		}
		if status != nil && task.Status != *status {
			continue
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, fields models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	if fields.Title != nil {
		task.Title = *fields.Title
	}
	if fields.Description != nil {
		task.Description = *fields.Description
	}
	if fields.Status != nil {
		task.Status = *fields.Status
	}
	if fields.AssigneeEmail != nil {
		task.AssigneeEmail = *fields.AssigneeEmail
	}
	if fields.DueDate != nil {
		due := *fields.DueDate
		task.DueDate = &due
	}
	task.UpdatedAt = s.tick()
	s.tasks[id] = task
	return &task, nil
}

func (s *Store) CountsByProject(ctx context.Context, projectIDs []int64) (map[int64]models.TaskCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CountsByProjectCalls++
	counts := map[int64]models.TaskCounts{}
	for _, id := range projectIDs {
		for _, task := range s.tasks {
			if task.ProjectID != id {
				continue
			}
			c := counts[id]
			c.Total++
			if task.Status == models.TaskStatusDone {
				c.Done++
			}
			counts[id] = c
		}
	}
	return counts, nil
}

// DeleteTask cascades over comments.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteTaskLocked(id)
	return nil
}

func (s *Store) deleteTaskLocked(id int64) {
	for commentID, comment := range s.comments {
		if comment.TaskID == id {
			delete(s.comments, commentID)
		}
	}
	delete(s.tasks, id)
}

// Comments

func (s *Store) CreateComment(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return nil, s.FailWrites
	}
	comment.ID = s.next("task_comments")
	comment.CreatedAt = s.tick()
	s.comments[comment.ID] = *comment
	return comment, nil
}

func (s *Store) ListCommentsByTask(ctx context.Context, taskID int64) ([]models.TaskComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := []models.TaskComment{}
	for _, comment := range s.comments {
		if comment.TaskID == taskID {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })
	return comments, nil
}

func (s *Store) CountsByTask(ctx context.Context, taskIDs []int64) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CountsByTaskCalls++
	counts := map[int64]int64{}
	for _, id := range taskIDs {
		for _, comment := range s.comments {
			if comment.TaskID == id {
				counts[id]++
			}
		}
	}
	return counts, nil
}
