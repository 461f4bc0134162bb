package services_test

import (
	"context"
	"testing"
	"time"

	"project-tracker/graph-service/models"
	"project-tracker/graph-service/services"
	"project-tracker/graph-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolvers(store *testutil.Store) (*services.QueryService, *services.MutationService) {
	lookup := services.NewLookupService(store.Orgs(), store.Projects(), store.Tasks())
	queries := services.NewQueryService(lookup, store.Orgs(), store.Projects(), store.Tasks(), store.Comments())
	mutations := services.NewMutationService(lookup, store.Orgs(), store.Projects(), store.Tasks(), store.Comments())
	return queries, mutations
}

func seedOrganization(t *testing.T, store *testutil.Store, name, slug string) *models.Organization {
	t.Helper()
	org, err := store.CreateOrganization(context.Background(), &models.Organization{
		Name:         name,
		Slug:         slug,
		ContactEmail: "contact@" + slug + ".test",
	})
	require.NoError(t, err)
	return org
}

func seedProject(t *testing.T, store *testutil.Store, orgID int64, name string, status models.ProjectStatus) *models.Project {
	t.Helper()
	project, err := store.CreateProject(context.Background(), &models.Project{
		OrganizationID: orgID,
		Name:           name,
		Status:         status,
	})
	require.NoError(t, err)
	return project
}

func seedTask(t *testing.T, store *testutil.Store, projectID int64, title string, status models.TaskStatus) *models.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), &models.Task{
		ProjectID: projectID,
		Title:     title,
		Status:    status,
	})
	require.NoError(t, err)
	return task
}

func TestListOrganizations_OrderedByName(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	seedOrganization(t, store, "Zenith", "zenith")
	seedOrganization(t, store, "Acme", "acme")
	seedOrganization(t, store, "Mids", "mids")

	orgs, err := queries.ListOrganizations(context.Background(), models.RequestContext{})

	require.NoError(t, err)
	require.Len(t, orgs, 3)
	assert.Equal(t, "Acme", orgs[0].Name)
	assert.Equal(t, "Mids", orgs[1].Name)
	assert.Equal(t, "Zenith", orgs[2].Name)
}

func TestGetOrganization_SoftMiss(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	org, err := queries.GetOrganization(context.Background(), models.RequestContext{}, "ghost")

	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestGetOrganization_Found(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	seedOrganization(t, store, "Acme", "acme")

	org, err := queries.GetOrganization(context.Background(), models.RequestContext{}, "acme")

	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "Acme", org.Name)
}

func TestListProjects_ScopedToOrganization(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	orgA := seedOrganization(t, store, "Org A", "org-a")
	orgB := seedOrganization(t, store, "Org B", "org-b")
	seedProject(t, store, orgA.ID, "A1", models.ProjectStatusActive)
	seedProject(t, store, orgB.ID, "B1", models.ProjectStatusActive)
	seedProject(t, store, orgA.ID, "A2", models.ProjectStatusOnHold)

	projects, err := queries.ListProjects(context.Background(), models.RequestContext{}, "org-a", nil)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	for _, p := range projects {
		assert.Equal(t, orgA.ID, p.OrganizationID)
	}
	// Newest first.
	assert.Equal(t, "A2", projects[0].Name)
	assert.Equal(t, "A1", projects[1].Name)
}

func TestListProjects_StatusFilter(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	seedProject(t, store, org.ID, "Active", models.ProjectStatusActive)
	seedProject(t, store, org.ID, "Parked", models.ProjectStatusOnHold)

	status := models.ProjectStatusOnHold
	projects, err := queries.ListProjects(context.Background(), models.RequestContext{}, "acme", &status)

	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Parked", projects[0].Name)
}

func TestListProjects_EmptyOrganizationIsNotAnError(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	seedOrganization(t, store, "Empty", "empty-org")

	projects, err := queries.ListProjects(context.Background(), models.RequestContext{}, "empty-org", nil)

	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestListProjects_MissingOrganizationIsAFault(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	_, err := queries.ListProjects(context.Background(), models.RequestContext{}, "nonexistent", nil)

	require.Error(t, err)
	assert.Equal(t, "Organization with slug 'nonexistent' not found", err.Error())
}

func TestGetProject_HardMiss(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	_, err := queries.GetProject(context.Background(), models.RequestContext{}, 99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
	assert.Equal(t, "Project with ID '99' not found", err.Error())
}

func TestGetProject_DerivedCounts(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	project := seedProject(t, store, org.ID, "Launch", models.ProjectStatusActive)
	seedTask(t, store, project.ID, "one", models.TaskStatusDone)
	seedTask(t, store, project.ID, "two", models.TaskStatusTodo)

	got, err := queries.GetProject(context.Background(), models.RequestContext{}, project.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TaskCount)
	assert.Equal(t, int64(1), got.CompletedTasks)
	assert.Equal(t, 50.0, got.CompletionRate)
}

func TestListProjects_CountsLoadedInOneBatch(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	for i := 0; i < 5; i++ {
		p := seedProject(t, store, org.ID, "P", models.ProjectStatusActive)
		seedTask(t, store, p.ID, "t", models.TaskStatusDone)
	}

	projects, err := queries.ListProjects(context.Background(), models.RequestContext{}, "acme", nil)

	require.NoError(t, err)
	require.Len(t, projects, 5)
	assert.Equal(t, 1, store.CountsByProjectCalls)
	for _, p := range projects {
		assert.Equal(t, int64(1), p.TaskCount)
	}
}

func TestListTasks_MissingProjectIsAFault(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	_, err := queries.ListTasks(context.Background(), models.RequestContext{}, 7, nil)

	require.Error(t, err)
	assert.Equal(t, "Project with ID '7' not found", err.Error())
}

func TestListTasks_StatusFilterAndBatchedComments(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	project := seedProject(t, store, org.ID, "Launch", models.ProjectStatusActive)
	done := seedTask(t, store, project.ID, "done", models.TaskStatusDone)
	seedTask(t, store, project.ID, "todo", models.TaskStatusTodo)
	_, err := store.CreateComment(context.Background(), &models.TaskComment{
		TaskID:      done.ID,
		Content:     "ship it",
		AuthorEmail: "r@acme.test",
	})
	require.NoError(t, err)

	status := models.TaskStatusDone
	tasks, err := queries.ListTasks(context.Background(), models.RequestContext{}, project.ID, &status)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Title)
	assert.Equal(t, int64(1), tasks[0].CommentCount)
	assert.Equal(t, 1, store.CountsByTaskCalls)
}

func TestGetTask_SoftMiss(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	task, err := queries.GetTask(context.Background(), models.RequestContext{}, 123)

	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestGetTask_OverdueEvaluatedAtReadTime(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	project := seedProject(t, store, org.ID, "Launch", models.ProjectStatusActive)

	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	task, err := store.CreateTask(context.Background(), &models.Task{
		ProjectID: project.ID,
		Title:     "late",
		Status:    models.TaskStatusInProgress,
		DueDate:   &due,
	})
	require.NoError(t, err)

	queries.Now = func() time.Time { return due.Add(24 * time.Hour) }
	got, err := queries.GetTask(context.Background(), models.RequestContext{}, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOverdue)

	queries.Now = func() time.Time { return due.Add(-24 * time.Hour) }
	got, err = queries.GetTask(context.Background(), models.RequestContext{}, task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOverdue)

	// Done tasks are never overdue, even past the due date.
	status := models.TaskStatusDone
	_, err = store.UpdateTask(context.Background(), task.ID, models.TaskUpdate{Status: &status})
	require.NoError(t, err)
	queries.Now = func() time.Time { return due.Add(24 * time.Hour) }
	got, err = queries.GetTask(context.Background(), models.RequestContext{}, task.ID)
	require.NoError(t, err)
	assert.False(t, got.IsOverdue)
}

func TestListTaskComments_UnknownTaskYieldsEmptyList(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)

	comments, err := queries.ListTaskComments(context.Background(), models.RequestContext{}, 404)

	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestListTaskComments_OldestFirst(t *testing.T) {
	store := testutil.NewStore()
	queries, _ := newResolvers(store)
	org := seedOrganization(t, store, "Acme", "acme")
	project := seedProject(t, store, org.ID, "Launch", models.ProjectStatusActive)
	task := seedTask(t, store, project.ID, "discuss", models.TaskStatusTodo)

	for _, content := range []string{"first", "second", "third"} {
		_, err := store.CreateComment(context.Background(), &models.TaskComment{
			TaskID:      task.ID,
			Content:     content,
			AuthorEmail: "r@acme.test",
		})
		require.NoError(t, err)
	}

	comments, err := queries.ListTaskComments(context.Background(), models.RequestContext{}, task.ID)

	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "third", comments[2].Content)
}
