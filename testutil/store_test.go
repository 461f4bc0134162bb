package testutil_test

import (
	"context"
	"testing"

	"project-tracker/graph-service/models"
	"project-tracker/graph-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cover the store contract the resolvers rely on: monotonically
// increasing per-kind IDs, slug uniqueness, and cascading deletes down the
// ownership chain.

func TestStore_SequencesAreMonotonicPerKind(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()

	first, err := store.CreateOrganization(ctx, &models.Organization{Name: "A", Slug: "a"})
	require.NoError(t, err)
	second, err := store.CreateOrganization(ctx, &models.Organization{Name: "B", Slug: "b"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// Each kind counts independently.
	project, err := store.CreateProject(ctx, &models.Project{OrganizationID: first.ID, Name: "P", Status: models.ProjectStatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), project.ID)
}

func TestStore_SlugUniqueness(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()

	_, err := store.CreateOrganization(ctx, &models.Organization{Name: "A", Slug: "acme"})
	require.NoError(t, err)

	_, err = store.CreateOrganization(ctx, &models.Organization{Name: "B", Slug: "acme"})
	require.Error(t, err)
	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestStore_DeleteOrganizationCascades(t *testing.T) {
	store := testutil.NewStore()
	ctx := context.Background()

	org, err := store.CreateOrganization(ctx, &models.Organization{Name: "A", Slug: "acme"})
	require.NoError(t, err)
	project, err := store.CreateProject(ctx, &models.Project{OrganizationID: org.ID, Name: "P", Status: models.ProjectStatusActive})
	require.NoError(t, err)
	task, err := store.CreateTask(ctx, &models.Task{ProjectID: project.ID, Title: "T", Status: models.TaskStatusTodo})
	require.NoError(t, err)
	_, err = store.CreateComment(ctx, &models.TaskComment{TaskID: task.ID, Content: "c", AuthorEmail: "a@b.test"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteOrganization(ctx, org.ID))

	gotOrg, err := store.GetOrganizationBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Nil(t, gotOrg)

	gotProject, err := store.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, gotProject)

	gotTask, err := store.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTask)

	comments, err := store.ListCommentsByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
