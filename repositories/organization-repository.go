package repositories

import (
	"context"
	"fmt"
	"time"

	"project-tracker/graph-service/models"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrganizationRepo persists organizations. It also holds the descendant
// collections so a delete can cascade through projects, tasks and comments.
type OrganizationRepo struct {
	organizations *mongo.Collection
	projects      *mongo.Collection
	tasks         *mongo.Collection
	comments      *mongo.Collection
	sequence      *SequenceRepo
	breaker       *gobreaker.CircuitBreaker
}

func NewOrganizationRepo(db *mongo.Database, sequence *SequenceRepo, breaker *gobreaker.CircuitBreaker) *OrganizationRepo {
	return &OrganizationRepo{
		organizations: db.Collection("organizations"),
		projects:      db.Collection("projects"),
		tasks:         db.Collection("tasks"),
		comments:      db.Collection("task_comments"),
		sequence:      sequence,
		breaker:       breaker,
	}
}

// EnsureIndexes creates the unique slug index. Startup fails without it
// because slug uniqueness is enforced at the store.
func (r *OrganizationRepo) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"slug": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := r.organizations.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique index on organization slug: %v", err)
	}
	return nil
}

// Create inserts the organization under a fresh numeric ID. A duplicate slug
// surfaces as a ValidationError.
func (r *OrganizationRepo) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	id, err := r.sequence.Next(ctx, "organizations")
	if err != nil {
		return nil, err
	}
	org.ID = id
	org.CreatedAt = time.Now().UTC()

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.organizations.InsertOne(ctx, org)
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &models.ValidationError{Message: fmt.Sprintf("organization with slug '%s' already exists", org.Slug)}
		}
		return nil, fmt.Errorf("failed to create organization: %v", err)
	}
	return org, nil
}

// GetBySlug returns the organization with the given slug, or nil without an
// error when no such organization exists.
func (r *OrganizationRepo) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	var org models.Organization
	err := r.organizations.FindOne(ctx, bson.M{"slug": slug}).Decode(&org)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization: %v", err)
	}
	return &org, nil
}

// List returns all organizations ordered by name ascending.
func (r *OrganizationRepo) List(ctx context.Context) ([]models.Organization, error) {
	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := r.organizations.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve organizations: %v", err)
	}
	defer cursor.Close(ctx)

	orgs := []models.Organization{}
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, fmt.Errorf("failed to decode organizations: %v", err)
	}
	return orgs, nil
}

// Delete removes the organization and cascades over every project, task and
// comment it owns. No exposed mutation calls this yet; it completes the store
// contract so the ownership chain never dangles.
func (r *OrganizationRepo) Delete(ctx context.Context, id int64) error {
	projectCursor, err := r.projects.Find(ctx, bson.M{"organization_id": id})
	if err != nil {
		return fmt.Errorf("failed to list projects for cascade: %v", err)
	}
	var projects []models.Project
	if err := projectCursor.All(ctx, &projects); err != nil {
		return fmt.Errorf("failed to decode projects for cascade: %v", err)
	}

	projectIDs := make([]int64, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		if len(projectIDs) > 0 {
			taskCursor, err := r.tasks.Find(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}})
			if err != nil {
				return nil, err
			}
			var tasks []models.Task
			if err := taskCursor.All(ctx, &tasks); err != nil {
				return nil, err
			}
			taskIDs := make([]int64, 0, len(tasks))
			for _, t := range tasks {
				taskIDs = append(taskIDs, t.ID)
			}
			if len(taskIDs) > 0 {
				if _, err := r.comments.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": taskIDs}}); err != nil {
					return nil, err
				}
			}
			if _, err := r.tasks.DeleteMany(ctx, bson.M{"project_id": bson.M{"$in": projectIDs}}); err != nil {
				return nil, err
			}
			if _, err := r.projects.DeleteMany(ctx, bson.M{"organization_id": id}); err != nil {
				return nil, err
			}
		}
		return r.organizations.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("failed to delete organization: %v", err)
	}
	return nil
}
