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

type ProjectRepo struct {
	projects *mongo.Collection
	tasks    *mongo.Collection
	comments *mongo.Collection
	sequence *SequenceRepo
	breaker  *gobreaker.CircuitBreaker
}

func NewProjectRepo(db *mongo.Database, sequence *SequenceRepo, breaker *gobreaker.CircuitBreaker) *ProjectRepo {
	return &ProjectRepo{
		projects: db.Collection("projects"),
		tasks:    db.Collection("tasks"),
		comments: db.Collection("task_comments"),
		sequence: sequence,
		breaker:  breaker,
	}
}

func (r *ProjectRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.projects.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create project indexes: %v", err)
	}
	return nil
}

func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	id, err := r.sequence.Next(ctx, "projects")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.projects.InsertOne(ctx, project)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %v", err)
	}
	return project, nil
}

// GetByID returns the project with the given ID, or nil without an error when
// no such project exists.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	err := r.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %v", err)
	}
	return &project, nil
}

// ListByOrganization returns the organization's projects newest first,
// optionally narrowed to one status.
func (r *ProjectRepo) ListByOrganization(ctx context.Context, organizationID int64, status *models.ProjectStatus) ([]models.Project, error) {
	filter := bson.M{"organization_id": organizationID}
	if status != nil {
		filter["status"] = *status
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.projects.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %v", err)
	}
	return projects, nil
}

// Update applies the non-nil fields and bumps updated_at, returning the
// document as stored afterwards. Returns nil without an error when the
// project no longer exists.
func (r *ProjectRepo) Update(ctx context.Context, id int64, fields models.ProjectUpdate) (*models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}
	if fields.DueDate != nil {
		set["due_date"] = *fields.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result, err := r.breaker.Execute(func() (interface{}, error) {
		var project models.Project
		err := r.projects.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&project)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &project, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*models.Project), nil
}

// Delete removes the project and cascades over its tasks and their comments.
// Completes the store contract; no exposed mutation calls it yet.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	taskCursor, err := r.tasks.Find(ctx, bson.M{"project_id": id})
	if err != nil {
		return fmt.Errorf("failed to list tasks for cascade: %v", err)
	}
	var tasks []models.Task
	if err := taskCursor.All(ctx, &tasks); err != nil {
		return fmt.Errorf("failed to decode tasks for cascade: %v", err)
	}
	taskIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	_, err = r.breaker.Execute(func() (interface{}, error) {
		if len(taskIDs) > 0 {
			if _, err := r.comments.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": taskIDs}}); err != nil {
				return nil, err
			}
			if _, err := r.tasks.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
				return nil, err
			}
		}
		return r.projects.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	return nil
}
