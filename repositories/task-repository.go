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

type TaskRepo struct {
	tasks    *mongo.Collection
	comments *mongo.Collection
	sequence *SequenceRepo
	breaker  *gobreaker.CircuitBreaker
}

func NewTaskRepo(db *mongo.Database, sequence *SequenceRepo, breaker *gobreaker.CircuitBreaker) *TaskRepo {
	return &TaskRepo{
		tasks:    db.Collection("tasks"),
		comments: db.Collection("task_comments"),
		sequence: sequence,
		breaker:  breaker,
	}
}

func (r *TaskRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "assignee_email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create task indexes: %v", err)
	}
	return nil
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	id, err := r.sequence.Next(ctx, "tasks")
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	task.ID = id
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.tasks.InsertOne(ctx, task)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}
	return task, nil
}

// GetByID returns the task with the given ID, or nil without an error when no
// such task exists.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task: %v", err)
	}
	return &task, nil
}

// ListByProject returns the project's tasks newest first, optionally narrowed
// to one status.
func (r *TaskRepo) ListByProject(ctx context.Context, projectID int64, status *models.TaskStatus) ([]models.Task, error) {
	filter := bson.M{"project_id": projectID}
	if status != nil {
		filter["status"] = *status
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %v", err)
	}
	return tasks, nil
}

// Update applies the non-nil fields and bumps updated_at, returning the
// document as stored afterwards. Returns nil without an error when the task
// no longer exists.
func (r *TaskRepo) Update(ctx context.Context, id int64, fields models.TaskUpdate) (*models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}
	if fields.AssigneeEmail != nil {
		set["assignee_email"] = *fields.AssigneeEmail
	}
	if fields.DueDate != nil {
		set["due_date"] = *fields.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	result, err := r.breaker.Execute(func() (interface{}, error) {
		var task models.Task
		err := r.tasks.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&task)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &task, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	if result == nil {
		return nil, nil
	}
	return result.(*models.Task), nil
}

// CountsByProject aggregates task totals for the given projects in one round
// trip, so project listings never issue a count query per row.
func (r *TaskRepo) CountsByProject(ctx context.Context, projectIDs []int64) (map[int64]models.TaskCounts, error) {
	counts := make(map[int64]models.TaskCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"project_id": bson.M{"$in": projectIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$project_id",
			"total": bson.M{"$sum": 1},
			"done": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.TaskStatusDone}}, 1, 0},
			}},
		}}},
	}

	cursor, err := r.tasks.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task counts: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ProjectID int64 `bson:"_id"`
		Total     int64 `bson:"total"`
		Done      int64 `bson:"done"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode task counts: %v", err)
	}
	for _, row := range rows {
		counts[row.ProjectID] = models.TaskCounts{Total: row.Total, Done: row.Done}
	}
	return counts, nil
}

// Delete removes the task and its comments. Completes the store contract; no
// exposed mutation calls it yet.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		if _, err := r.comments.DeleteMany(ctx, bson.M{"task_id": id}); err != nil {
			return nil, err
		}
		return r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	return nil
}
