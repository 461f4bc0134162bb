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

type CommentRepo struct {
	comments *mongo.Collection
	sequence *SequenceRepo
	breaker  *gobreaker.CircuitBreaker
}

func NewCommentRepo(db *mongo.Database, sequence *SequenceRepo, breaker *gobreaker.CircuitBreaker) *CommentRepo {
	return &CommentRepo{
		comments: db.Collection("task_comments"),
		sequence: sequence,
		breaker:  breaker,
	}
}

func (r *CommentRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment index: %v", err)
	}
	return nil
}

func (r *CommentRepo) Create(ctx context.Context, comment *models.TaskComment) (*models.TaskComment, error) {
	id, err := r.sequence.Next(ctx, "task_comments")
	if err != nil {
		return nil, err
	}
	comment.ID = id
	comment.CreatedAt = time.Now().UTC()

	_, err = r.breaker.Execute(func() (interface{}, error) {
		return r.comments.InsertOne(ctx, comment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %v", err)
	}
	return comment, nil
}

// ListByTask returns the task's comments oldest first. An unknown task ID
// simply yields an empty list.
func (r *CommentRepo) ListByTask(ctx context.Context, taskID int64) ([]models.TaskComment, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cursor, err := r.comments.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve comments: %v", err)
	}
	defer cursor.Close(ctx)

	comments := []models.TaskComment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %v", err)
	}
	return comments, nil
}

// CountsByTask aggregates comment totals for the given tasks in one round
// trip, so task listings never issue a count query per row.
func (r *CommentRepo) CountsByTask(ctx context.Context, taskIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"task_id": bson.M{"$in": taskIDs}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$task_id",
			"total": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate comment counts: %v", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TaskID int64 `bson:"_id"`
		Total  int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode comment counts: %v", err)
	}
	for _, row := range rows {
		counts[row.TaskID] = row.Total
	}
	return counts, nil
}
