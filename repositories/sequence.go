package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SequenceRepo hands out the numeric entity IDs. Each entity kind owns one
// counter document in the counters collection; the increment and read happen
// in a single FindOneAndUpdate so IDs are unique under concurrent creates.
type SequenceRepo struct {
	counters *mongo.Collection
}

func NewSequenceRepo(db *mongo.Database) *SequenceRepo {
	return &SequenceRepo{counters: db.Collection("counters")}
}

// Next returns the next ID for the named entity kind, starting at 1.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	filter := bson.M{"_id": name}
	update := bson.M{"$inc": bson.M{"value": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc struct {
		Value int64 `bson:"value"`
	}
	if err := r.counters.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %v", name, err)
	}
	return doc.Value, nil
}
