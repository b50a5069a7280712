package mongorepo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findOne decodes the single document matched by filter, or nil when there
// is none.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter, opts...).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func findMany[T any](ctx context.Context, coll *mongo.Collection, filter any, sortField string) ([]*T, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, &item)
	}
	return out, cur.Err()
}

// updateOne applies update to the document with the given key and reports
// how many documents matched. An empty update only checks existence.
func updateOne(ctx context.Context, coll *mongo.Collection, field, id string, update bson.M) (int64, error) {
	filter := bson.M{field: id}
	if len(update) == 0 {
		return coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	}
	res, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func deleteOne(ctx context.Context, coll *mongo.Collection, field, id string) (int64, error) {
	res, err := coll.DeleteOne(ctx, bson.M{field: id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
