package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type counterDoc struct {
	Prefix string `bson:"_id"`
	Seq    int64  `bson:"seq"`
}

type counterRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewCounterRepo(db *mongo.Database, baseLog *logger.Logger) repos.CounterRepo {
	repoLog := baseLog.With("repo", "CounterRepo")
	return &counterRepo{coll: db.Collection(domain.CollectionCounters), log: repoLog}
}

// Next increments the per-prefix document with a single atomic upsert.
func (r *counterRepo) Next(ctx context.Context, prefix domain.IDPrefix) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var doc counterDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": string(prefix)},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, mapError("next sequence", err)
	}
	return doc.Seq, nil
}

func (r *counterRepo) Floor(ctx context.Context, prefix domain.IDPrefix, min int64) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": string(prefix)},
		bson.M{"$max": bson.M{"seq": min}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return mapError("floor sequence", err)
	}
	r.log.Debug("sequence floored", "prefix", prefix, "min", min)
	return nil
}
