package mongorepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type collectionManager struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewCollectionManager(db *mongo.Database, baseLog *logger.Logger) repos.CollectionManager {
	return &collectionManager{db: db, log: baseLog.With("repo", "CollectionManager")}
}

// EnsureCollections creates every collection with its $jsonSchema
// validator. An existing collection is left as is; any other failure is
// logged and the remaining collections are still attempted.
func (m *collectionManager) EnsureCollections(ctx context.Context) error {
	for _, d := range schema.All() {
		opts := options.CreateCollection().SetValidator(d.JSONSchema())
		err := m.db.CreateCollection(ctx, d.Collection, opts)
		switch {
		case err == nil:
			m.log.Info("collection created with validation", "collection", d.Collection)
		case hasCode(err, codeNamespaceExists):
			m.log.Info("collection already exists", "collection", d.Collection)
		default:
			m.log.Warn("collection create failed", "collection", d.Collection, "error", err)
		}
	}
	if err := m.db.CreateCollection(ctx, domain.CollectionCounters); err != nil && !hasCode(err, codeNamespaceExists) {
		m.log.Warn("collection create failed", "collection", domain.CollectionCounters, "error", err)
	}
	return nil
}

func indexModel(ix schema.Index) mongo.IndexModel {
	keys := bson.D{}
	for _, k := range ix.Keys {
		switch {
		case ix.Text:
			keys = append(keys, bson.E{Key: k.Field, Value: "text"})
		case k.Desc:
			keys = append(keys, bson.E{Key: k.Field, Value: -1})
		default:
			keys = append(keys, bson.E{Key: k.Field, Value: 1})
		}
	}
	opts := options.Index().SetName(ix.Name)
	if ix.Unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// EnsureIndexes creates the descriptor indexes. Conflicts with an existing
// equivalent index are tolerated; anything else aborts.
func (m *collectionManager) EnsureIndexes(ctx context.Context) error {
	for _, d := range schema.All() {
		coll := m.db.Collection(d.Collection)
		for _, ix := range d.Indexes {
			_, err := coll.Indexes().CreateOne(ctx, indexModel(ix))
			if err == nil {
				continue
			}
			if hasCode(err, codeIndexOptionsConflict) || hasCode(err, codeIndexKeySpecConflict) {
				m.log.Info("index already present", "collection", d.Collection, "index", ix.Name)
				continue
			}
			return fmt.Errorf("create index %s on %s: %w", ix.Name, d.Collection, err)
		}
		m.log.Info("indexes ensured", "collection", d.Collection)
	}
	return nil
}

func (m *collectionManager) InsertDocument(ctx context.Context, collection string, doc map[string]any) error {
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		mapped := mapError("insert "+collection, err)
		m.log.Warn("document rejected", "collection", collection, "error", mapped)
		return mapped
	}
	return nil
}

func (m *collectionManager) IDs(ctx context.Context, collection string) ([]string, error) {
	d, ok := schema.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	opts := options.Find().SetProjection(bson.M{d.IDField: 1, "_id": 0})
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id, ok := row[d.IDField].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Dump returns raw documents. Dates become time.Time, arrays []any and
// embedded documents map[string]any; ObjectIDs are kept as is.
func (m *collectionManager) Dump(ctx context.Context, collection string) ([]map[string]any, error) {
	d, ok := schema.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	opts := options.Find().SetSort(bson.D{{Key: d.IDField, Value: 1}})
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, plainMap(row))
	}
	return out, nil
}

func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return plainMap(t)
	case bson.D:
		return plainMap(t.Map())
	case bson.A:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, plainValue(item))
		}
		return out
	default:
		return v
	}
}
