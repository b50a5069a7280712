package sqlrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type collectionManager struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionManager(db *gorm.DB, baseLog *logger.Logger) repos.CollectionManager {
	return &collectionManager{db: db, log: baseLog.With("repo", "CollectionManager")}
}

func modelFor(collection string) any {
	switch collection {
	case domain.CollectionUsers:
		return &domain.User{}
	case domain.CollectionCourses:
		return &domain.Course{}
	case domain.CollectionLessons:
		return &domain.Lesson{}
	case domain.CollectionAssignments:
		return &domain.Assignment{}
	case domain.CollectionEnrollments:
		return &domain.Enrollment{}
	case domain.CollectionSubmissions:
		return &domain.Submission{}
	case domain.CollectionCounters:
		return &counterRow{}
	}
	return nil
}

// EnsureCollections creates one table per collection plus the counters
// table. Existing tables are reported and migrated in place; a failing
// table is logged and skipped.
func (m *collectionManager) EnsureCollections(ctx context.Context) error {
	names := append(append([]string{}, domain.Collections...), domain.CollectionCounters)
	for _, name := range names {
		model := modelFor(name)
		db := m.db.WithContext(ctx)
		existed := db.Migrator().HasTable(model)
		if err := db.AutoMigrate(model); err != nil {
			m.log.Warn("collection create failed", "collection", name, "error", err)
			continue
		}
		if existed {
			m.log.Info("collection already exists", "collection", name)
		} else {
			m.log.Info("collection created with validation", "collection", name)
		}
	}
	return nil
}

func (m *collectionManager) EnsureIndexes(ctx context.Context) error {
	for _, d := range schema.All() {
		for _, ix := range d.Indexes {
			stmt, ok := m.indexDDL(d.Collection, ix)
			if !ok {
				m.log.Info("index skipped on this dialect", "collection", d.Collection, "index", ix.Name)
				continue
			}
			if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
				if isIndexConflict(err) {
					m.log.Info("index already present", "collection", d.Collection, "index", ix.Name)
					continue
				}
				return fmt.Errorf("create index %s on %s: %w", ix.Name, d.Collection, err)
			}
		}
		m.log.Info("indexes ensured", "collection", d.Collection)
	}
	return nil
}

func (m *collectionManager) indexDDL(table string, ix schema.Index) (string, bool) {
	if ix.Text {
		if !isPostgres(m.db) {
			return "", false
		}
		return fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING GIN (%s)`,
			quote(ix.Name), quote(table), tsvectorExpr(m.column, ix.Keys)), true
	}
	cols := make([]string, 0, len(ix.Keys))
	for _, k := range ix.Keys {
		col := quote(m.column(k.Field))
		if k.Desc {
			col += " DESC"
		}
		cols = append(cols, col)
	}
	unique := ""
	if ix.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)`,
		unique, quote(ix.Name), quote(table), strings.Join(cols, ", ")), true
}

func tsvectorExpr(column func(string) string, keys []schema.IndexKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("coalesce(%s, '')", quote(column(k.Field))))
	}
	return fmt.Sprintf("to_tsvector('english', %s)", strings.Join(parts, " || ' ' || "))
}

func isIndexConflict(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists")
}

func (m *collectionManager) column(field string) string {
	return m.db.NamingStrategy.ColumnName("", field)
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// InsertDocument validates doc against the collection descriptor and
// writes it without typed defaults. Arrays and objects are stored as JSON.
func (m *collectionManager) InsertDocument(ctx context.Context, collection string, doc map[string]any) error {
	op := "insert " + collection
	if _, ok := schema.Lookup(collection); !ok {
		return domain.NewError(domain.CodeInternal, op, "unknown collection", nil)
	}
	if err := schema.Validate(collection, doc); err != nil {
		m.log.Warn("document rejected by validator", "collection", collection, "error", err)
		return err
	}
	row := make(map[string]any, len(doc))
	for k, v := range doc {
		val, err := columnValue(v, isPostgres(m.db))
		if err != nil {
			return domain.Wrap(domain.CodeInternal, op, err)
		}
		row[m.column(k)] = val
	}
	if err := m.db.WithContext(ctx).Table(collection).Create(row).Error; err != nil {
		return mapError(op, err)
	}
	return nil
}

// columnValue encodes nested values as JSON. Array columns are jsonb on
// postgres; objects live in text columns.
func columnValue(v any, pg bool) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, ok := v.(time.Time); ok {
		return v, nil
	}
	kind := reflect.ValueOf(v).Kind()
	switch kind {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if pg && (kind == reflect.Slice || kind == reflect.Array) {
			return gorm.Expr("CAST(? AS JSONB)", string(raw)), nil
		}
		return string(raw), nil
	}
	return v, nil
}

func (m *collectionManager) IDs(ctx context.Context, collection string) ([]string, error) {
	d, ok := schema.Lookup(collection)
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	var ids []string
	if err := m.db.WithContext(ctx).Table(collection).Pluck(m.column(d.IDField), &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Dump reads the collection through its typed model so the result carries
// the same field names and value types as the document store.
func (m *collectionManager) Dump(ctx context.Context, collection string) ([]map[string]any, error) {
	db := m.db.WithContext(ctx)
	switch collection {
	case domain.CollectionUsers:
		return dumpAs[domain.User](db, "user_id")
	case domain.CollectionCourses:
		return dumpAs[domain.Course](db, "course_id")
	case domain.CollectionLessons:
		return dumpAs[domain.Lesson](db, "lesson_id")
	case domain.CollectionAssignments:
		return dumpAs[domain.Assignment](db, "assignment_id")
	case domain.CollectionEnrollments:
		return dumpAs[domain.Enrollment](db, "enrollment_id")
	case domain.CollectionSubmissions:
		return dumpAs[domain.Submission](db, "submission_id")
	}
	return nil, fmt.Errorf("unknown collection %q", collection)
}

func dumpAs[T any](db *gorm.DB, orderBy string) ([]map[string]any, error) {
	var rows []T
	if err := db.Order(orderBy).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(rows))
	for i := range rows {
		out = append(out, schema.DocumentOf(&rows[i]))
	}
	return out, nil
}
