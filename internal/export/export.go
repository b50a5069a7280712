package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

// File is the on-disk export layout.
type File struct {
	ExportID    string                      `json:"exportId"`
	ExportedAt  string                      `json:"exportedAt"`
	Collections map[string][]map[string]any `json:"collections"`
}

// hexer matches document identifiers such as primitive.ObjectID without
// tying this package to a driver.
type hexer interface {
	Hex() string
}

// Export dumps every collection to path as one JSON document and returns
// what was written.
func Export(ctx context.Context, collections repos.CollectionManager, path string, log *logger.Logger) (*File, error) {
	out := &File{
		ExportID:    uuid.NewString(),
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Collections: make(map[string][]map[string]any, len(domain.Collections)),
	}
	dumped := make([][]map[string]any, len(domain.Collections))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range domain.Collections {
		g.Go(func() error {
			docs, err := collections.Dump(gctx, name)
			if err != nil {
				return fmt.Errorf("dump %s: %w", name, err)
			}
			plain := make([]map[string]any, 0, len(docs))
			for _, d := range docs {
				plain = append(plain, convertMap(d))
			}
			dumped[i] = plain
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, name := range domain.Collections {
		out.Collections[name] = dumped[i]
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	if log != nil {
		counts := make([]any, 0, 2*len(out.Collections))
		for _, name := range domain.Collections {
			counts = append(counts, name, len(out.Collections[name]))
		}
		log.Info("data exported", append([]any{"path", path, "export_id", out.ExportID}, counts...)...)
	}
	return out, nil
}

func convertMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convert(v)
	}
	return out
}

func convert(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339Nano)
	case hexer:
		return t.Hex()
	case map[string]any:
		return convertMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = convert(item)
		}
		return out
	default:
		return v
	}
}

// ReadExport parses a file written by Export.
func ReadExport(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return &f, nil
}
