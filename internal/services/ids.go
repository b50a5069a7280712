package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

// IDAllocator formats IDs from the counter authority. Sequences are never
// derived from existing records except when Sync floors the counters.
type IDAllocator struct {
	counters    repos.CounterRepo
	collections repos.CollectionManager
	log         *logger.Logger
}

func NewIDAllocator(counters repos.CounterRepo, collections repos.CollectionManager, baseLog *logger.Logger) *IDAllocator {
	return &IDAllocator{
		counters:    counters,
		collections: collections,
		log:         baseLog.With("service", "IDAllocator"),
	}
}

func (a *IDAllocator) Next(ctx context.Context, prefix domain.IDPrefix) (string, error) {
	if a == nil || a.counters == nil {
		return "", fmt.Errorf("id allocator not configured")
	}
	seq, err := a.counters.Next(ctx, prefix)
	if err != nil {
		return "", err
	}
	return domain.FormatID(prefix, seq), nil
}

// Sync raises every prefix counter to the highest sequence already stored,
// so IDs allocated afterwards never collide with existing records.
func (a *IDAllocator) Sync(ctx context.Context) error {
	prefixes := make([]domain.IDPrefix, 0, len(domain.AllPrefixes))
	for p := range domain.AllPrefixes {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return prefixes[i] < prefixes[j] })

	idsByCollection := map[string][]string{}
	for _, p := range prefixes {
		collection := domain.AllPrefixes[p]
		ids, ok := idsByCollection[collection]
		if !ok {
			var err error
			ids, err = a.collections.IDs(ctx, collection)
			if err != nil {
				return fmt.Errorf("read %s ids: %w", collection, err)
			}
			idsByCollection[collection] = ids
		}
		max := domain.MaxSequence(p, ids)
		if max == 0 {
			continue
		}
		if err := a.counters.Floor(ctx, p, max); err != nil {
			return fmt.Errorf("floor %s counter: %w", p, err)
		}
		a.log.Info("counter synchronised", "prefix", p, "floor", max)
	}
	return nil
}
