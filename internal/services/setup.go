package services

import (
	"context"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type SetupService interface {
	// Run creates collections and indexes, then floors the ID counters.
	Run(ctx context.Context) error
}

type setupService struct {
	log         *logger.Logger
	collections repos.CollectionManager
	ids         *IDAllocator
}

func NewSetupService(baseLog *logger.Logger, collections repos.CollectionManager, ids *IDAllocator) SetupService {
	return &setupService{
		log:         baseLog.With("service", "SetupService"),
		collections: collections,
		ids:         ids,
	}
}

func (s *setupService) Run(ctx context.Context) (err error) {
	ctx, sc := begin(ctx, s.log, "Setup")
	defer func() { err = sc.done(err) }()

	if err = s.collections.EnsureCollections(ctx); err != nil {
		return err
	}
	if err = s.collections.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.ids.Sync(ctx)
}
