package sqlrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type counterRow struct {
	Prefix string `gorm:"column:prefix;primaryKey"`
	Seq    int64  `gorm:"column:seq;not null"`
}

func (counterRow) TableName() string { return domain.CollectionCounters }

type counterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCounterRepo(db *gorm.DB, baseLog *logger.Logger) repos.CounterRepo {
	repoLog := baseLog.With("repo", "CounterRepo")
	return &counterRepo{db: db, log: repoLog}
}

// Next upserts the counter row and reads the incremented value back inside
// one transaction, so concurrent callers never observe the same sequence.
func (r *counterRepo) Next(ctx context.Context, prefix domain.IDPrefix) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prefix"}},
			DoUpdates: clause.Assignments(map[string]any{"seq": gorm.Expr(`"counters"."seq" + 1`)}),
		}).Create(&counterRow{Prefix: string(prefix), Seq: 1}).Error; err != nil {
			return err
		}
		var row counterRow
		if err := tx.Where("prefix = ?", string(prefix)).Take(&row).Error; err != nil {
			return err
		}
		seq = row.Seq
		return nil
	})
	if err != nil {
		return 0, mapError("next sequence", err)
	}
	return seq, nil
}

func (r *counterRepo) Floor(ctx context.Context, prefix domain.IDPrefix, min int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row counterRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("prefix = ?", string(prefix)).Take(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&counterRow{Prefix: string(prefix), Seq: min}).Error
		}
		if err != nil {
			return err
		}
		if row.Seq >= min {
			return nil
		}
		return tx.Model(&counterRow{}).Where("prefix = ?", string(prefix)).Update("seq", min).Error
	})
	if err != nil {
		return mapError("floor sequence", err)
	}
	r.log.Debug("sequence floored", "prefix", prefix, "min", min)
	return nil
}
