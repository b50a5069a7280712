package sqlrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/data/schema"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) repos.UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	u.Normalize()
	if err := schema.Validate(domain.CollectionUsers, schema.DocumentOf(u)); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return mapError("insert users", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return first[domain.User](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return first[domain.User](r.db.WithContext(ctx).Where("email = ?", email))
}

func (r *userRepo) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.JoinedSince != nil {
		q = q.Where("date_joined >= ?", domain.Millis(*f.JoinedSince))
	}
	var results []*domain.User
	if err := q.Order("user_id").Find(&results).Error; err != nil {
		return nil, mapError("list users", err)
	}
	return results, nil
}

func (r *userRepo) Update(ctx context.Context, userID string, c domain.UserChanges) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).Take(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		applyUserChanges(&u, c)
		u.Normalize()
		if err := schema.Validate(domain.CollectionUsers, schema.DocumentOf(&u)); err != nil {
			return err
		}
		if err := tx.Save(&u).Error; err != nil {
			return err
		}
		affected = 1
		return nil
	})
	if err != nil {
		return 0, mapError("update users", err)
	}
	return affected, nil
}

func applyUserChanges(u *domain.User, c domain.UserChanges) {
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Bio != nil {
		u.Profile.Bio = *c.Bio
	}
	if c.Avatar != nil {
		u.Profile.Avatar = *c.Avatar
	}
	if c.Skills != nil {
		u.Profile.Skills = append([]string{}, c.Skills...)
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
}

// first returns the single row matched by q, or nil when there is none.
func first[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
