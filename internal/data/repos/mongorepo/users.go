package mongorepo

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type userRepo struct {
	coll *mongo.Collection
	log  *logger.Logger
}

func NewUserRepo(db *mongo.Database, baseLog *logger.Logger) repos.UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{coll: db.Collection(domain.CollectionUsers), log: repoLog}
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	u.Normalize()
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return mapError("insert users", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.coll, bson.M{"userId": userID})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return findOne[domain.User](ctx, r.coll, bson.M{"email": email})
}

func (r *userRepo) List(ctx context.Context, f domain.UserFilter) ([]*domain.User, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if f.JoinedSince != nil {
		filter["dateJoined"] = bson.M{"$gte": domain.Millis(*f.JoinedSince)}
	}
	out, err := findMany[domain.User](ctx, r.coll, filter, "userId")
	if err != nil {
		return nil, mapError("list users", err)
	}
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, userID string, c domain.UserChanges) (int64, error) {
	set := bson.M{}
	if c.FirstName != nil {
		set["firstName"] = *c.FirstName
	}
	if c.LastName != nil {
		set["lastName"] = *c.LastName
	}
	if c.Bio != nil {
		set["profile.bio"] = *c.Bio
	}
	if c.Avatar != nil {
		set["profile.avatar"] = *c.Avatar
	}
	if c.Skills != nil {
		set["profile.skills"] = append([]string{}, c.Skills...)
	}
	if c.IsActive != nil {
		set["isActive"] = *c.IsActive
	}
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	n, err := updateOne(ctx, r.coll, "userId", userID, update)
	if err != nil {
		return 0, mapError("update users", err)
	}
	return n, nil
}
