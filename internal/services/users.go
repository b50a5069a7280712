package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type NewUser struct {
	Email      string      `json:"email" validate:"required,email"`
	FirstName  string      `json:"firstName" validate:"notblank"`
	LastName   string      `json:"lastName" validate:"notblank"`
	Role       domain.Role `json:"role" validate:"role"`
	Bio        string      `json:"bio"`
	Avatar     string      `json:"avatar"`
	Skills     []string    `json:"skills" validate:"dive,notblank"`
	DateJoined time.Time   `json:"dateJoined"`
}

// UpdateUserProfile changes only the non-nil fields.
type UpdateUserProfile struct {
	FirstName *string  `json:"firstName" validate:"omitnil,notblank"`
	LastName  *string  `json:"lastName" validate:"omitnil,notblank"`
	Bio       *string  `json:"bio"`
	Avatar    *string  `json:"avatar"`
	Skills    []string `json:"skills" validate:"omitnil,dive,notblank"`
}

type UserService interface {
	CreateUser(ctx context.Context, in NewUser) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, f domain.UserFilter) ([]*domain.User, error)
	UpdateUserProfile(ctx context.Context, userID string, in UpdateUserProfile) (int64, error)
	SoftDeleteUser(ctx context.Context, userID string) (int64, error)
}

type userService struct {
	log   *logger.Logger
	users repos.UserRepo
	ids   *IDAllocator
	v     *Validator
	now   func() time.Time
}

func NewUserService(baseLog *logger.Logger, users repos.UserRepo, ids *IDAllocator, v *Validator, now func() time.Time) UserService {
	return &userService{
		log:   baseLog.With("service", "UserService"),
		users: users,
		ids:   ids,
		v:     v,
		now:   now,
	}
}

func (s *userService) CreateUser(ctx context.Context, in NewUser) (u *domain.User, err error) {
	ctx, sc := begin(ctx, s.log, "CreateUser", "role", in.Role)
	defer func() { err = sc.done(err, "user_id", userID(u)) }()

	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err = s.v.Struct("CreateUser", in); err != nil {
		return nil, err
	}
	id, err := s.ids.Next(ctx, domain.PrefixForRole(in.Role))
	if err != nil {
		return nil, err
	}
	joined := in.DateJoined
	if joined.IsZero() {
		joined = s.now()
	}
	skills := in.Skills
	if skills == nil {
		skills = []string{}
	}
	created := &domain.User{
		UserID:     id,
		Email:      in.Email,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Role:       in.Role,
		DateJoined: joined,
		Profile:    domain.UserProfile{Bio: in.Bio, Avatar: in.Avatar, Skills: skills},
		IsActive:   true,
	}
	if err = s.users.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func userID(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.UserID
}

func (s *userService) GetUser(ctx context.Context, id string) (u *domain.User, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetUser", "user_id", id)
	defer func() { err = sc.done(err) }()
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (u *domain.User, err error) {
	ctx, sc := beginRead(ctx, s.log, "GetUserByEmail", "email", email)
	defer func() { err = sc.done(err) }()
	return s.users.GetByEmail(ctx, email)
}

func (s *userService) ListUsers(ctx context.Context, f domain.UserFilter) (out []*domain.User, err error) {
	ctx, sc := beginRead(ctx, s.log, "ListUsers", "role", f.Role)
	defer func() { err = sc.done(err, "count", len(out)) }()
	return s.users.List(ctx, f)
}

func (s *userService) UpdateUserProfile(ctx context.Context, id string, in UpdateUserProfile) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "UpdateUserProfile", "user_id", id)
	defer func() { err = sc.done(err, "affected", n) }()

	if err = s.v.Struct("UpdateUserProfile", in); err != nil {
		return 0, err
	}
	changes := domain.UserChanges{
		FirstName: trimmed(in.FirstName),
		LastName:  trimmed(in.LastName),
		Bio:       in.Bio,
		Avatar:    in.Avatar,
		Skills:    in.Skills,
	}
	return s.users.Update(ctx, id, changes)
}

// SoftDeleteUser only clears isActive; enrollments and submissions stay.
func (s *userService) SoftDeleteUser(ctx context.Context, id string) (n int64, err error) {
	ctx, sc := begin(ctx, s.log, "SoftDeleteUser", "user_id", id)
	defer func() { err = sc.done(err, "affected", n) }()

	inactive := false
	return s.users.Update(ctx, id, domain.UserChanges{IsActive: &inactive})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
