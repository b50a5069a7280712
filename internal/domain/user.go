package domain

import "time"

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

func (r Role) Valid() bool { return r == RoleStudent || r == RoleInstructor }

type UserProfile struct {
	Bio    string   `json:"bio" bson:"bio"`
	Avatar string   `json:"avatar" bson:"avatar"`
	Skills []string `json:"skills" bson:"skills"`
}

type User struct {
	UserID     string      `gorm:"column:user_id;primaryKey" json:"userId" bson:"userId"`
	Email      string      `gorm:"column:email;not null" json:"email" bson:"email"`
	FirstName  string      `gorm:"column:first_name;not null" json:"firstName" bson:"firstName"`
	LastName   string      `gorm:"column:last_name;not null" json:"lastName" bson:"lastName"`
	Role       Role        `gorm:"column:role;not null" json:"role" bson:"role"`
	DateJoined time.Time   `gorm:"column:date_joined" json:"dateJoined" bson:"dateJoined"`
	Profile    UserProfile `gorm:"column:profile;serializer:json" json:"profile" bson:"profile"`
	IsActive   bool        `gorm:"column:is_active" json:"isActive" bson:"isActive"`
}

func (User) TableName() string { return CollectionUsers }

// Normalize replaces nil slices so stored documents always carry arrays.
func (u *User) Normalize() {
	if u.Profile.Skills == nil {
		u.Profile.Skills = []string{}
	}
	u.DateJoined = Millis(u.DateJoined)
}

// UserChanges is a partial update; nil fields are left untouched.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
	Skills    []string
	IsActive  *bool
}

type UserFilter struct {
	Role        Role
	Active      *bool
	JoinedSince *time.Time
}
