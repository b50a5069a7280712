package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func (l Level) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate || l == LevelAdvanced
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type Course struct {
	CourseID     string                      `gorm:"column:course_id;primaryKey" json:"courseId" bson:"courseId"`
	Title        string                      `gorm:"column:title;not null" json:"title" bson:"title"`
	Description  string                      `gorm:"column:description" json:"description" bson:"description"`
	InstructorID string                      `gorm:"column:instructor_id;not null" json:"instructorId" bson:"instructorId"`
	Category     string                      `gorm:"column:category" json:"category" bson:"category"`
	Level        Level                       `gorm:"column:level" json:"level" bson:"level"`
	Duration     float64                     `gorm:"column:duration" json:"duration" bson:"duration"`
	Price        float64                     `gorm:"column:price" json:"price" bson:"price"`
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags" bson:"tags"`
	CreatedAt    time.Time                   `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" bson:"updatedAt"`
	IsPublished  bool                        `gorm:"column:is_published" json:"isPublished" bson:"isPublished"`
	Rating       float64                     `gorm:"column:rating" json:"rating" bson:"rating"`
}

func (Course) TableName() string { return CollectionCourses }

func (c *Course) Normalize() {
	if c.Tags == nil {
		c.Tags = datatypes.JSONSlice[string]{}
	}
	c.CreatedAt = Millis(c.CreatedAt)
	c.UpdatedAt = Millis(c.UpdatedAt)
}

// HasTag reports whether tag is already on the course.
func (c *Course) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CourseChanges is a partial update. AddTags is merged as a set union.
type CourseChanges struct {
	Title       *string
	Description *string
	Category    *string
	Level       *Level
	Duration    *float64
	Price       *float64
	Rating      *float64
	IsPublished *bool
	AddTags     []string
	UpdatedAt   time.Time
}

type CourseFilter struct {
	Category     string
	Level        Level
	InstructorID string
	Published    *bool
	MinPrice     *float64
	MaxPrice     *float64
}

// UniqueTags trims tags and drops blanks and repeats, keeping first-seen order.
func UniqueTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
