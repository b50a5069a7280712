package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Lesson struct {
	LessonID  string                      `gorm:"column:lesson_id;primaryKey" json:"lessonId" bson:"lessonId"`
	CourseID  string                      `gorm:"column:course_id;not null" json:"courseId" bson:"courseId"`
	Title     string                      `gorm:"column:title;not null" json:"title" bson:"title"`
	Content   string                      `gorm:"column:content;not null" json:"content" bson:"content"`
	Duration  float64                     `gorm:"column:duration" json:"duration" bson:"duration"`
	Order     int                         `gorm:"column:order" json:"order" bson:"order"`
	VideoURL  string                      `gorm:"column:video_url" json:"videoUrl" bson:"videoUrl"`
	Materials datatypes.JSONSlice[string] `gorm:"column:materials" json:"materials" bson:"materials"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" bson:"createdAt"`
}

func (Lesson) TableName() string { return CollectionLessons }

func (l *Lesson) Normalize() {
	if l.Materials == nil {
		l.Materials = datatypes.JSONSlice[string]{}
	}
	l.CreatedAt = Millis(l.CreatedAt)
}
