package domain

import "time"

const DefaultMaxPoints float64 = 100

type Assignment struct {
	AssignmentID string    `gorm:"column:assignment_id;primaryKey" json:"assignmentId" bson:"assignmentId"`
	CourseID     string    `gorm:"column:course_id;not null" json:"courseId" bson:"courseId"`
	Title        string    `gorm:"column:title;not null" json:"title" bson:"title"`
	Description  string    `gorm:"column:description;not null" json:"description" bson:"description"`
	DueDate      time.Time `gorm:"column:due_date" json:"dueDate" bson:"dueDate"`
	MaxPoints    float64   `gorm:"column:max_points" json:"maxPoints" bson:"maxPoints"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" bson:"createdAt"`
	Instructions string    `gorm:"column:instructions" json:"instructions" bson:"instructions"`
}

func (Assignment) TableName() string { return CollectionAssignments }

func (a *Assignment) Normalize() {
	a.DueDate = Millis(a.DueDate)
	a.CreatedAt = Millis(a.CreatedAt)
}
