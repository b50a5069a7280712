package domain

import "time"

type EnrollmentStatus string

const (
	StatusActive    EnrollmentStatus = "active"
	StatusCompleted EnrollmentStatus = "completed"
	StatusDropped   EnrollmentStatus = "dropped"
)

func (s EnrollmentStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted || s == StatusDropped
}

const (
	MinProgress = 0.0
	MaxProgress = 100.0
)

type Enrollment struct {
	EnrollmentID   string           `gorm:"column:enrollment_id;primaryKey" json:"enrollmentId" bson:"enrollmentId"`
	StudentID      string           `gorm:"column:student_id;not null" json:"studentId" bson:"studentId"`
	CourseID       string           `gorm:"column:course_id;not null" json:"courseId" bson:"courseId"`
	EnrollmentDate time.Time        `gorm:"column:enrollment_date;not null" json:"enrollmentDate" bson:"enrollmentDate"`
	Status         EnrollmentStatus `gorm:"column:status" json:"status" bson:"status"`
	Progress       float64          `gorm:"column:progress" json:"progress" bson:"progress"`
	CompletionDate *time.Time       `gorm:"column:completion_date" json:"completionDate" bson:"completionDate"`
}

func (Enrollment) TableName() string { return CollectionEnrollments }

func (e *Enrollment) Normalize() {
	e.EnrollmentDate = Millis(e.EnrollmentDate)
	if e.CompletionDate != nil {
		t := Millis(*e.CompletionDate)
		e.CompletionDate = &t
	}
}

type EnrollmentChanges struct {
	Status         *EnrollmentStatus
	Progress       *float64
	CompletionDate *time.Time
}
