package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Submission struct {
	SubmissionID   string                      `gorm:"column:submission_id;primaryKey" json:"submissionId" bson:"submissionId"`
	AssignmentID   string                      `gorm:"column:assignment_id;not null" json:"assignmentId" bson:"assignmentId"`
	StudentID      string                      `gorm:"column:student_id;not null" json:"studentId" bson:"studentId"`
	SubmissionDate time.Time                   `gorm:"column:submission_date" json:"submissionDate" bson:"submissionDate"`
	Content        string                      `gorm:"column:content" json:"content" bson:"content"`
	Attachments    datatypes.JSONSlice[string] `gorm:"column:attachments" json:"attachments" bson:"attachments"`
	Grade          *float64                    `gorm:"column:grade" json:"grade" bson:"grade"`
	Feedback       *string                     `gorm:"column:feedback" json:"feedback" bson:"feedback"`
	GradedDate     *time.Time                  `gorm:"column:graded_date" json:"gradedDate" bson:"gradedDate"`
}

func (Submission) TableName() string { return CollectionSubmissions }

func (s *Submission) Normalize() {
	if s.Attachments == nil {
		s.Attachments = datatypes.JSONSlice[string]{}
	}
	s.SubmissionDate = Millis(s.SubmissionDate)
	if s.GradedDate != nil {
		t := Millis(*s.GradedDate)
		s.GradedDate = &t
	}
}

func (s *Submission) Graded() bool { return s != nil && s.Grade != nil }
