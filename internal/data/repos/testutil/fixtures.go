package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
)

// Seed helpers write straight through the repositories with caller-chosen
// IDs, bypassing ID allocation.

func SeedUser(tb testing.TB, ctx context.Context, set repos.Set, userID string, role domain.Role) *domain.User {
	tb.Helper()
	u := &domain.User{
		UserID:     userID,
		Email:      strings.ToLower(userID) + "@example.com",
		FirstName:  "First" + userID,
		LastName:   "Last" + userID,
		Role:       role,
		DateJoined: time.Now().UTC(),
		IsActive:   true,
	}
	if err := set.Users.Create(ctx, u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, set repos.Set, courseID, instructorID, category string, price, rating float64) *domain.Course {
	tb.Helper()
	now := time.Now().UTC()
	c := &domain.Course{
		CourseID:     courseID,
		Title:        "Course " + courseID,
		Description:  "About " + category,
		InstructorID: instructorID,
		Category:     category,
		Level:        domain.LevelBeginner,
		Duration:     10,
		Price:        price,
		Tags:         datatypes.JSONSlice[string]{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Rating:       rating,
	}
	if err := set.Courses.Create(ctx, c); err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedAssignment(tb testing.TB, ctx context.Context, set repos.Set, assignmentID, courseID string, due time.Time) *domain.Assignment {
	tb.Helper()
	a := &domain.Assignment{
		AssignmentID: assignmentID,
		CourseID:     courseID,
		Title:        "Assignment " + assignmentID,
		Description:  "Solve it",
		DueDate:      due,
		MaxPoints:    domain.DefaultMaxPoints,
		CreatedAt:    time.Now().UTC(),
	}
	if err := set.Assignments.Create(ctx, a); err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedEnrollment(tb testing.TB, ctx context.Context, set repos.Set, enrollmentID, studentID, courseID string, status domain.EnrollmentStatus, progress float64, at time.Time) *domain.Enrollment {
	tb.Helper()
	e := &domain.Enrollment{
		EnrollmentID:   enrollmentID,
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: at,
		Status:         status,
		Progress:       progress,
	}
	if err := set.Enrollments.Create(ctx, e); err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedSubmission(tb testing.TB, ctx context.Context, set repos.Set, submissionID, assignmentID, studentID string, grade *float64) *domain.Submission {
	tb.Helper()
	s := &domain.Submission{
		SubmissionID:   submissionID,
		AssignmentID:   assignmentID,
		StudentID:      studentID,
		SubmissionDate: time.Now().UTC(),
		Content:        "answer",
	}
	if grade != nil {
		g := *grade
		fb := "ok"
		at := time.Now().UTC()
		s.Grade, s.Feedback, s.GradedDate = &g, &fb, &at
	}
	if err := set.Submissions.Create(ctx, s); err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}

func PtrFloat(v float64) *float64 { return &v }
