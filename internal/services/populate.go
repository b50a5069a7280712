package services

import (
	"context"
	"fmt"

	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/observability"
	"github.com/yungbote/eduhub-backend/internal/sampledata"
)

// PopulateCounts sets how many records of each kind Populate creates.
// Lessons and assignments are totals spread over the courses.
type PopulateCounts struct {
	Students    int `json:"students" mapstructure:"students"`
	Instructors int `json:"instructors" mapstructure:"instructors"`
	Courses     int `json:"courses" mapstructure:"courses"`
	Lessons     int `json:"lessons" mapstructure:"lessons"`
	Assignments int `json:"assignments" mapstructure:"assignments"`
	Enrollments int `json:"enrollments" mapstructure:"enrollments"`
	Submissions int `json:"submissions" mapstructure:"submissions"`
}

func DefaultPopulateCounts() PopulateCounts {
	return PopulateCounts{
		Students:    15,
		Instructors: 5,
		Courses:     8,
		Lessons:     25,
		Assignments: 10,
		Enrollments: 15,
		Submissions: 12,
	}
}

// PopulateResult lists the IDs created per kind.
type PopulateResult struct {
	Students    []string `json:"students"`
	Instructors []string `json:"instructors"`
	Courses     []string `json:"courses"`
	Lessons     []string `json:"lessons"`
	Assignments []string `json:"assignments"`
	Enrollments []string `json:"enrollments"`
	Submissions []string `json:"submissions"`
	Graded      int      `json:"graded"`
}

func (r *PopulateResult) Counts() map[string]int {
	return map[string]int{
		domain.CollectionUsers:       len(r.Students) + len(r.Instructors),
		domain.CollectionCourses:     len(r.Courses),
		domain.CollectionLessons:     len(r.Lessons),
		domain.CollectionAssignments: len(r.Assignments),
		domain.CollectionEnrollments: len(r.Enrollments),
		domain.CollectionSubmissions: len(r.Submissions),
	}
}

// spread splits total into n near-equal parts, larger parts first.
func spread(total, n int) []int {
	if n <= 0 || total <= 0 {
		return make([]int, max(n, 0))
	}
	out := make([]int, n)
	for i := range out {
		out[i] = total / n
		if i < total%n {
			out[i]++
		}
	}
	return out
}

// Populate fills the store through the regular create paths in dependency
// order: users, courses, lessons and assignments, enrollments, then
// submissions. It stops at the first failure and returns what was created.
func (s *Services) Populate(ctx context.Context, gen *sampledata.Generator, counts PopulateCounts) (res *PopulateResult, err error) {
	ctx, sc := begin(ctx, s.log, "Populate")
	defer func() {
		if res != nil {
			for collection, n := range res.Counts() {
				observability.Current().AddDocuments(collection, n)
			}
		}
		err = sc.done(err, "counts", counts)
	}()

	res = &PopulateResult{}
	for _, u := range gen.Students(counts.Students) {
		created, err := s.Users.CreateUser(ctx, newUserFrom(u))
		if err != nil {
			return res, fmt.Errorf("populate students: %w", err)
		}
		res.Students = append(res.Students, created.UserID)
	}
	for _, u := range gen.Instructors(counts.Instructors) {
		created, err := s.Users.CreateUser(ctx, newUserFrom(u))
		if err != nil {
			return res, fmt.Errorf("populate instructors: %w", err)
		}
		res.Instructors = append(res.Instructors, created.UserID)
	}

	var courses []domain.Course
	for _, c := range gen.Courses(counts.Courses, res.Instructors) {
		created, err := s.Courses.CreateCourse(ctx, NewCourse{
			Title:        c.Title,
			Description:  c.Description,
			InstructorID: c.InstructorID,
			Category:     c.Category,
			Level:        c.Level,
			Duration:     c.Duration,
			Price:        c.Price,
			Tags:         c.Tags,
			Rating:       c.Rating,
			CreatedAt:    c.CreatedAt,
		})
		if err != nil {
			return res, fmt.Errorf("populate courses: %w", err)
		}
		if c.IsPublished {
			if _, err := s.Courses.MarkCoursePublished(ctx, created.CourseID); err != nil {
				return res, fmt.Errorf("populate courses: %w", err)
			}
		}
		res.Courses = append(res.Courses, created.CourseID)
		courses = append(courses, *created)
	}

	lessonSplit := spread(counts.Lessons, len(courses))
	assignmentSplit := spread(counts.Assignments, len(courses))
	var assignments []domain.Assignment
	for i, course := range courses {
		for _, l := range gen.Lessons(course, lessonSplit[i]) {
			created, err := s.Lessons.AddLessonToCourse(ctx, course.CourseID, NewLesson{
				Title:     l.Title,
				Content:   l.Content,
				Duration:  l.Duration,
				VideoURL:  l.VideoURL,
				Materials: l.Materials,
				CreatedAt: l.CreatedAt,
			})
			if err != nil {
				return res, fmt.Errorf("populate lessons: %w", err)
			}
			res.Lessons = append(res.Lessons, created.LessonID)
		}
		for _, a := range gen.Assignments(course, assignmentSplit[i]) {
			created, err := s.Assignments.CreateAssignment(ctx, course.CourseID, NewAssignment{
				Title:        a.Title,
				Description:  a.Description,
				DueDate:      a.DueDate,
				MaxPoints:    a.MaxPoints,
				Instructions: a.Instructions,
				CreatedAt:    a.CreatedAt,
			})
			if err != nil {
				return res, fmt.Errorf("populate assignments: %w", err)
			}
			res.Assignments = append(res.Assignments, created.AssignmentID)
			assignments = append(assignments, *created)
		}
	}

	enrolled := map[string][]string{}
	for _, pair := range gen.Pairs(res.Students, res.Courses, counts.Enrollments) {
		e := gen.Enrollment(pair[0], pair[1])
		created, err := s.Enrollments.RecordEnrollment(ctx, NewEnrollment{
			StudentID:      e.StudentID,
			CourseID:       e.CourseID,
			EnrollmentDate: e.EnrollmentDate,
			Status:         e.Status,
			Progress:       e.Progress,
			CompletionDate: e.CompletionDate,
		})
		if err != nil {
			return res, fmt.Errorf("populate enrollments: %w", err)
		}
		res.Enrollments = append(res.Enrollments, created.EnrollmentID)
		enrolled[e.CourseID] = append(enrolled[e.CourseID], e.StudentID)
	}

	if len(assignments) == 0 || len(res.Students) == 0 {
		return res, nil
	}
	for i := 0; i < counts.Submissions; i++ {
		a := assignments[i%len(assignments)]
		// Enrolled students are preferred; anyone may submit otherwise.
		studentID := gen.PickID(enrolled[a.CourseID])
		if studentID == "" {
			studentID = gen.PickID(res.Students)
		}
		draft := gen.Submission(a, studentID)
		created, err := s.Submissions.SubmitAssignment(ctx, a.AssignmentID, studentID, NewSubmission{
			Content:        draft.Content,
			Attachments:    draft.Attachments,
			SubmissionDate: draft.SubmissionDate,
		})
		if err != nil {
			return res, fmt.Errorf("populate submissions: %w", err)
		}
		res.Submissions = append(res.Submissions, created.SubmissionID)
		if !draft.Graded() {
			continue
		}
		if _, err := s.Assignments.UpdateAssignmentGrade(ctx, created.SubmissionID, *draft.Grade, *draft.Feedback); err != nil {
			return res, fmt.Errorf("populate grades: %w", err)
		}
		res.Graded++
	}
	return res, nil
}

func newUserFrom(u domain.User) NewUser {
	return NewUser{
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		Bio:        u.Profile.Bio,
		Avatar:     u.Profile.Avatar,
		Skills:     u.Profile.Skills,
		DateJoined: u.DateJoined,
	}
}
