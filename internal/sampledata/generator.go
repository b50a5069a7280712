package sampledata

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/datatypes"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

var coursePrices = []float64{0, 19.99, 29.99, 49.99, 79.99, 99.99, 149.99}

var levels = []domain.Level{domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced}

// Generator produces realistic records from the content corpus. Every random
// choice comes from one seeded faker, so equal seeds and clocks give equal
// output. A Generator is not safe for concurrent use.
type Generator struct {
	content  *Content
	faker    *gofakeit.Faker
	now      func() time.Time
	emailSeq int
}

type Option func(*Generator)

// WithClock fixes the instant date offsets are resolved against.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New builds a generator over content. Seed 0 picks a time-based seed.
func New(content *Content, seed uint64, opts ...Option) *Generator {
	g := &Generator{
		content: content,
		faker:   gofakeit.New(seed),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Content() *Content { return g.content }

func (g *Generator) clock() time.Time { return domain.Millis(g.now()) }

func (g *Generator) intn(n int) int {
	if n <= 1 {
		return 0
	}
	return g.faker.IntRange(0, n-1)
}

func (g *Generator) chance(p float64) bool { return g.faker.Float64() < p }

func pick[T any](g *Generator, items []T) T {
	return items[g.intn(len(items))]
}

// sample returns up to n distinct items in random order.
func sample[T any](g *Generator, items []T, n int) []T {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]T, 0, n)
	for _, i := range idx[:n] {
		out = append(out, items[i])
	}
	return out
}

// PickID returns one of ids, or "" when ids is empty.
func (g *Generator) PickID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return pick(g, ids)
}

// Pairs draws up to n distinct (left, right) combinations.
func (g *Generator) Pairs(left, right []string, n int) [][2]string {
	all := make([][2]string, 0, len(left)*len(right))
	for _, l := range left {
		for _, r := range right {
			all = append(all, [2]string{l, r})
		}
	}
	return sample(g, all, n)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// RandomDateBetween samples uniformly between now-startDaysAgo and
// now-endDaysAgo, inclusive, whichever bound is earlier. Negative offsets
// lie in the future.
func (g *Generator) RandomDateBetween(startDaysAgo, endDaysAgo int) time.Time {
	now := g.clock()
	a := now.AddDate(0, 0, -startDaysAgo)
	b := now.AddDate(0, 0, -endDaysAgo)
	return g.between(a, b)
}

func (g *Generator) between(a, b time.Time) time.Time {
	if b.Before(a) {
		a, b = b, a
	}
	span := b.Sub(a).Milliseconds()
	if span <= 0 {
		return a
	}
	offset := g.faker.IntRange(0, int(span))
	return a.Add(time.Duration(offset) * time.Millisecond)
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (g *Generator) AvatarURL(first, last string) string {
	return fmt.Sprintf("%s/%s.png", g.content.URLs.Avatar, slug(first+" "+last))
}

func (g *Generator) VideoURL(courseTitle, lessonTitle string) string {
	return fmt.Sprintf("%s/%s/%s.mp4", g.content.URLs.Video, slug(courseTitle), slug(lessonTitle))
}

func (g *Generator) MaterialURL(title, ext string) string {
	return fmt.Sprintf("%s/%s.%s", g.content.URLs.Material, slug(title), strings.TrimPrefix(ext, "."))
}

// AttachmentURL lower-cases the record IDs but otherwise keeps them verbatim.
func (g *Generator) AttachmentURL(studentID, assignmentID string, n int) string {
	return fmt.Sprintf("%s/%s/%s-%d.pdf", g.content.URLs.Attachment,
		strings.ToLower(strings.TrimSpace(assignmentID)), strings.ToLower(strings.TrimSpace(studentID)), n)
}

func (g *Generator) email(first, last string) string {
	g.emailSeq++
	return fmt.Sprintf("%s.%s%d@eduhub.example", slug(first), slug(last), g.emailSeq)
}

func (g *Generator) person(role domain.Role, joinedFrom, joinedTo int) domain.User {
	first := g.faker.FirstName()
	last := g.faker.LastName()
	return domain.User{
		Email:      g.email(first, last),
		FirstName:  first,
		LastName:   last,
		Role:       role,
		DateJoined: g.RandomDateBetween(joinedFrom, joinedTo),
		Profile:    domain.UserProfile{Avatar: g.AvatarURL(first, last), Skills: []string{}},
		IsActive:   true,
	}
}

// Students returns n student drafts without IDs.
func (g *Generator) Students(n int) []domain.User {
	out := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		u := g.person(domain.RoleStudent, 365, 1)
		interests := sample(g, g.content.StudentInterests, 1+g.intn(3))
		u.Profile.Bio = "Student interested in " + strings.Join(interests, ", ") + "."
		u.Profile.Skills = interests
		out = append(out, u)
	}
	return out
}

// Instructors returns n instructor drafts without IDs.
func (g *Generator) Instructors(n int) []domain.User {
	out := make([]domain.User, 0, n)
	for i := 0; i < n; i++ {
		u := g.person(domain.RoleInstructor, 730, 365)
		u.Profile.Bio = pick(g, g.content.InstructorBios)
		u.Profile.Skills = sample(g, g.content.InstructorSkills, 2+g.intn(3))
		out = append(out, u)
	}
	return out
}

type catalogEntry struct {
	category string
	course   CourseTemplate
}

func (g *Generator) catalog() []catalogEntry {
	var out []catalogEntry
	for _, cat := range g.content.Catalog {
		for _, c := range cat.Courses {
			out = append(out, catalogEntry{category: cat.Category, course: c})
		}
	}
	return out
}

// Courses walks the catalog in order, wrapping around when n exceeds it, and
// assigns each course a random instructor from instructorIDs.
func (g *Generator) Courses(n int, instructorIDs []string) []domain.Course {
	if len(instructorIDs) == 0 {
		return nil
	}
	entries := g.catalog()
	out := make([]domain.Course, 0, n)
	for i := 0; i < n; i++ {
		e := entries[i%len(entries)]
		title := e.course.Title
		if round := i / len(entries); round > 0 {
			title = fmt.Sprintf("%s %d", title, round+1)
		}
		created := g.RandomDateBetween(365, 30)
		out = append(out, domain.Course{
			Title:        title,
			Description:  e.course.Description,
			InstructorID: pick(g, instructorIDs),
			Category:     e.category,
			Level:        pick(g, levels),
			Duration:     float64(g.faker.IntRange(6, 60)),
			Price:        pick(g, coursePrices),
			Tags:         datatypes.JSONSlice[string](append([]string{}, e.course.Tags...)),
			CreatedAt:    created,
			UpdatedAt:    created,
			IsPublished:  g.chance(0.75),
			Rating:       round1(g.faker.Float64Range(3.0, 5.0)),
		})
	}
	return out
}

func (g *Generator) materials(title string) []string {
	n := 1 + g.intn(2)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.MaterialURL(fmt.Sprintf("%s %d", title, i+1), pick(g, g.content.MaterialExtensions)))
	}
	return out
}

// Lessons returns n lessons for course with orders 1..n.
func (g *Generator) Lessons(course domain.Course, n int) []domain.Lesson {
	cat, ok := g.content.Category(course.Category)
	if !ok {
		cat = g.content.Catalog[0]
	}
	out := make([]domain.Lesson, 0, n)
	for i := 0; i < n; i++ {
		tpl := cat.Lessons[i%len(cat.Lessons)]
		title := tpl.Title
		if part := i / len(cat.Lessons); part > 0 {
			title = fmt.Sprintf("%s (Part %d)", title, part+1)
		}
		out = append(out, domain.Lesson{
			CourseID:  course.CourseID,
			Title:     title,
			Content:   tpl.Content,
			Duration:  float64(g.faker.IntRange(10, 60)),
			Order:     i + 1,
			VideoURL:  g.VideoURL(course.Title, title),
			Materials: datatypes.JSONSlice[string](g.materials(title)),
			CreatedAt: g.between(course.CreatedAt, g.clock()),
		})
	}
	return out
}

// Assignments returns n assignments for course, due anywhere from 30 days
// ago to 30 days ahead.
func (g *Generator) Assignments(course domain.Course, n int) []domain.Assignment {
	cat, ok := g.content.Category(course.Category)
	if !ok {
		cat = g.content.Catalog[0]
	}
	out := make([]domain.Assignment, 0, n)
	for i := 0; i < n; i++ {
		tpl := pick(g, cat.Assignments)
		out = append(out, domain.Assignment{
			CourseID:     course.CourseID,
			Title:        tpl.Title,
			Description:  tpl.Description,
			DueDate:      g.RandomDateBetween(30, -30),
			MaxPoints:    domain.DefaultMaxPoints,
			CreatedAt:    g.RandomDateBetween(60, 31),
			Instructions: tpl.Instructions,
		})
	}
	return out
}

// Enrollment draws a status and a progress consistent with it.
func (g *Generator) Enrollment(studentID, courseID string) domain.Enrollment {
	e := domain.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: g.RandomDateBetween(180, 1),
	}
	switch r := g.faker.Float64(); {
	case r < 0.6:
		e.Status = domain.StatusActive
		e.Progress = round1(g.faker.Float64Range(0, 95))
	case r < 0.85:
		e.Status = domain.StatusCompleted
		e.Progress = domain.MaxProgress
		done := g.between(e.EnrollmentDate, g.clock())
		e.CompletionDate = &done
	default:
		e.Status = domain.StatusDropped
		e.Progress = round1(g.faker.Float64Range(5, 60))
	}
	return e
}

func (g *Generator) Grade(maxPoints float64) float64 {
	if maxPoints <= 0 {
		maxPoints = domain.DefaultMaxPoints
	}
	return round1(g.faker.Float64Range(0.55, 1.0) * maxPoints)
}

func (g *Generator) Feedback() string { return pick(g, g.content.Feedback) }

// Submission returns a submission by studentID; roughly seven in ten come
// back graded.
func (g *Generator) Submission(a domain.Assignment, studentID string) domain.Submission {
	s := domain.Submission{
		AssignmentID:   a.AssignmentID,
		StudentID:      studentID,
		SubmissionDate: g.RandomDateBetween(20, 0),
		Content:        g.faker.Sentence(20),
		Attachments:    datatypes.JSONSlice[string]{},
	}
	attachments := g.intn(3)
	for i := 0; i < attachments; i++ {
		s.Attachments = append(s.Attachments, g.AttachmentURL(studentID, a.AssignmentID, i+1))
	}
	if g.chance(0.7) {
		grade := g.Grade(a.MaxPoints)
		feedback := g.Feedback()
		graded := g.between(s.SubmissionDate, g.clock())
		s.Grade = &grade
		s.Feedback = &feedback
		s.GradedDate = &graded
	}
	return s
}
