package sqlrepo

import (
	"context"
	"sort"
	"time"

	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/domain"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
)

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) repos.ReportRepo {
	repoLog := baseLog.With("repo", "ReportRepo")
	return &reportRepo{db: db, log: repoLog}
}

type courseEnrollmentRow struct {
	CourseID     string  `gorm:"column:course_id"`
	Title        string  `gorm:"column:title"`
	Category     string  `gorm:"column:category"`
	InstructorID string  `gorm:"column:instructor_id"`
	Rating       float64 `gorm:"column:rating"`
	Price        float64 `gorm:"column:price"`
	Enrollments  int64   `gorm:"column:enrollments"`
}

// courseEnrollments returns every course with its enrollment count,
// including courses nobody enrolled in.
func (r *reportRepo) courseEnrollments(ctx context.Context) ([]courseEnrollmentRow, error) {
	var rows []courseEnrollmentRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.course_id, c.title, c.category, c.instructor_id, c.rating, c.price,
		       COUNT(e.enrollment_id) AS enrollments
		FROM courses c
		LEFT JOIN enrollments e ON e.course_id = c.course_id
		GROUP BY c.course_id, c.title, c.category, c.instructor_id, c.rating, c.price
		ORDER BY c.course_id`).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) EnrollmentStatistics(ctx context.Context) ([]domain.CategoryEnrollmentStats, error) {
	rows, err := r.courseEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	type acc struct {
		stats     domain.CategoryEnrollmentStats
		ratingSum float64
		priceSum  float64
	}
	byCategory := map[string]*acc{}
	for _, row := range rows {
		a, ok := byCategory[row.Category]
		if !ok {
			a = &acc{stats: domain.CategoryEnrollmentStats{Category: row.Category, Courses: []domain.CourseEnrollmentCount{}}}
			byCategory[row.Category] = a
		}
		a.stats.TotalCourses++
		a.stats.TotalEnrollments += row.Enrollments
		a.ratingSum += row.Rating
		a.priceSum += row.Price
		a.stats.Courses = append(a.stats.Courses, domain.CourseEnrollmentCount{
			CourseID:    row.CourseID,
			Title:       row.Title,
			Enrollments: row.Enrollments,
		})
	}
	out := make([]domain.CategoryEnrollmentStats, 0, len(byCategory))
	for _, a := range byCategory {
		n := float64(a.stats.TotalCourses)
		a.stats.AvgRating = a.ratingSum / n
		a.stats.AvgPrice = a.priceSum / n
		sort.SliceStable(a.stats.Courses, func(i, j int) bool {
			ci, cj := a.stats.Courses[i], a.stats.Courses[j]
			if ci.Enrollments != cj.Enrollments {
				return ci.Enrollments > cj.Enrollments
			}
			return ci.CourseID < cj.CourseID
		})
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEnrollments != out[j].TotalEnrollments {
			return out[i].TotalEnrollments > out[j].TotalEnrollments
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (r *reportRepo) StudentPerformance(ctx context.Context) ([]domain.StudentPerformance, error) {
	type row struct {
		StudentID        string  `gorm:"column:student_id"`
		FirstName        *string `gorm:"column:first_name"`
		LastName         *string `gorm:"column:last_name"`
		AverageGrade     float64 `gorm:"column:average_grade"`
		TotalSubmissions int64   `gorm:"column:total_submissions"`
		CoursesCount     int64   `gorm:"column:courses_count"`
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.student_id,
		       MAX(u.first_name) AS first_name,
		       MAX(u.last_name) AS last_name,
		       AVG(s.grade) AS average_grade,
		       COUNT(s.submission_id) AS total_submissions,
		       COUNT(DISTINCT a.course_id) AS courses_count
		FROM submissions s
		JOIN assignments a ON a.assignment_id = s.assignment_id
		LEFT JOIN users u ON u.user_id = s.student_id
		WHERE s.grade IS NOT NULL
		GROUP BY s.student_id
		ORDER BY average_grade DESC, s.student_id ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.StudentPerformance, 0, len(rows))
	for _, rw := range rows {
		out = append(out, domain.StudentPerformance{
			StudentID:        rw.StudentID,
			FirstName:        deref(rw.FirstName),
			LastName:         deref(rw.LastName),
			AverageGrade:     rw.AverageGrade,
			TotalSubmissions: rw.TotalSubmissions,
			CoursesCount:     rw.CoursesCount,
		})
	}
	return out, nil
}

func (r *reportRepo) InstructorAnalytics(ctx context.Context) ([]domain.InstructorAnalytics, error) {
	rows, err := r.courseEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	type acc struct {
		stats     domain.InstructorAnalytics
		ratingSum float64
	}
	byInstructor := map[string]*acc{}
	ids := []string{}
	for _, row := range rows {
		a, ok := byInstructor[row.InstructorID]
		if !ok {
			a = &acc{stats: domain.InstructorAnalytics{InstructorID: row.InstructorID}}
			byInstructor[row.InstructorID] = a
			ids = append(ids, row.InstructorID)
		}
		a.stats.TotalCourses++
		a.stats.TotalStudents += row.Enrollments
		a.stats.TotalRevenue += row.Price * float64(row.Enrollments)
		a.ratingSum += row.Rating
	}

	var users []domain.User
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	for _, u := range users {
		if a, ok := byInstructor[u.UserID]; ok {
			a.stats.FirstName = u.FirstName
			a.stats.LastName = u.LastName
		}
	}

	out := make([]domain.InstructorAnalytics, 0, len(byInstructor))
	for _, a := range byInstructor {
		a.stats.AverageRating = a.ratingSum / float64(a.stats.TotalCourses)
		out = append(out, a.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].InstructorID < out[j].InstructorID
	})
	return out, nil
}

// MonthlyEnrollmentTrend buckets in Go because sqlite and postgres disagree
// on date truncation.
func (r *reportRepo) MonthlyEnrollmentTrend(ctx context.Context) ([]domain.MonthlyEnrollments, error) {
	type row struct {
		EnrollmentDate time.Time               `gorm:"column:enrollment_date"`
		Status         domain.EnrollmentStatus `gorm:"column:status"`
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Select("enrollment_date, status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	buckets := map[time.Time]*domain.MonthlyEnrollments{}
	for _, rw := range rows {
		month := now.With(rw.EnrollmentDate.UTC()).BeginningOfMonth()
		b, ok := buckets[month]
		if !ok {
			b = &domain.MonthlyEnrollments{Year: month.Year(), Month: int(month.Month())}
			buckets[month] = b
		}
		b.Enrollments++
		switch rw.Status {
		case domain.StatusActive:
			b.Active++
		case domain.StatusCompleted:
			b.Completed++
		}
	}
	out := make([]domain.MonthlyEnrollments, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

func (r *reportRepo) CategoryPopularity(ctx context.Context) ([]domain.CategoryPopularity, error) {
	type row struct {
		Category    string  `gorm:"column:category"`
		Enrollments int64   `gorm:"column:enrollments"`
		AvgRating   float64 `gorm:"column:avg_rating"`
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.category, COUNT(e.enrollment_id) AS enrollments, AVG(c.rating) AS avg_rating
		FROM enrollments e
		JOIN courses c ON c.course_id = e.course_id
		GROUP BY c.category
		ORDER BY enrollments DESC, c.category ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryPopularity, 0, len(rows))
	for _, rw := range rows {
		out = append(out, domain.CategoryPopularity{Category: rw.Category, Enrollments: rw.Enrollments, AvgRating: rw.AvgRating})
	}
	return out, nil
}

func (r *reportRepo) EngagementByStatus(ctx context.Context) ([]domain.StatusEngagement, error) {
	type row struct {
		Status      domain.EnrollmentStatus `gorm:"column:status"`
		Total       int64                   `gorm:"column:total"`
		AvgProgress float64                 `gorm:"column:avg_progress"`
	}
	var rows []row
	err := r.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) AS total, AVG(progress) AS avg_progress
		FROM enrollments
		GROUP BY status
		ORDER BY total DESC, status ASC`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.StatusEngagement, 0, len(rows))
	for _, rw := range rows {
		out = append(out, domain.StatusEngagement{Status: rw.Status, Count: rw.Total, AvgProgress: rw.AvgProgress})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
