package domain

import "time"

type CourseEnrollmentCount struct {
	CourseID    string `json:"courseId" bson:"courseId"`
	Title       string `json:"title" bson:"title"`
	Enrollments int64  `json:"enrollments" bson:"enrollments"`
}

type CategoryEnrollmentStats struct {
	Category         string                  `json:"category" bson:"_id"`
	TotalCourses     int64                   `json:"totalCourses" bson:"totalCourses"`
	TotalEnrollments int64                   `json:"totalEnrollments" bson:"totalEnrollments"`
	AvgRating        float64                 `json:"avgRating" bson:"avgRating"`
	AvgPrice         float64                 `json:"avgPrice" bson:"avgPrice"`
	Courses          []CourseEnrollmentCount `json:"courses" bson:"courses"`
}

type StudentPerformance struct {
	StudentID        string  `json:"studentId" bson:"_id"`
	FirstName        string  `json:"firstName" bson:"firstName"`
	LastName         string  `json:"lastName" bson:"lastName"`
	AverageGrade     float64 `json:"averageGrade" bson:"averageGrade"`
	TotalSubmissions int64   `json:"totalSubmissions" bson:"totalSubmissions"`
	CoursesCount     int64   `json:"coursesCount" bson:"coursesCount"`
}

type InstructorAnalytics struct {
	InstructorID  string  `json:"instructorId" bson:"_id"`
	FirstName     string  `json:"firstName" bson:"firstName"`
	LastName      string  `json:"lastName" bson:"lastName"`
	TotalCourses  int64   `json:"totalCourses" bson:"totalCourses"`
	TotalStudents int64   `json:"totalStudents" bson:"totalStudents"`
	AverageRating float64 `json:"averageRating" bson:"averageRating"`
	TotalRevenue  float64 `json:"totalRevenue" bson:"totalRevenue"`
}

type MonthlyEnrollments struct {
	Year        int   `json:"year" bson:"year"`
	Month       int   `json:"month" bson:"month"`
	Enrollments int64 `json:"enrollments" bson:"enrollments"`
	Active      int64 `json:"active" bson:"active"`
	Completed   int64 `json:"completed" bson:"completed"`
}

type CategoryPopularity struct {
	Category    string  `json:"category" bson:"_id"`
	Enrollments int64   `json:"enrollments" bson:"enrollments"`
	AvgRating   float64 `json:"avgRating" bson:"avgRating"`
}

type StatusEngagement struct {
	Status      EnrollmentStatus `json:"status" bson:"_id"`
	Count       int64            `json:"count" bson:"count"`
	AvgProgress float64          `json:"avgProgress" bson:"avgProgress"`
}

type AdvancedAnalytics struct {
	GeneratedAt        time.Time            `json:"generatedAt"`
	MonthlyTrend       []MonthlyEnrollments `json:"monthlyTrend"`
	CategoryPopularity []CategoryPopularity `json:"categoryPopularity"`
	Engagement         []StatusEngagement   `json:"engagement"`
}
