package schema

import "github.com/yungbote/eduhub-backend/internal/domain"

type BSONType string

const (
	TypeString BSONType = "string"
	TypeNumber BSONType = "number"
	TypeBool   BSONType = "bool"
	TypeDate   BSONType = "date"
	TypeArray  BSONType = "array"
	TypeObject BSONType = "object"
	TypeNull   BSONType = "null"
)

// Property describes one document field.
type Property struct {
	Types      []BSONType
	Items      BSONType
	Enum       []string
	Minimum    *float64
	Maximum    *float64
	Pattern    string
	Properties map[string]Property
}

type IndexKey struct {
	Field string
	Desc  bool
}

// Index is a store-neutral index definition. Text indexes cover every key
// as full-text.
type Index struct {
	Name   string
	Keys   []IndexKey
	Unique bool
	Text   bool
}

// Descriptor is the validation and index definition of one collection.
type Descriptor struct {
	Collection string
	IDField    string
	Prefixes   []domain.IDPrefix
	Required   []string
	Properties map[string]Property
	Indexes    []Index
}

// EmailPattern is the shape user emails must match.
const EmailPattern = `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`

func bound(v float64) *float64 { return &v }

func str() Property                  { return Property{Types: []BSONType{TypeString}} }
func num() Property                  { return Property{Types: []BSONType{TypeNumber}} }
func boolean() Property              { return Property{Types: []BSONType{TypeBool}} }
func date() Property                 { return Property{Types: []BSONType{TypeDate}} }
func strArray() Property             { return Property{Types: []BSONType{TypeArray}, Items: TypeString} }
func nullable(t BSONType) Property   { return Property{Types: []BSONType{t, TypeNull}} }
func enum(values ...string) Property { return Property{Types: []BSONType{TypeString}, Enum: values} }
func ranged(min, max float64) Property {
	return Property{Types: []BSONType{TypeNumber}, Minimum: bound(min), Maximum: bound(max)}
}

func asc(fields ...string) []IndexKey {
	keys := make([]IndexKey, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, IndexKey{Field: f})
	}
	return keys
}

func uniqueIndex(collection string, fields ...string) Index {
	return Index{Name: indexName(collection, fields) + "_unique", Keys: asc(fields...), Unique: true}
}

func plainIndex(collection string, fields ...string) Index {
	return Index{Name: indexName(collection, fields), Keys: asc(fields...)}
}

func indexName(collection string, fields []string) string {
	name := collection
	for _, f := range fields {
		name += "_" + f
	}
	return name
}

var descriptors = []Descriptor{
	{
		Collection: domain.CollectionUsers,
		IDField:    "userId",
		Prefixes:   []domain.IDPrefix{domain.PrefixStudent, domain.PrefixInstructor},
		Required:   []string{"userId", "email", "firstName", "lastName", "role"},
		Properties: map[string]Property{
			"userId":     str(),
			"email":      {Types: []BSONType{TypeString}, Pattern: EmailPattern},
			"firstName":  str(),
			"lastName":   str(),
			"role":       enum(string(domain.RoleStudent), string(domain.RoleInstructor)),
			"dateJoined": date(),
			"profile": {
				Types: []BSONType{TypeObject},
				Properties: map[string]Property{
					"bio":    str(),
					"avatar": str(),
					"skills": strArray(),
				},
			},
			"isActive": boolean(),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionUsers, "userId"),
			uniqueIndex(domain.CollectionUsers, "email"),
			plainIndex(domain.CollectionUsers, "role"),
		},
	},
	{
		Collection: domain.CollectionCourses,
		IDField:    "courseId",
		Prefixes:   []domain.IDPrefix{domain.PrefixCourse},
		Required:   []string{"courseId", "title", "instructorId"},
		Properties: map[string]Property{
			"courseId":     str(),
			"title":        str(),
			"description":  str(),
			"instructorId": str(),
			"category":     str(),
			"level":        enum(string(domain.LevelBeginner), string(domain.LevelIntermediate), string(domain.LevelAdvanced)),
			"duration":     num(),
			"price":        num(),
			"tags":         strArray(),
			"createdAt":    date(),
			"updatedAt":    date(),
			"isPublished":  boolean(),
			"rating":       ranged(domain.MinRating, domain.MaxRating),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionCourses, "courseId"),
			plainIndex(domain.CollectionCourses, "title"),
			plainIndex(domain.CollectionCourses, "category"),
			plainIndex(domain.CollectionCourses, "instructorId"),
			{Name: "courses_text", Keys: asc("title", "description"), Text: true},
		},
	},
	{
		Collection: domain.CollectionLessons,
		IDField:    "lessonId",
		Prefixes:   []domain.IDPrefix{domain.PrefixLesson},
		Required:   []string{"lessonId", "courseId", "title", "content"},
		Properties: map[string]Property{
			"lessonId":  str(),
			"courseId":  str(),
			"title":     str(),
			"content":   str(),
			"duration":  num(),
			"order":     num(),
			"videoUrl":  str(),
			"materials": strArray(),
			"createdAt": date(),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionLessons, "lessonId"),
			plainIndex(domain.CollectionLessons, "courseId"),
			plainIndex(domain.CollectionLessons, "courseId", "order"),
		},
	},
	{
		Collection: domain.CollectionAssignments,
		IDField:    "assignmentId",
		Prefixes:   []domain.IDPrefix{domain.PrefixAssignment},
		Required:   []string{"assignmentId", "courseId", "title", "description"},
		Properties: map[string]Property{
			"assignmentId": str(),
			"courseId":     str(),
			"title":        str(),
			"description":  str(),
			"dueDate":      date(),
			"maxPoints":    num(),
			"createdAt":    date(),
			"instructions": str(),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionAssignments, "assignmentId"),
			plainIndex(domain.CollectionAssignments, "courseId"),
			plainIndex(domain.CollectionAssignments, "dueDate"),
		},
	},
	{
		Collection: domain.CollectionEnrollments,
		IDField:    "enrollmentId",
		Prefixes:   []domain.IDPrefix{domain.PrefixEnrollment},
		Required:   []string{"enrollmentId", "studentId", "courseId", "enrollmentDate"},
		Properties: map[string]Property{
			"enrollmentId":   str(),
			"studentId":      str(),
			"courseId":       str(),
			"enrollmentDate": date(),
			"status":         enum(string(domain.StatusActive), string(domain.StatusCompleted), string(domain.StatusDropped)),
			"progress":       ranged(domain.MinProgress, domain.MaxProgress),
			"completionDate": nullable(TypeDate),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionEnrollments, "enrollmentId"),
			uniqueIndex(domain.CollectionEnrollments, "studentId", "courseId"),
			plainIndex(domain.CollectionEnrollments, "studentId"),
			plainIndex(domain.CollectionEnrollments, "courseId"),
			plainIndex(domain.CollectionEnrollments, "enrollmentDate"),
		},
	},
	{
		Collection: domain.CollectionSubmissions,
		IDField:    "submissionId",
		Prefixes:   []domain.IDPrefix{domain.PrefixSubmission},
		Required:   []string{"submissionId", "assignmentId", "studentId"},
		Properties: map[string]Property{
			"submissionId":   str(),
			"assignmentId":   str(),
			"studentId":      str(),
			"submissionDate": date(),
			"content":        str(),
			"attachments":    strArray(),
			"grade":          {Types: []BSONType{TypeNumber, TypeNull}, Minimum: bound(0)},
			"feedback":       nullable(TypeString),
			"gradedDate":     nullable(TypeDate),
		},
		Indexes: []Index{
			uniqueIndex(domain.CollectionSubmissions, "submissionId"),
			plainIndex(domain.CollectionSubmissions, "studentId", "assignmentId"),
			plainIndex(domain.CollectionSubmissions, "assignmentId"),
			plainIndex(domain.CollectionSubmissions, "studentId"),
		},
	},
}

// All returns every descriptor in dependency order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

func Lookup(collection string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Collection == collection {
			return d, true
		}
	}
	return Descriptor{}, false
}
