package sampledata

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const ContentEnv = "EDUHUB_SAMPLE_CONTENT_YAML"

//go:embed content.yaml
var contentFS embed.FS

// Content is the template corpus the generator draws from. It is read-only
// once loaded.
type Content struct {
	Corpus             string         `yaml:"corpus"`
	Version            int            `yaml:"version"`
	URLs               URLTemplates   `yaml:"urls"`
	InstructorBios     []string       `yaml:"instructor_bios"`
	InstructorSkills   []string       `yaml:"instructor_skills"`
	StudentInterests   []string       `yaml:"student_interests"`
	Feedback           []string       `yaml:"feedback"`
	MaterialExtensions []string       `yaml:"material_extensions"`
	Catalog            []CategorySpec `yaml:"catalog"`
}

type URLTemplates struct {
	Avatar     string `yaml:"avatar"`
	Video      string `yaml:"video"`
	Material   string `yaml:"material"`
	Attachment string `yaml:"attachment"`
}

type CategorySpec struct {
	Category    string               `yaml:"category"`
	Courses     []CourseTemplate     `yaml:"courses"`
	Lessons     []LessonTemplate     `yaml:"lessons"`
	Assignments []AssignmentTemplate `yaml:"assignments"`
}

type CourseTemplate struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

type LessonTemplate struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type AssignmentTemplate struct {
	Title        string `yaml:"title"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
}

// LoadContent reads the corpus from EDUHUB_SAMPLE_CONTENT_YAML when set,
// otherwise from the embedded default.
func LoadContent() (*Content, error) {
	data, err := readContent()
	if err != nil {
		return nil, err
	}
	return ParseContent(data)
}

func readContent() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(ContentEnv)); path != "" {
		return os.ReadFile(path)
	}
	return contentFS.ReadFile("content.yaml")
}

func ParseContent(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse sample content: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) Validate() error {
	if c == nil {
		return errors.New("missing sample content")
	}
	if len(c.Catalog) == 0 {
		return errors.New("sample content: empty catalog")
	}
	if len(c.InstructorBios) == 0 || len(c.StudentInterests) == 0 || len(c.Feedback) == 0 {
		return errors.New("sample content: bios, interests and feedback are required")
	}
	seen := map[string]bool{}
	for _, cat := range c.Catalog {
		name := strings.TrimSpace(cat.Category)
		if name == "" {
			return errors.New("sample content: category name is required")
		}
		if seen[name] {
			return fmt.Errorf("sample content: duplicate category %q", name)
		}
		seen[name] = true
		if len(cat.Courses) == 0 {
			return fmt.Errorf("sample content: category %q has no courses", name)
		}
		if len(cat.Lessons) == 0 || len(cat.Assignments) == 0 {
			return fmt.Errorf("sample content: category %q needs lesson and assignment templates", name)
		}
	}
	if len(c.MaterialExtensions) == 0 {
		return errors.New("sample content: material_extensions is required")
	}
	return nil
}

// Category returns the catalog entry for name.
func (c *Content) Category(name string) (CategorySpec, bool) {
	for _, cat := range c.Catalog {
		if cat.Category == name {
			return cat, true
		}
	}
	return CategorySpec{}, false
}
