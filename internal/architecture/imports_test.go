package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// boundary forbids files under dir from importing any path starting with one
// of deny. A leading "~/" stands for the module path.
type boundary struct {
	dir  string
	deny []string
}

var boundaries = []boundary{
	{dir: "internal/domain/", deny: []string{
		"~/internal/",
		"go.mongodb.org/mongo-driver/",
		"gorm.io/gorm",
	}},
	{dir: "internal/data/", deny: []string{
		"~/internal/services",
		"~/internal/app",
		"~/internal/export",
		"~/internal/sampledata",
	}},
	{dir: "internal/platform/", deny: []string{
		"~/internal/data/",
		"~/internal/services",
		"~/internal/app",
	}},
	{dir: "internal/observability/", deny: []string{
		"~/internal/data/",
		"~/internal/services",
		"~/internal/app",
	}},
	{dir: "internal/sampledata/", deny: []string{
		"~/internal/data/",
		"~/internal/services",
	}},
	{dir: "internal/services/", deny: []string{
		"~/internal/app",
		"~/internal/data/repos/sqlrepo",
		"~/internal/data/repos/mongorepo",
		"~/internal/platform/redis",
		"gorm.io/gorm",
		"gorm.io/driver/",
		"go.mongodb.org/mongo-driver/",
		"github.com/redis/go-redis/",
	}},
	{dir: "internal/export/", deny: []string{
		"~/internal/services",
		"~/internal/app",
		"go.mongodb.org/mongo-driver/",
	}},
}

// backendOwners maps each store backend to the only directories allowed to
// import it besides the backend itself.
var backendOwners = map[string][]string{
	"~/internal/data/repos/sqlrepo":   {"internal/app/"},
	"~/internal/data/repos/mongorepo": {"internal/app/"},
	"~/internal/platform/redis":       {"internal/app/"},
}

type importRef struct {
	file string
	path string
}

type moduleImports struct {
	path string
	refs []importRef
}

func (m moduleImports) expand(p string) string {
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		return m.path + "/" + rest
	}
	return p
}

func loadImports(t *testing.T) moduleImports {
	t.Helper()
	root := moduleRoot(t)
	raw, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	var mod moduleImports
	for _, line := range strings.Split(string(raw), "\n") {
		if p, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok {
			mod.path = strings.TrimSpace(p)
			break
		}
	}
	if mod.path == "" {
		t.Fatal("go.mod has no module line")
	}

	fset := token.NewFileSet()
	err = filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		for _, is := range f.Imports {
			if p, err := strconv.Unquote(is.Path.Value); err == nil {
				mod.refs = append(mod.refs, importRef{file: filepath.ToSlash(rel), path: p})
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal: %v", err)
	}
	return mod
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found")
		}
		dir = parent
	}
}

func matches(imp, rule string) bool {
	return imp == strings.TrimSuffix(rule, "/") || strings.HasPrefix(imp, rule)
}

func TestImportBoundaries(t *testing.T) {
	mod := loadImports(t)

	var violations []string
	for _, ref := range mod.refs {
		for _, b := range boundaries {
			if !strings.HasPrefix(ref.file, b.dir) {
				continue
			}
			for _, rule := range b.deny {
				if matches(ref.path, mod.expand(rule)) {
					violations = append(violations, fmt.Sprintf("%s imports %s", ref.file, ref.path))
					break
				}
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}

func TestBackendsOnlyWiredByApp(t *testing.T) {
	mod := loadImports(t)

	var violations []string
	for _, ref := range mod.refs {
		for backend, owners := range backendOwners {
			full := mod.expand(backend)
			if ref.path != full {
				continue
			}
			own := strings.TrimPrefix(full, mod.path+"/") + "/"
			allowed := strings.HasPrefix(ref.file, own)
			for _, o := range owners {
				allowed = allowed || strings.HasPrefix(ref.file, o)
			}
			if !allowed {
				violations = append(violations, fmt.Sprintf("%s imports %s", ref.file, ref.path))
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("store backends imported outside internal/app:\n  %s", strings.Join(violations, "\n  "))
	}
}
