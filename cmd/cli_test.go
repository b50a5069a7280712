package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/eduhub-backend/internal/data/repos/sqlrepo"
	"github.com/yungbote/eduhub-backend/internal/data/repos/testutil"
	"github.com/yungbote/eduhub-backend/internal/export"
	"github.com/yungbote/eduhub-backend/internal/services"
)

func newTestCLI(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	log := testutil.Logger(t)
	set := sqlrepo.NewSet(testutil.SQLite(t), log)
	out := &bytes.Buffer{}
	return &commandLine{
		log:         log,
		svc:         services.New(set, log),
		collections: set.Collections,
		counts:      services.DefaultPopulateCounts(),
		seed:        7,
		out:         out,
	}, out
}

var badArgs = [][]string{
	{"eduhub"},
	{"eduhub", "migrate"},
	{"eduhub", "report"},
	{"eduhub", "report", "weekly"},
}

// checkArgs runs before any store is wired, so it must work with nothing
// but the arguments.
func TestCheckArgsWithoutStore(t *testing.T) {
	for _, args := range badArgs {
		var out bytes.Buffer
		if err := checkArgs(args, &out); !errors.Is(err, errHelp) {
			t.Fatalf("checkArgs(%q): got %v, want errHelp", args, err)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Fatalf("checkArgs(%q): no usage in %q", args, out.String())
		}
	}

	for _, args := range [][]string{
		{"eduhub", "setup"},
		{"eduhub", "seed", "-students", "3"},
		{"eduhub", "report", "instructors"},
		{"eduhub", "export", "-out", "x.json"},
	} {
		var out bytes.Buffer
		if err := checkArgs(args, &out); err != nil || out.Len() != 0 {
			t.Fatalf("checkArgs(%q): err=%v out=%q", args, err, out.String())
		}
	}
}

func TestCommandLineUsage(t *testing.T) {
	cli, out := newTestCLI(t)
	ctx := context.Background()

	for _, args := range badArgs {
		out.Reset()
		if err := cli.run(ctx, args); !errors.Is(err, errHelp) {
			t.Fatalf("run(%q): got %v, want errHelp", args, err)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Fatalf("run(%q): no usage in %q", args, out.String())
		}
	}
}

func TestCommandLineSeedReportExport(t *testing.T) {
	cli, out := newTestCLI(t)
	ctx := context.Background()

	if err := cli.run(ctx, []string{"eduhub", "setup"}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := cli.run(ctx, []string{"eduhub", "seed", "-students", "6", "-courses", "3", "-enrollments", "5"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var seeded struct {
		Created map[string]int `json:"created"`
	}
	if err := json.Unmarshal(out.Bytes(), &seeded); err != nil {
		t.Fatalf("decode seed output: %v", err)
	}
	if c := seeded.Created; c["users"] != 6+5 || c["courses"] != 3 || c["enrollments"] != 5 {
		t.Fatalf("seed created: %v", c)
	}

	out.Reset()
	if err := cli.run(ctx, []string{"eduhub", "report", "enrollment"}); err != nil {
		t.Fatalf("report enrollment: %v", err)
	}
	var stats []map[string]any
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("decode enrollment report: %v", err)
	}
	var total float64
	for _, row := range stats {
		total += row["totalEnrollments"].(float64)
	}
	if total != 5 {
		t.Fatalf("totalEnrollments: got %v want 5", total)
	}

	out.Reset()
	if err := cli.run(ctx, []string{"eduhub", "report", "advanced"}); err != nil {
		t.Fatalf("report advanced: %v", err)
	}
	if !strings.Contains(out.String(), "monthlyTrend") {
		t.Fatalf("advanced report missing monthlyTrend: %s", out.String())
	}

	path := filepath.Join(t.TempDir(), "export.json")
	out.Reset()
	if err := cli.run(ctx, []string{"eduhub", "export", "-out", path}); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := export.ReadExport(path)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if u, e := len(f.Collections["users"]), len(f.Collections["enrollments"]); u != 11 || e != 5 {
		t.Fatalf("export: users=%d enrollments=%d", u, e)
	}
}
