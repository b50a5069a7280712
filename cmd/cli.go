package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/yungbote/eduhub-backend/internal/data/repos"
	"github.com/yungbote/eduhub-backend/internal/export"
	"github.com/yungbote/eduhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/eduhub-backend/internal/platform/logger"
	"github.com/yungbote/eduhub-backend/internal/sampledata"
	"github.com/yungbote/eduhub-backend/internal/services"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	log         *logger.Logger
	svc         *services.Services
	collections repos.CollectionManager
	counts      services.PopulateCounts
	seed        uint64
	out         io.Writer
}

var reportKinds = map[string]bool{
	"enrollment":  true,
	"performance": true,
	"instructors": true,
	"advanced":    true,
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  setup                                       - create collections, validators, indexes and sync ID counters")
	fmt.Fprintln(w, "  seed [-students N ... -submissions N -seed S] - populate sample data")
	fmt.Fprintln(w, "  report enrollment|performance|instructors|advanced - print a report as JSON")
	fmt.Fprintln(w, "  export -out FILE                            - write every collection to one JSON file")
}

// checkArgs validates the command and report kind without touching any
// store. On failure it prints usage to w and returns errHelp.
func checkArgs(args []string, w io.Writer) error {
	if len(args) >= 2 {
		switch args[1] {
		case "setup", "seed", "export":
			return nil
		case "report":
			if len(args) >= 3 && reportKinds[args[2]] {
				return nil
			}
		}
	}
	printUsage(w)
	return errHelp
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if err := checkArgs(args, cli.out); err != nil {
		return err
	}

	ctx = ctxutil.WithRunData(ctx, &ctxutil.RunData{RunID: uuid.NewString(), Command: args[1]})

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	counts := cli.counts
	seedCmd.IntVar(&counts.Students, "students", counts.Students, "students to create")
	seedCmd.IntVar(&counts.Instructors, "instructors", counts.Instructors, "instructors to create")
	seedCmd.IntVar(&counts.Courses, "courses", counts.Courses, "courses to create")
	seedCmd.IntVar(&counts.Lessons, "lessons", counts.Lessons, "lessons to create, spread over the courses")
	seedCmd.IntVar(&counts.Assignments, "assignments", counts.Assignments, "assignments to create, spread over the courses")
	seedCmd.IntVar(&counts.Enrollments, "enrollments", counts.Enrollments, "enrollments to create")
	seedCmd.IntVar(&counts.Submissions, "submissions", counts.Submissions, "submissions to create")
	seed := seedCmd.Uint64("seed", cli.seed, "random seed; 0 picks one")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportOut := exportCmd.String("out", "eduhub_export.json", "destination file")

	switch args[1] {
	case "setup":
		return cli.svc.Setup.Run(ctx)
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.populate(ctx, counts, *seed)
	case "report":
		return cli.report(ctx, args[2])
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		f, err := export.Export(ctx, cli.collections, *exportOut, cli.log)
		if err != nil {
			return err
		}
		summary := map[string]any{"exportId": f.ExportID, "path": *exportOut}
		for name, docs := range f.Collections {
			summary[name] = len(docs)
		}
		return cli.printJSON(summary)
	default:
		printUsage(cli.out)
		return errHelp
	}
}

func (cli *commandLine) populate(ctx context.Context, counts services.PopulateCounts, seed uint64) error {
	content, err := sampledata.LoadContent()
	if err != nil {
		return err
	}
	if err := cli.svc.Setup.Run(ctx); err != nil {
		return err
	}
	res, err := cli.svc.Populate(ctx, sampledata.New(content, seed), counts)
	if err != nil {
		return err
	}
	return cli.printJSON(map[string]any{"created": res.Counts(), "graded": res.Graded})
}

func (cli *commandLine) report(ctx context.Context, kind string) error {
	var (
		v   any
		err error
	)
	switch kind {
	case "enrollment":
		v, err = cli.svc.Reports.EnrollmentStatistics(ctx)
	case "performance":
		v, err = cli.svc.Reports.StudentPerformance(ctx)
	case "instructors":
		v, err = cli.svc.Reports.InstructorAnalytics(ctx)
	case "advanced":
		v, err = cli.svc.Reports.AdvancedAnalytics(ctx)
	default:
		printUsage(cli.out)
		return errHelp
	}
	if err != nil {
		return err
	}
	return cli.printJSON(v)
}

func (cli *commandLine) printJSON(v any) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
