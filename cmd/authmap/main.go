// Command authmap classifies HTTP history exported from an intercepting proxy
// into authentication-flow events and prints them as a JSON array.
//
// Usage:
//
//	authmap [-minutes M | -hours H] file1.txt [file2.txt ...]
//	authmap -all file1.txt [file2.txt ...]
//
// The JSON report goes to stdout; the cutoff, warnings and a summary go to stderr.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/usestring/authmap/internal/config"
	"github.com/usestring/authmap/internal/logging"
	"github.com/usestring/authmap/internal/pipeline"
	"github.com/usestring/authmap/internal/report"
	"github.com/usestring/authmap/internal/schema"
	"github.com/usestring/authmap/internal/window"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

type options struct {
	window     window.Options
	validate   bool
	printSchema bool
	files      []string
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("authmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.window.Minutes, "minutes", 0, "filter to the last N minutes")
	fs.IntVar(&opts.window.Minutes, "m", 0, "shorthand for -minutes")
	fs.IntVar(&opts.window.Hours, "hours", 0, "filter to the last N hours")
	fs.IntVar(&opts.window.Hours, "H", 0, "shorthand for -hours")
	fs.BoolVar(&opts.window.All, "all", false, "process all items (no time filter)")
	fs.BoolVar(&opts.window.All, "a", false, "shorthand for -all")
	fs.BoolVar(&opts.validate, "validate", false, "validate the report against its JSON Schema before printing")
	fs.BoolVar(&opts.printSchema, "schema", false, "print the report JSON Schema and exit")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: authmap [-minutes M | -hours H | -all] file [file ...]")
		fs.PrintDefaults()
	}

	// Flags may follow positional files.
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		opts.files = append(opts.files, args[0])
		args = args[1:]
	}

	if len(opts.files) == 0 && !opts.printSchema {
		fs.Usage()
		return nil, fmt.Errorf("at least one input file is required")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	cfg := config.Load()

	cleanup, err := logging.SetupWriter(cfg.Logging(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to set up logging: %v\n", err)
		return 1
	}
	defer cleanup()

	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if opts.printSchema {
		data, err := schema.EventsJSON()
		if err != nil {
			slog.Error("failed to render schema", "error", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	var reportOpts []report.Option
	if opts.validate || cfg.ValidateOutput {
		v, err := schema.NewEventsValidator()
		if err != nil {
			slog.Error("failed to compile report schema", "error", err)
			return 1
		}
		reportOpts = append(reportOpts, report.WithValidator(v))
	}
	rep := report.New(stdout, stderr, reportOpts...)

	cutoff := window.Cutoff(opts.window, now())
	rep.Cutoff(cutoff)

	p := pipeline.New(cutoff, pipeline.WithClock(now))
	events := p.Run(opts.files)

	st := p.Stats()
	slog.Debug("pipeline finished",
		"files", st.Files,
		"files_failed", st.FilesFailed,
		"pairs", st.Pairs,
		"too_old", st.TooOld,
		"malformed", st.Malformed,
		"duplicates", st.Duplicates,
		"events", st.Events,
	)

	if err := rep.Write(events); err != nil {
		slog.Error("failed to write report", "error", err)
		return 1
	}
	return 0
}
