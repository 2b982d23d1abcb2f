// Package main provides the tbuck CLI application.
//
// tbuck groups timestamped log lines into fixed-width time buckets and
// prints a count per bucket. Timestamps are located with a strftime
// pattern, and input comes from files or stdin.
package main

import (
	"flag"
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the main application logic.
func run(args []string) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	if opts.showVersion {
		fmt.Printf("tbuck %s\n", version)
		return nil
	}

	if opts.pattern == "" {
		return showUsage()
	}

	cmd := &bucketCommand{opts: opts}
	return cmd.Execute()
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	configPath  string
	showVersion bool

	granularity string
	matchIndex  int
	noFill      bool
	stream      bool
	descending  bool
	tolerant    bool
	follow      bool
	persist     bool
	format      string

	pattern string
	files   []string
}

// parseArgs parses flags and positional arguments.
//
// Flags left at their sentinel defaults ("" and -1) mean "not given"
// and are later filled from the configuration.
func parseArgs(args []string) (*cliOptions, error) {
	opts := &cliOptions{}

	fs := flag.NewFlagSet("tbuck", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to configuration file")
	fs.BoolVar(&opts.showVersion, "version", false, "show version information")
	fs.StringVar(&opts.granularity, "g", "", "bucket size, e.g. 30s, 5m, 1h (default: 1m)")
	fs.IntVar(&opts.matchIndex, "m", -1, "which timestamp match on a line to bucket by, 0-based (default: 0)")
	fs.BoolVar(&opts.noFill, "no-fill", false, "skip zero-count rows for empty buckets")
	fs.BoolVar(&opts.stream, "s", false, "stream rows as buckets close instead of after all input")
	fs.BoolVar(&opts.descending, "d", false, "expect input in descending timestamp order")
	fs.BoolVar(&opts.tolerant, "t", false, "discard out-of-order lines instead of failing (stream and follow modes)")
	fs.BoolVar(&opts.follow, "f", false, "keep watching input files for new lines")
	fs.BoolVar(&opts.persist, "persist", false, "persist follow-mode read offsets across runs")
	fs.StringVar(&opts.format, "format", "", "output format: csv, json, table (default: csv)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rest := fs.Args()
	if len(rest) > 0 {
		opts.pattern = rest[0]
		opts.files = rest[1:]
	}

	if opts.tolerant && !opts.stream && !opts.follow {
		return nil, fmt.Errorf("-t only applies to stream (-s) or follow (-f) mode")
	}
	if opts.follow && len(opts.files) == 0 {
		return nil, fmt.Errorf("-f requires input files, not stdin")
	}
	if opts.follow && opts.descending {
		return nil, fmt.Errorf("-f cannot be combined with -d: appended lines move forward in time")
	}
	if opts.persist && !opts.follow {
		return nil, fmt.Errorf("-persist only applies to follow (-f) mode")
	}

	return opts, nil
}

// showUsage displays usage information.
func showUsage() error {
	usage := `tbuck - bucket timestamped log lines and count them

Usage:
  tbuck [flags] <DATE_TIME_FORMAT> [INPUT_FILE...]

DATE_TIME_FORMAT is a strftime-style pattern locating the timestamp on
each line. Supported specifiers:
  %%Y %%m %%b %%B %%d %%F %%H %%I %%M %%S %%T %%P %%p %%s %%%%

With no INPUT_FILE, lines are read from stdin.

Flags:
  -g          Bucket size, e.g. 30s, 5m, 1h (default: 1m)
  -m          Which timestamp match on a line to bucket by, 0-based (default: 0)
  -no-fill    Skip zero-count rows for empty buckets
  -s          Stream rows as buckets close instead of after all input
  -d          Expect input in descending timestamp order
  -t          Discard out-of-order lines instead of failing (with -s or -f)
  -f          Keep watching input files for new lines (implies -s)
  -persist    Persist follow-mode read offsets across runs (with -f)
  -format     Output format: csv, json, table (default: csv)
  -config     Path to configuration file
  -version    Show version information

Examples:
  # Count requests per minute from an access log
  tbuck '%%d/%%b/%%Y:%%T' access.log

  # Five-minute buckets from stdin, skipping empty ones
  cat app.log | tbuck -g 5m -no-fill '%%F %%T'

  # Stream counts as each minute completes
  tail -f app.log | tbuck -s -t '%%F %%T'

  # Follow files and print buckets as they close
  tbuck -f '%%F %%T' app.log worker.log

  # Follow with offsets persisted, so a restart resumes where it left off
  tbuck -f -persist '%%F %%T' app.log

  # Bucket by the second timestamp on each line
  tbuck -m 1 '%%H:%%M:%%S' app.log

Version: %s
`

	fmt.Printf(usage, version)
	return nil
}
