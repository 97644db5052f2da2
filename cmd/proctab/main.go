// proctab boots a process table and prints its init process.
//
// Usage:
//
//	proctab [options]
//
// Options:
//
//	-config URL      YAML or TOML configuration
//	-boot LINE       boot line, for example "1:init 5:shell"
//	-capacity N      number of table slots
//	-snapshots URL   store a snapshot of the booted table under URL
//	-diff ID         with -snapshots, print the diff from snapshot ID
//	-trace FILE      write spans to FILE
//	-debug           debug logging and a full table listing
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/viant/proctab"
	"github.com/viant/proctab/internal/logger"
	"github.com/viant/proctab/service/report"
	"github.com/viant/proctab/tracing"
)

type options struct {
	configURL string
	bootLine  string
	capacity  int
	snapshots string
	diffID    string
	traceFile string
	debug     bool
}

func main() {
	opts := &options{}
	flag.StringVar(&opts.configURL, "config", "", "configuration URL (.yaml, .yml or .toml)")
	flag.StringVar(&opts.bootLine, "boot", "", "boot line, pid:name pairs separated by spaces")
	flag.IntVar(&opts.capacity, "capacity", 0, "number of table slots")
	flag.StringVar(&opts.snapshots, "snapshots", "", "snapshot storage URL")
	flag.StringVar(&opts.diffID, "diff", "", "snapshot id to diff the new snapshot against")
	flag.StringVar(&opts.traceFile, "trace", "", "span output file")
	flag.BoolVar(&opts.debug, "debug", false, "debug mode")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "proctab: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	config := proctab.DefaultConfig()
	if opts.configURL != "" {
		var err error
		if config, err = proctab.LoadConfig(ctx, opts.configURL); err != nil {
			return err
		}
	}
	if opts.bootLine != "" {
		config.Table.BootLine = opts.bootLine
	}
	if opts.capacity > 0 {
		config.Table.Capacity = opts.capacity
	}
	if opts.snapshots != "" {
		config.Snapshot.URL = opts.snapshots
	}
	if opts.traceFile != "" {
		config.Tracing.Enabled = true
		config.Tracing.Output = opts.traceFile
	}
	if opts.debug {
		config.Log.Debug = true
	}
	if opts.diffID != "" && config.Snapshot.URL == "" {
		return fmt.Errorf("-diff requires a snapshot URL")
	}

	srv, err := proctab.New(proctab.WithConfig(config), proctab.WithLogger(logger.New(os.Stderr)))
	if err != nil {
		return err
	}
	defer srv.Close()
	if config.Tracing.Enabled {
		defer func() { _ = tracing.Shutdown(context.Background()) }()
	}
	if err = srv.Boot(ctx); err != nil {
		return err
	}
	if err = srv.Report(stdout); err != nil {
		return err
	}
	if config.Log.Debug {
		if err = report.Table(os.Stderr, srv.Table()); err != nil {
			return err
		}
	}
	if config.Snapshot.URL == "" {
		return nil
	}
	snapshot, err := srv.Checkpoint(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "snapshot %s saved to %s\n", snapshot.ID, config.Snapshot.URL)
	if opts.diffID == "" {
		return nil
	}
	text, stats, err := srv.Diff(ctx, opts.diffID, snapshot.ID)
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, text)
	fmt.Fprintf(stdout, "%d added, %d removed\n", stats.Added, stats.Removed)
	return nil
}
