// Package proctab provides a bounded process table with a distinguished init
// process, together with the plumbing a host needs around it: configuration,
// logging, tracing, change events and snapshot persistence.
//
// The table itself lives in model/proc and can be used on its own. The
// Service façade exposed by this package boots a table from configuration:
//
//	config := proctab.DefaultConfig()
//	config.Table.BootLine = "1:init 5:shell"
//	srv, _ := proctab.New(proctab.WithConfig(config))
//	_ = srv.Boot(ctx)
//	_ = srv.Report(os.Stdout) // Process ID: 1, Name: init
//
// For more details see the individual sub-packages.
package proctab
