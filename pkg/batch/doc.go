// Package batch evaluates a directory of vending machine records.
//
// A Runner lists the inputs of a stores.Store, evaluates each record with an
// inventory.Evaluator on a bounded worker pool, and writes one report per
// record. Every input is evaluated against its own inventory; workers share
// nothing but the store and the telemetry sinks.
//
// Each input is read, decoded, evaluated and written. Evaluation always
// yields a report, so only three stages can fail:
//
//	read -> decode -> write
//
// A failure yields a *FileError naming the stage. The input is logged,
// counted and skipped while the rest of the batch continues.
//
//	runner := batch.NewRunner(store,
//	    batch.WithWorkers(8),
//	    batch.WithTelemetry(tel),
//	)
//	summary, err := runner.Run(ctx)
package batch
