// Package telemetry provides the logger and the prometheus collectors used to
// observe storage operations.
//
// A Recorder wraps each facade operation:
//
//	done := recorder.Start(telemetry.ComponentEntity, "update", "Products")
//	err := store.Replace(ctx, "Products", rec)
//	done(err)
//
// Outcomes are labelled with errors.Kind, e.g. ok, concurrency_conflict or
// backend_unavailable.
package telemetry
