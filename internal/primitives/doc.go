// Package primitives provides the small building blocks shared by the
// coordinator, the reference router and the host lifecycle.
//
// Core pieces:
//   - Signal: a one-shot broadcast completion. Fires once, stays fired, and
//     late subscribers observe completion immediately.
//   - Event: an immutable lifecycle event value.
//   - Context: a concurrency-safe key/value bag used for guard and resolver data.
//
// This package uses only the Go standard library.
package primitives
