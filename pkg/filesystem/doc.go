// Package filesystem provides filesystem implementations for pluglink.
//
// This package contains implementations of the types.FS interface,
// the standard OS filesystem and an afero-backed one used by tests, plus
// the existence and link probes the reconciler relies on. Probes never
// return errors: a path that cannot be inspected is reported as absent.
package filesystem
