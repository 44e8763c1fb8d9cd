// Package reconcile keeps a destination directory of plugin links in step
// with the plugins discovered under an installation root.
//
// Each run scans, diffs the result against the manifest of entries it
// created before, removes entries that are no longer wanted, creates the
// missing ones and rewrites the manifest once at the end. It never deletes
// or overwrites a path that the manifest does not claim. Failures of single
// entries become warnings; only failures that stop the whole run (the
// destination cannot be created, the manifest cannot be written) make the
// result not OK.
package reconcile
