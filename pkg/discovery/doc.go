// Package discovery finds installed dependency packages that ship plugin
// units and reports one candidate LinkRecord per plugin descriptor.
//
// A package is searched with a layered strategy, stopping at the first
// layer that finds anything:
//
//  1. descriptors directly in the package root
//  2. descriptors in the conventional plugin folder and its immediate
//     subdirectories
//  3. a bounded breadth-first descent of the whole package, skipping
//     dependency installs and version control metadata
//
// The scan is best effort. Directories that cannot be read are treated as
// holding no plugins. Duplicates across packages are kept; resolving them
// is the reconciler's job.
package discovery
