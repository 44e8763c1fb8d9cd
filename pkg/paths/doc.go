// Package paths provides centralized path handling for pluglink.
// It resolves the project root, the plugin destination and the manifest
// location, and the XDG directories used for user config and logs.
package paths
