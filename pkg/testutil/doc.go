// Package testutil provides utilities for testing pluglink components.
//
// Key components:
//   - TestEnvironment: a project tree (installation root plus destination)
//     on either an in-memory or a real temporary filesystem
//   - Package helpers: declarative setup of installed packages and their
//     plugin descriptors
//   - Assertions for links, warnings and manifest content
//
// Usage guidelines:
//   - Discovery and manifest tests should use EnvMemoryOnly
//   - Anything that creates links needs EnvIsolated
//   - All test data should be defined inline, not in external files
package testutil
