// Package linker creates and removes the destination entries that expose a
// plugin to the host application.
//
// Three strategies exist behind the Operator interface:
//
//   - symlink: a standard symbolic link to the plugin directory
//   - junction: a Windows directory junction, created with mklink /J so no
//     elevated privileges are needed
//   - copy: a recursive copy that dereferences links in the source and
//     leaves out dependency installs and version control metadata
//
// Removal is the same for every strategy: the destination path is removed
// recursively, which removes links without following them.
package linker
