// Package types defines the core types and interfaces used throughout pluglink.
// This includes the FS abstraction as well as data structures like
// LinkRecord, SyncResult and PluginStatus.
package types
