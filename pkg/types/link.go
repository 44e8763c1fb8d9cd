package types

import (
	"path/filepath"
	"strings"
)

// LinkRecord is one plugin unit sourced from one installed package.
// TargetDir is the package's own location, not the link destination.
type LinkRecord struct {
	PluginName  string `json:"pluginName" yaml:"pluginName"`
	PackageName string `json:"packageName" yaml:"packageName"`
	TargetDir   string `json:"targetDir" yaml:"targetDir"`
}

// Valid reports whether every field of the record is populated and the
// plugin name stays inside the destination directory
func (r LinkRecord) Valid() bool {
	return ValidPluginName(r.PluginName) &&
		strings.TrimSpace(r.PackageName) != "" &&
		strings.TrimSpace(r.TargetDir) != ""
}

// ValidPluginName reports whether name is usable as a single entry of the
// destination directory: non-blank, not "." or "..", and free of separators.
func ValidPluginName(name string) bool {
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}

// SyncResult is produced fresh by every reconciliation run.
// OK is true once the run reaches its end; per-item failures are Warnings.
type SyncResult struct {
	OK        bool         `json:"ok" yaml:"ok"`
	DryRun    bool         `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Strategy  LinkStrategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Linked    []LinkRecord `json:"linked" yaml:"linked"`
	Removed   []LinkRecord `json:"removed" yaml:"removed"`
	Unchanged []LinkRecord `json:"unchanged" yaml:"unchanged"`
	Warnings  []string     `json:"warnings" yaml:"warnings"`
	Error     string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSyncResult returns a result with empty, non-nil collections
func NewSyncResult() *SyncResult {
	return &SyncResult{
		Linked:    []LinkRecord{},
		Removed:   []LinkRecord{},
		Unchanged: []LinkRecord{},
		Warnings:  []string{},
	}
}

// HasChanges reports whether the run linked or removed anything
func (r *SyncResult) HasChanges() bool {
	return len(r.Linked) > 0 || len(r.Removed) > 0
}
