package types

// PluginState describes how a plugin's destination entry relates to the manifest
type PluginState string

const (
	// StateLinked means a managed link resolves to the recorded package
	StateLinked PluginState = "linked"
	// StateCopied means a managed copy is present
	StateCopied PluginState = "copied"
	// StateMissing means the manifest tracks an entry that is gone from disk
	StateMissing PluginState = "missing"
	// StateStale means a managed link no longer resolves to its record
	StateStale PluginState = "stale"
	// StateForeign means an unmanaged entry blocks a desired plugin
	StateForeign PluginState = "foreign"
	// StatePending means the plugin is desired but not yet linked
	StatePending PluginState = "pending"
	// StateOrphaned means the plugin is managed but no longer provided by any package
	StateOrphaned PluginState = "orphaned"
)

// PluginStatus is one row of the status report
type PluginStatus struct {
	PluginName  string      `json:"pluginName" yaml:"pluginName"`
	PackageName string      `json:"packageName" yaml:"packageName"`
	TargetDir   string      `json:"targetDir" yaml:"targetDir"`
	Path        string      `json:"path" yaml:"path"`
	State       PluginState `json:"state" yaml:"state"`
	Managed     bool        `json:"managed" yaml:"managed"`
}
