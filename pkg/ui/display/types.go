// Package display holds the reports renderers know how to show.
package display

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// SyncReport is the outcome of a sync or clean command
type SyncReport struct {
	Command string            `json:"command" yaml:"command"`
	Dest    string            `json:"dest" yaml:"dest"`
	Result  *types.SyncResult `json:"result" yaml:"result"`
}

// ListReport lists the plugins recorded in a manifest
type ListReport struct {
	Dest  string             `json:"dest" yaml:"dest"`
	Links []types.LinkRecord `json:"links" yaml:"links"`
}

// StatusReport is the per-plugin view of a destination
type StatusReport struct {
	Dest string               `json:"dest" yaml:"dest"`
	Rows []types.PluginStatus `json:"plugins" yaml:"plugins"`
}

// ErrorReport is the machine-readable form of a failed command
type ErrorReport struct {
	Error   string                 `json:"error" yaml:"error"`
	Code    errors.ErrorCode       `json:"code,omitempty" yaml:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewErrorReport extracts code and details when err carries them
func NewErrorReport(err error) ErrorReport {
	report := ErrorReport{Error: err.Error()}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		report.Code = code
		if details := errors.GetErrorDetails(err); len(details) > 0 {
			report.Details = details
		}
	}
	return report
}

// Summary returns "2 linked, 1 removed, 3 unchanged, 1 warning" style text
func (r SyncReport) Summary() string {
	res := r.Result
	if res == nil {
		return ""
	}
	parts := []string{
		fmt.Sprintf("%d linked", len(res.Linked)),
		fmt.Sprintf("%d removed", len(res.Removed)),
		fmt.Sprintf("%d unchanged", len(res.Unchanged)),
	}
	if n := len(res.Warnings); n > 0 {
		parts = append(parts, plural(n, "warning"))
	}
	return strings.Join(parts, ", ")
}

// Counts returns how many rows are in each state
func (r StatusReport) Counts() map[types.PluginState]int {
	counts := make(map[types.PluginState]int)
	for _, row := range r.Rows {
		counts[row.State]++
	}
	return counts
}

// Summary lists state counts in a fixed order, skipping empty states
func (r StatusReport) Summary() string {
	counts := r.Counts()
	var parts []string
	for _, state := range StateOrder {
		if n := counts[state]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, state))
		}
	}
	if len(parts) == 0 {
		return "no plugins"
	}
	return strings.Join(parts, ", ")
}

// StateOrder is the order states are summarised in
var StateOrder = []types.PluginState{
	types.StateLinked,
	types.StateCopied,
	types.StatePending,
	types.StateMissing,
	types.StateStale,
	types.StateOrphaned,
	types.StateForeign,
}

// Title returns the heading for a sync report
func (r SyncReport) Title() string {
	if r.Command == "" {
		return ""
	}
	title := strings.ToUpper(r.Command[:1]) + r.Command[1:]
	if r.Result != nil && r.Result.DryRun {
		title += " (dry run)"
	}
	return title
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
