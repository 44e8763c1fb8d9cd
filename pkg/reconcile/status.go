package reconcile

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/manifest"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// Status reports, without changing anything, how every discovered or
// managed plugin currently stands in DestDir. Rows are sorted by plugin name.
func (r *Reconciler) Status(opts Options) []types.PluginStatus {
	rn := r.start(Options{
		InstallRoot: opts.InstallRoot,
		DestDir:     opts.DestDir,
		Mode:        opts.Mode,
		Manager:     opts.Manager,
		DryRun:      true,
	})

	managed := manifest.Load(r.fs, rn.manifestPath())
	desired, _ := rn.buildDesired(r.scanner.Scan(opts.InstallRoot))

	names := make(map[string]bool, len(managed)+len(desired))
	for name := range managed {
		names[name] = true
	}
	for name := range desired {
		names[name] = true
	}

	rows := make([]types.PluginStatus, 0, len(names))
	for name := range names {
		rows = append(rows, r.statusOf(opts.DestDir, name, managed, desired))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PluginName < rows[j].PluginName
	})
	return rows
}

func (r *Reconciler) statusOf(destDir, name string, managed, desired map[string]types.LinkRecord) types.PluginStatus {
	rec, isManaged := managed[name]
	want, isDesired := desired[name]
	if isDesired {
		rec = want
	}

	path := filepath.Join(destDir, name)
	row := types.PluginStatus{
		PluginName:  rec.PluginName,
		PackageName: rec.PackageName,
		TargetDir:   rec.TargetDir,
		Path:        path,
		Managed:     isManaged,
	}

	exists := filesystem.Exists(r.fs, path)
	switch {
	case !isManaged && exists:
		row.State = types.StateForeign
	case !isManaged:
		row.State = types.StatePending
	case !isDesired:
		row.State = types.StateOrphaned
	case !exists:
		row.State = types.StateMissing
	case filesystem.IsLink(r.fs, path):
		if filesystem.PointsTo(r.fs, path, rec.TargetDir) {
			row.State = types.StateLinked
		} else {
			row.State = types.StateStale
		}
	case filesystem.IsDir(r.fs, path):
		row.State = types.StateCopied
	default:
		row.State = types.StateStale
	}
	return row
}
