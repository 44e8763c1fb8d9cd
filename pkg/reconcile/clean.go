package reconcile

import (
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/manifest"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// Clean removes every managed entry from DestDir, applying the same safety
// rules as a sync whose desired set is empty. The manifest is deleted once
// nothing is left to track.
func (r *Reconciler) Clean(opts Options) *types.SyncResult {
	rn := r.start(opts)
	done := logging.LogOperationStart(rn.logger, "clean")
	defer done()

	manifestPath := rn.manifestPath()
	if !manifest.Exists(r.fs, manifestPath) {
		rn.result.OK = true
		return rn.result
	}

	rn.previous = manifest.Load(r.fs, manifestPath)
	for _, name := range sortedNames(rn.previous) {
		r.removeManaged(rn, rn.previous[name])
	}

	if !opts.DryRun {
		var err error
		if len(rn.next) == 0 {
			err = manifest.Remove(r.fs, manifestPath)
		} else {
			err = manifest.Save(r.fs, manifestPath, rn.next)
		}
		if err != nil {
			return rn.fail(err)
		}
	}

	rn.result.OK = true
	return rn.result
}
