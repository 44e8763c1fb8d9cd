package reconcile

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pluglink/pkg/discovery"
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/linker"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/manifest"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/rs/zerolog"
)

// Options describes one reconciliation run
type Options struct {
	// InstallRoot holds the package container (node_modules)
	InstallRoot string
	// DestDir receives one entry per plugin plus the manifest
	DestDir string
	// Mode picks between native links and copies
	Mode types.LinkMode
	// Manager names the manifest file, .<manager>_links.json
	Manager string
	// DryRun decides everything but changes nothing on disk
	DryRun bool
	// Force recreates managed entries even when they are up to date
	Force bool
}

// OperatorFactory returns the operator used for a link mode
type OperatorFactory func(mode types.LinkMode) linker.Operator

// Reconciler owns the manifest lifecycle of destination directories
type Reconciler struct {
	fs          types.FS
	scanner     *discovery.Scanner
	newOperator OperatorFactory
	logger      zerolog.Logger
}

// New creates a reconciler. A nil factory uses linker.New with defaults.
func New(fs types.FS, scanner *discovery.Scanner, factory OperatorFactory) *Reconciler {
	if factory == nil {
		factory = func(mode types.LinkMode) linker.Operator {
			return linker.New(fs, mode, linker.Options{})
		}
	}
	return &Reconciler{
		fs:          fs,
		scanner:     scanner,
		newOperator: factory,
		logger:      logging.GetLogger("reconcile"),
	}
}

// Sync runs a reconciliation with the OS filesystem and default discovery
// options.
func Sync(installRoot, destDir string, mode types.LinkMode) *types.SyncResult {
	fs := filesystem.NewOS()
	r := New(fs, discovery.NewScanner(fs, discovery.DefaultOptions()), nil)
	return r.Sync(Options{InstallRoot: installRoot, DestDir: destDir, Mode: mode})
}

// run carries the state of a single Sync or Clean call
type run struct {
	opts     Options
	op       linker.Operator
	previous map[string]types.LinkRecord
	next     map[string]types.LinkRecord
	result   *types.SyncResult
	logger   zerolog.Logger
}

func (r *Reconciler) start(opts Options) *run {
	op := r.newOperator(opts.Mode)
	if opts.DryRun {
		op = linker.NewDryRun(op)
	}

	result := types.NewSyncResult()
	result.DryRun = opts.DryRun
	result.Strategy = op.Strategy()

	return &run{
		opts:   opts,
		op:     op,
		next:   make(map[string]types.LinkRecord),
		result: result,
		logger: r.logger.With().
			Str("dest", opts.DestDir).
			Str("strategy", string(op.Strategy())).
			Bool("dryRun", opts.DryRun).
			Logger(),
	}
}

func (rn *run) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	rn.logger.Warn().Msg(msg)
	rn.result.Warnings = append(rn.result.Warnings, msg)
}

func (rn *run) fail(err error) *types.SyncResult {
	rn.logger.Error().Err(err).Msg("Reconciliation failed")
	rn.result.OK = false
	rn.result.Error = err.Error()
	return rn.result
}

func (rn *run) manifestPath() string {
	return manifest.Path(rn.opts.DestDir, rn.opts.Manager)
}

// Sync brings DestDir in line with the plugins found under InstallRoot
func (r *Reconciler) Sync(opts Options) *types.SyncResult {
	rn := r.start(opts)
	done := logging.LogOperationStart(rn.logger, "sync")
	defer done()

	discovered := r.scanner.Scan(opts.InstallRoot)
	manifestPath := rn.manifestPath()

	if len(discovered) == 0 && !manifest.Exists(r.fs, manifestPath) {
		rn.logger.Debug().Msg("Nothing discovered and nothing managed")
		rn.result.OK = true
		return rn.result
	}

	if !opts.DryRun {
		if err := r.fs.MkdirAll(opts.DestDir, 0755); err != nil {
			return rn.fail(errors.Wrapf(err, errors.ErrDestCreate, "cannot create destination %s", opts.DestDir))
		}
	}

	rn.previous = manifest.Load(r.fs, manifestPath)

	desired, order := rn.buildDesired(discovered)
	rn.logger.Debug().
		Int("discovered", len(discovered)).
		Int("desired", len(desired)).
		Int("managed", len(rn.previous)).
		Msg("Computed desired set")

	for _, name := range sortedNames(rn.previous) {
		if _, want := desired[name]; want {
			continue
		}
		r.removeManaged(rn, rn.previous[name])
	}

	for _, name := range order {
		r.link(rn, desired[name])
	}

	if !opts.DryRun {
		if err := manifest.Save(r.fs, manifestPath, rn.next); err != nil {
			return rn.fail(err)
		}
	}

	rn.result.OK = true
	rn.logger.Info().
		Int("linked", len(rn.result.Linked)).
		Int("removed", len(rn.result.Removed)).
		Int("unchanged", len(rn.result.Unchanged)).
		Int("warnings", len(rn.result.Warnings)).
		Msg("Sync finished")
	return rn.result
}

// buildDesired keys discovered records by plugin name. Discovery output is
// ordered by package name, so the first record seen for a name comes from
// the lexicographically smallest package.
func (rn *run) buildDesired(discovered []types.LinkRecord) (map[string]types.LinkRecord, []string) {
	desired := make(map[string]types.LinkRecord, len(discovered))
	order := make([]string, 0, len(discovered))

	for _, rec := range discovered {
		kept, dup := desired[rec.PluginName]
		if !dup {
			desired[rec.PluginName] = rec
			order = append(order, rec.PluginName)
			continue
		}
		rn.warn("plugin %q is provided by both %s and %s; keeping %s, dropped package %s",
			rec.PluginName, kept.PackageName, rec.PackageName, kept.PackageName, rec.PackageName)
	}
	return desired, order
}

// removeManaged drops a managed entry that is no longer desired. A path that
// is not a link is presumed foreign outside copy mode: the entry is
// forgotten but the content stays.
func (r *Reconciler) removeManaged(rn *run, rec types.LinkRecord) {
	path := filepath.Join(rn.opts.DestDir, rec.PluginName)

	if !filesystem.Exists(r.fs, path) {
		rn.logger.Debug().Str("plugin", rec.PluginName).Msg("Managed entry already gone")
		rn.result.Removed = append(rn.result.Removed, rec)
		return
	}

	if !filesystem.IsLink(r.fs, path) && rn.opts.Mode != types.LinkModeCopy {
		rn.warn("%s: %s is not a link; leaving it in place and no longer tracking it", rec.PluginName, path)
		return
	}

	if err := rn.op.Remove(path); err != nil {
		rn.warn("%s: failed to remove %s: %v", rec.PluginName, path, err)
		rn.next[rec.PluginName] = rec
		return
	}

	rn.logger.Info().Str("plugin", rec.PluginName).Str("path", path).Msg("Removed stale plugin entry")
	rn.result.Removed = append(rn.result.Removed, rec)
}

func (r *Reconciler) link(rn *run, want types.LinkRecord) {
	path := filepath.Join(rn.opts.DestDir, want.PluginName)
	prev, managed := rn.previous[want.PluginName]

	if filesystem.Exists(r.fs, path) {
		if !managed {
			rn.warn("%s: path exists, not managed; skipping %s", want.PluginName, path)
			return
		}

		if !rn.opts.Force && r.upToDate(path, prev, want, rn.op.Strategy()) {
			rn.next[want.PluginName] = want
			rn.result.Unchanged = append(rn.result.Unchanged, want)
			return
		}

		if err := rn.op.Remove(path); err != nil {
			rn.warn("%s: failed to replace %s: %v", want.PluginName, path, err)
			rn.next[want.PluginName] = prev
			return
		}
	}

	if err := rn.op.Create(path, want.TargetDir); err != nil {
		rn.warn("%s: failed to link %s: %v", want.PluginName, path, err)
		return
	}

	rn.logger.Info().
		Str("plugin", want.PluginName).
		Str("package", want.PackageName).
		Str("path", path).
		Msg("Linked plugin")
	rn.next[want.PluginName] = want
	rn.result.Linked = append(rn.result.Linked, want)
}

// upToDate reports whether an existing managed entry already matches want
// for the strategy in use.
func (r *Reconciler) upToDate(path string, prev, want types.LinkRecord, strategy types.LinkStrategy) bool {
	if prev != want {
		return false
	}
	if strategy.IsLink() {
		return filesystem.IsLink(r.fs, path) && filesystem.PointsTo(r.fs, path, want.TargetDir)
	}
	return !filesystem.IsLink(r.fs, path) && filesystem.IsDir(r.fs, path)
}

func sortedNames(records map[string]types.LinkRecord) []string {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
