// pkg/reconcile/reconcile_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dir), symlinks
// PURPOSE: Test the scan-diff-apply-persist cycle and its safety rules

package reconcile_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pluglink/pkg/discovery"
	"github.com/arthur-debert/pluglink/pkg/linker"
	"github.com/arthur-debert/pluglink/pkg/reconcile"
	"github.com/arthur-debert/pluglink/pkg/testutil"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyOperator fails Create or Remove for selected destination names
type flakyOperator struct {
	linker.Operator
	failCreate map[string]bool
	failRemove map[string]bool
}

func (f *flakyOperator) Create(dest, source string) error {
	if f.failCreate[filepath.Base(dest)] {
		return stderrors.New("create refused")
	}
	return f.Operator.Create(dest, source)
}

func (f *flakyOperator) Remove(dest string) error {
	if f.failRemove[filepath.Base(dest)] {
		return stderrors.New("remove refused")
	}
	return f.Operator.Remove(dest)
}

func newReconciler(env *testutil.TestEnvironment, factory reconcile.OperatorFactory) *reconcile.Reconciler {
	return reconcile.New(env.FS, discovery.NewScanner(env.FS, discovery.DefaultOptions()), factory)
}

func options(env *testutil.TestEnvironment, mode types.LinkMode) reconcile.Options {
	return reconcile.Options{
		InstallRoot: env.ProjectRoot,
		DestDir:     env.DestDir,
		Mode:        mode,
		Manager:     testutil.TestManager,
	}
}

func setup(t *testing.T) (*testutil.TestEnvironment, *reconcile.Reconciler) {
	t.Helper()
	testutil.RequireSymlinks(t)
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	return env, newReconciler(env, nil)
}

func TestSync_LinksDiscoveredPlugin(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin", "package.json")
	env.AddPackage("pkg-b", "package.json", "lib/index.js")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK, result.Error)
	foo := env.Record("Foo", "pkg-a")
	assert.Equal(t, []types.LinkRecord{foo}, result.Linked)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, types.StrategySymlink, result.Strategy)

	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("pkg-a"))
	assert.FileExists(t, filepath.Join(env.DestDir, ".manager_links.json"))
	assert.Equal(t, map[string]types.LinkRecord{"Foo": foo}, env.ReadManifest())
}

func TestSync_RemovesUninstalledPackage(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.AddPackage("pkg-b", "package.json")
	first := r.Sync(options(env, types.LinkModeAuto))
	require.True(t, first.OK)

	env.RemovePackage("pkg-a")
	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK, result.Error)
	assert.Empty(t, result.Linked)
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "pkg-a")}, result.Removed)
	assert.Empty(t, result.Warnings)
	_, err := os.Lstat(env.DestPath("Foo"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, env.ReadManifest())
}

func TestSync_Idempotent(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.AddPackage("@scope/pkg-b", "Plugins/Bar/Bar.uplugin")

	first := r.Sync(options(env, types.LinkModeAuto))
	require.True(t, first.OK)
	require.Len(t, first.Linked, 2)
	before, err := os.ReadFile(env.ManifestPath())
	require.NoError(t, err)

	second := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, second.OK)
	assert.Empty(t, second.Linked)
	assert.Empty(t, second.Removed)
	assert.Empty(t, second.Warnings)
	assert.Len(t, second.Unchanged, 2)
	after, err := os.ReadFile(env.ManifestPath())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestSync_NeverTouchesForeignPath(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.WriteFile(filepath.Join(env.DestPath("Foo"), "mine.txt"), "user content")
	env.WriteFile(env.DestPath("Bar"), "a file")
	env.AddPackage("pkg-b", "Bar.uplugin")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Empty(t, result.Linked)
	assert.Empty(t, result.Removed)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "path exists, not managed")
	testutil.AssertWarningContains(t, result.Warnings, "Bar", "path exists, not managed")

	testutil.AssertRealDir(t, env.FS, env.DestPath("Foo"))
	assert.FileExists(t, filepath.Join(env.DestPath("Foo"), "mine.txt"))
	assert.Empty(t, env.ReadManifest())
}

func TestSync_NeverTouchesForeignPathInCopyMode(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.WriteFile(filepath.Join(env.DestPath("Foo"), "mine.txt"), "user content")

	result := r.Sync(options(env, types.LinkModeCopy))

	require.True(t, result.OK)
	assert.Empty(t, result.Linked)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "not managed")
	assert.NoFileExists(t, filepath.Join(env.DestPath("Foo"), "Foo.uplugin"))
}

func TestSync_ManifestEntryOutsideDestinationIsIgnored(t *testing.T) {
	tests := []struct {
		name string
		mode types.LinkMode
	}{
		{"copy", types.LinkModeCopy},
		{"auto", types.LinkModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, r := setup(t)
			env.AddPackage("pkg-a", "Foo.uplugin")
			outside := filepath.Join(filepath.Dir(env.DestDir), "victim")
			env.WriteFile(filepath.Join(outside, "keep.txt"), "keep")
			sibling := filepath.Join(filepath.Dir(env.DestDir), "victim-link")
			require.NoError(t, os.Symlink(env.PackageDir("pkg-a"), sibling))
			env.WriteManifest(
				types.LinkRecord{PluginName: "../victim", PackageName: "pkg-v", TargetDir: env.PackageDir("pkg-v")},
				types.LinkRecord{PluginName: "../victim-link", PackageName: "pkg-v", TargetDir: env.PackageDir("pkg-a")},
			)

			result := r.Sync(options(env, tt.mode))

			require.True(t, result.OK, result.Error)
			assert.Empty(t, result.Removed)
			assert.FileExists(t, filepath.Join(outside, "keep.txt"))
			_, err := os.Lstat(sibling)
			assert.NoError(t, err)
			assert.Equal(t, []string{"Foo"}, keys(env.ReadManifest()))

			cleaned := r.Clean(options(env, tt.mode))
			require.True(t, cleaned.OK, cleaned.Error)
			assert.FileExists(t, filepath.Join(outside, "keep.txt"))
		})
	}
}

func TestSync_CollisionKeepsLexicographicallyFirstPackage(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("zz-fork", "Foo.uplugin")
	env.AddPackage("aa-original", "Foo.uplugin")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "aa-original")}, result.Linked)
	require.Len(t, result.Warnings, 1)
	testutil.AssertWarningContains(t, result.Warnings, `"Foo"`, "dropped package zz-fork")
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("aa-original"))
}

func TestSync_ModeSwitch(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin", "Source/Foo.cpp", "node_modules/dep/index.js")

	first := r.Sync(options(env, types.LinkModeAuto))
	require.True(t, first.OK)
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("pkg-a"))

	copied := r.Sync(options(env, types.LinkModeCopy))
	require.True(t, copied.OK, copied.Error)
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "pkg-a")}, copied.Linked)
	assert.Equal(t, types.StrategyCopy, copied.Strategy)
	testutil.AssertRealDir(t, env.FS, env.DestPath("Foo"))
	assert.FileExists(t, filepath.Join(env.DestPath("Foo"), "Source", "Foo.cpp"))
	assert.NoDirExists(t, filepath.Join(env.DestPath("Foo"), "node_modules"))
	assert.FileExists(t, filepath.Join(env.PackageDir("pkg-a"), "Foo.uplugin"), "source must survive link removal")
	assert.Equal(t, env.Record("Foo", "pkg-a"), env.ReadManifest()["Foo"])

	again := r.Sync(options(env, types.LinkModeCopy))
	assert.Empty(t, again.Linked)
	assert.Len(t, again.Unchanged, 1)

	back := r.Sync(options(env, types.LinkModeAuto))
	require.True(t, back.OK)
	assert.Len(t, back.Linked, 1)
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("pkg-a"))
}

func TestSync_ShortCircuitsWhenNothingToDo(t *testing.T) {
	env, r := setup(t)

	result := r.Sync(options(env, types.LinkModeAuto))

	assert.True(t, result.OK)
	assert.Empty(t, result.Linked)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Warnings)
	assert.NoDirExists(t, env.DestDir, "destination must not be created")
}

func TestSync_EmptyDiscoveryWithManifestStillCleansUp(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	require.True(t, r.Sync(options(env, types.LinkModeAuto)).OK)

	require.NoError(t, os.RemoveAll(filepath.Join(env.ProjectRoot, "node_modules")))
	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Len(t, result.Removed, 1)
	assert.FileExists(t, env.ManifestPath())
	assert.Empty(t, env.ReadManifest())
}

func TestSync_ManagedButNotALinkIsForgottenNotDeleted(t *testing.T) {
	env, r := setup(t)
	foo := env.Record("Foo", "pkg-a")
	env.WriteManifest(foo)
	env.WriteFile(filepath.Join(env.DestPath("Foo"), "data.txt"), "x")
	env.AddPackage("pkg-b", "Bar.uplugin")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Empty(t, result.Removed)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "not a link")
	assert.FileExists(t, filepath.Join(env.DestPath("Foo"), "data.txt"))
	_, tracked := env.ReadManifest()["Foo"]
	assert.False(t, tracked)
}

func TestSync_CopyModeRemovesManagedCopies(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	require.True(t, r.Sync(options(env, types.LinkModeCopy)).OK)
	testutil.AssertRealDir(t, env.FS, env.DestPath("Foo"))

	env.RemovePackage("pkg-a")
	result := r.Sync(options(env, types.LinkModeCopy))

	require.True(t, result.OK)
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "pkg-a")}, result.Removed)
	assert.NoDirExists(t, env.DestPath("Foo"))
}

func TestSync_MissingManagedEntryIsDroppedSilently(t *testing.T) {
	env, r := setup(t)
	env.WriteManifest(env.Record("Ghost", "gone"))
	env.AddPackage("pkg-a", "Foo.uplugin")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Equal(t, []types.LinkRecord{env.Record("Ghost", "gone")}, result.Removed)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{"Foo"}, keys(env.ReadManifest()))
}

func TestSync_RemovalFailureKeepsManifestEntry(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	testutil.RequireSymlinks(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.AddPackage("pkg-b", "Bar.uplugin")
	require.True(t, newReconciler(env, nil).Sync(options(env, types.LinkModeAuto)).OK)

	r := newReconciler(env, func(mode types.LinkMode) linker.Operator {
		return &flakyOperator{Operator: linker.New(env.FS, mode, linker.Options{}), failRemove: map[string]bool{"Foo": true}}
	})
	env.RemovePackage("pkg-a")
	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Empty(t, result.Removed)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "remove refused")
	assert.ElementsMatch(t, []string{"Foo", "Bar"}, keys(env.ReadManifest()))
}

func TestSync_LinkFailureIsRetriedNextRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	testutil.RequireSymlinks(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.AddPackage("pkg-b", "Bar.uplugin")

	flaky := newReconciler(env, func(mode types.LinkMode) linker.Operator {
		return &flakyOperator{Operator: linker.New(env.FS, mode, linker.Options{}), failCreate: map[string]bool{"Foo": true}}
	})
	result := flaky.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK, "single link failures are not fatal")
	assert.Equal(t, []types.LinkRecord{env.Record("Bar", "pkg-b")}, result.Linked)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "create refused")
	assert.Equal(t, []string{"Bar"}, keys(env.ReadManifest()))

	retry := newReconciler(env, nil).Sync(options(env, types.LinkModeAuto))
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "pkg-a")}, retry.Linked)
	assert.ElementsMatch(t, []string{"Foo", "Bar"}, keys(env.ReadManifest()))
}

func TestSync_ReplaceFailureKeepsPreviousRecord(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	testutil.RequireSymlinks(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	require.True(t, newReconciler(env, nil).Sync(options(env, types.LinkModeAuto)).OK)

	r := newReconciler(env, func(mode types.LinkMode) linker.Operator {
		return &flakyOperator{Operator: linker.New(env.FS, mode, linker.Options{}), failRemove: map[string]bool{"Foo": true}}
	})
	result := r.Sync(options(env, types.LinkModeCopy))

	require.True(t, result.OK)
	assert.Empty(t, result.Linked)
	testutil.AssertWarningContains(t, result.Warnings, "Foo", "failed to replace")
	assert.Equal(t, env.Record("Foo", "pkg-a"), env.ReadManifest()["Foo"])
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("pkg-a"))
}

func TestSync_RelinksWhenPluginMoves(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	require.True(t, r.Sync(options(env, types.LinkModeAuto)).OK)

	env.RemovePackage("pkg-a")
	env.AddPackage("pkg-a", "Plugins/Foo/Foo.uplugin")
	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	moved := types.LinkRecord{
		PluginName:  "Foo",
		PackageName: "pkg-a",
		TargetDir:   filepath.Join(env.PackageDir("pkg-a"), "Plugins", "Foo"),
	}
	assert.Equal(t, []types.LinkRecord{moved}, result.Linked)
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), moved.TargetDir)
	assert.Equal(t, moved, env.ReadManifest()["Foo"])
}

func TestSync_RepairsStaleManagedLink(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	elsewhere := filepath.Join(env.ProjectRoot, "elsewhere")
	require.NoError(t, os.MkdirAll(elsewhere, 0755))
	require.NoError(t, os.MkdirAll(env.DestDir, 0755))
	require.NoError(t, os.Symlink(elsewhere, env.DestPath("Foo")))
	env.WriteManifest(env.Record("Foo", "pkg-a"))

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Len(t, result.Linked, 1)
	testutil.AssertLinkTo(t, env.FS, env.DestPath("Foo"), env.PackageDir("pkg-a"))
	assert.DirExists(t, elsewhere)
}

func TestSync_ForceRecreatesUpToDateEntries(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	require.True(t, r.Sync(options(env, types.LinkModeAuto)).OK)

	opts := options(env, types.LinkModeAuto)
	opts.Force = true
	result := r.Sync(opts)

	require.True(t, result.OK)
	assert.Len(t, result.Linked, 1)
	assert.Empty(t, result.Unchanged)
}

func TestSync_DestinationUncreatableIsFatal(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.WriteFile(filepath.Join(env.ProjectRoot, "Plugins"), "not a directory")

	result := r.Sync(options(env, types.LinkModeAuto))

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "DEST_CREATE")
	assert.Empty(t, result.Linked)
}

func TestSync_CorruptManifestIsIgnored(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.WriteFile(env.ManifestPath(), "{{{ not json")

	result := r.Sync(options(env, types.LinkModeAuto))

	require.True(t, result.OK)
	assert.Len(t, result.Linked, 1)
	assert.Equal(t, []string{"Foo"}, keys(env.ReadManifest()))
}

func TestSync_DryRunChangesNothing(t *testing.T) {
	env, r := setup(t)
	env.AddPackage("pkg-a", "Foo.uplugin")

	opts := options(env, types.LinkModeAuto)
	opts.DryRun = true
	result := r.Sync(opts)

	require.True(t, result.OK)
	assert.True(t, result.DryRun)
	assert.Equal(t, []types.LinkRecord{env.Record("Foo", "pkg-a")}, result.Linked)
	assert.NoDirExists(t, env.DestDir)
}

func TestSync_PackageLevelFunction(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.AddPackage("pkg-a", "Foo.uplugin")

	result := reconcile.Sync(env.ProjectRoot, env.DestDir, types.LinkModeAuto)

	require.True(t, result.OK)
	assert.Len(t, result.Linked, 1)
	assert.FileExists(t, filepath.Join(env.DestDir, ".pluglink_links.json"))
}

func keys(m map[string]types.LinkRecord) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
