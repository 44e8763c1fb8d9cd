// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate isolated project trees for reconciler tests

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/manifest"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/stretchr/testify/require"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no real filesystem
	EnvIsolated                  // Real filesystem in temp directory
)

// TestManager is the manager name tests use for manifest files
const TestManager = "manager"

// TestEnvironment is a project with an installation root and a destination
type TestEnvironment struct {
	// ProjectRoot holds node_modules
	ProjectRoot string
	// DestDir receives the plugin links
	DestDir string

	FS   types.FS
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Type: envType}

	switch envType {
	case EnvMemoryOnly:
		env.FS = filesystem.NewMemory()
		env.ProjectRoot = "/project"
	case EnvIsolated:
		env.FS = filesystem.NewOS()
		env.ProjectRoot = filepath.Join(t.TempDir(), "project")
	}
	env.DestDir = filepath.Join(env.ProjectRoot, "Plugins", "Packages")

	require.NoError(t, env.FS.MkdirAll(env.ProjectRoot, 0755))
	t.Setenv("XDG_STATE_HOME", filepath.Join(os.TempDir(), "pluglink-test-state"))
	return env
}

// PackageDir returns the directory of an installed package
func (e *TestEnvironment) PackageDir(name string) string {
	return filepath.Join(e.ProjectRoot, "node_modules", filepath.FromSlash(name))
}

// DestPath returns the destination entry of a plugin
func (e *TestEnvironment) DestPath(plugin string) string {
	return filepath.Join(e.DestDir, plugin)
}

// ManifestPath returns the manifest location for TestManager
func (e *TestEnvironment) ManifestPath() string {
	return manifest.Path(e.DestDir, TestManager)
}

// AddPackage installs a package containing the given files (slash separated,
// relative to the package directory) and returns its directory.
func (e *TestEnvironment) AddPackage(name string, files ...string) string {
	e.t.Helper()
	dir := e.PackageDir(name)
	require.NoError(e.t, e.FS.MkdirAll(dir, 0755))
	for _, f := range files {
		e.WriteFile(filepath.Join(dir, filepath.FromSlash(f)), "{}")
	}
	return dir
}

// RemovePackage uninstalls a package
func (e *TestEnvironment) RemovePackage(name string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.RemoveAll(e.PackageDir(name)))
}

// WriteFile creates a file and its parents
func (e *TestEnvironment) WriteFile(path, content string) {
	e.t.Helper()
	require.NoError(e.t, e.FS.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, e.FS.WriteFile(path, []byte(content), 0644))
}

// Record builds the LinkRecord a package's root descriptor would produce
func (e *TestEnvironment) Record(plugin, pkg string) types.LinkRecord {
	return types.LinkRecord{PluginName: plugin, PackageName: pkg, TargetDir: e.PackageDir(pkg)}
}

// WriteManifest replaces the manifest with records
func (e *TestEnvironment) WriteManifest(records ...types.LinkRecord) {
	e.t.Helper()
	set := make(map[string]types.LinkRecord, len(records))
	for _, r := range records {
		set[r.PluginName] = r
	}
	require.NoError(e.t, e.FS.MkdirAll(e.DestDir, 0755))
	require.NoError(e.t, manifest.Save(e.FS, e.ManifestPath(), set))
}

// ReadManifest loads the manifest as written on disk
func (e *TestEnvironment) ReadManifest() map[string]types.LinkRecord {
	return manifest.Load(e.FS, e.ManifestPath())
}

// RequireSymlinks skips tests that need unprivileged symlink creation
func RequireSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs elevated privileges on windows")
	}
}
