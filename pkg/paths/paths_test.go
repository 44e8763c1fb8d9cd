package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestNew_ExplicitRoot(t *testing.T) {
	root := t.TempDir()

	p, err := New(root)
	require.NoError(t, err)

	assert.Equal(t, root, p.ProjectRoot())
	assert.False(t, p.UsedFallback())
}

func TestNew_EnvironmentRoot(t *testing.T) {
	root := t.TempDir()
	t.Setenv(EnvProjectRoot, root)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, root, p.ProjectRoot())
	assert.False(t, p.UsedFallback())
}

func TestNew_FindsPackageJSONAncestor(t *testing.T) {
	t.Setenv(EnvProjectRoot, "")
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectMarker), []byte("{}"), 0644))
	nested := filepath.Join(root, "Source", "Game")
	require.NoError(t, os.MkdirAll(nested, 0755))
	chdir(t, nested)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, root, p.ProjectRoot())
	assert.False(t, p.UsedFallback())
}

func TestNew_FallsBackToWorkingDirectory(t *testing.T) {
	t.Setenv(EnvProjectRoot, "")
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), ProjectMarker)); err == nil {
		t.Skip("temp dir has a package.json ancestor")
	}
	chdir(t, dir)

	p, err := New("")
	require.NoError(t, err)

	assert.Equal(t, dir, p.ProjectRoot())
	assert.True(t, p.UsedFallback())
}

func TestXDGOverrides(t *testing.T) {
	t.Setenv(EnvConfigDir, "/etc/pluglink")
	t.Setenv(EnvStateDir, "/var/pluglink")

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "/etc/pluglink", p.ConfigDir())
	assert.Equal(t, "/var/pluglink", p.StateDir())
	assert.Equal(t, filepath.Join("/var/pluglink", LogFileName), p.LogFilePath())
}

func TestStateDirFromXDG(t *testing.T) {
	t.Setenv(EnvStateDir, "")
	t.Setenv("XDG_STATE_HOME", "/state")

	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/state", AppDirName), p.StateDir())
}

func TestDestDir(t *testing.T) {
	root := t.TempDir()
	p, err := New(root)
	require.NoError(t, err)

	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"default", "", filepath.Join(root, "Plugins", "Packages")},
		{"relative", "Game/Plugins/Deps", filepath.Join(root, "Game", "Plugins", "Deps")},
		{"absolute", filepath.Join(root, "elsewhere"), filepath.Join(root, "elsewhere")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DestDir(tt.configured))
		})
	}
}

func TestManifestPath(t *testing.T) {
	p, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/dest", ".manager_links.json"), p.ManifestPath("/dest", "manager"))
	assert.Equal(t, filepath.Join("/dest", ".pluglink_links.json"), p.ManifestPath("/dest", ""))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "projects"), expandHome("~/projects"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
	assert.Equal(t, "/abs", expandHome("/abs"))
	assert.Equal(t, "", expandHome(""))
}
