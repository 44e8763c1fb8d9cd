// pkg/commands/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dir)
// PURPOSE: Test command orchestration from project root to display reports

package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/pluglink/pkg/commands"
	"github.com/arthur-debert/pluglink/pkg/config"
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/testutil"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, env *testutil.TestEnvironment, opts commands.GlobalOptions) *commands.Session {
	t.Helper()
	opts.ProjectRoot = env.ProjectRoot
	opts.SkipUserConfig = true
	s, err := commands.NewSession(opts)
	require.NoError(t, err)
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	s := newSession(t, env, commands.GlobalOptions{})

	assert.Equal(t, env.ProjectRoot, s.Paths.ProjectRoot())
	assert.Equal(t, env.DestDir, s.Dest)
	assert.Equal(t, types.LinkModeAuto, s.Config.Link.Mode)
	assert.Equal(t, filepath.Join(env.DestDir, ".pluglink_links.json"), s.ManifestPath())
}

func TestNewSession_FlagOverrides(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteFile(filepath.Join(env.ProjectRoot, config.ProjectConfigFile), "[link]\nmode = \"auto\"\ndestination = \"Game/Plugins\"\n")

	s := newSession(t, env, commands.GlobalOptions{Dest: "Other", Mode: "copy", Format: "json"})

	assert.Equal(t, filepath.Join(env.ProjectRoot, "Other"), s.Dest)
	assert.Equal(t, types.LinkModeCopy, s.Config.Link.Mode)
	assert.Equal(t, "json", s.Config.Output.Format)
	assert.Equal(t, []string{filepath.Join(env.ProjectRoot, config.ProjectConfigFile)}, s.Config.Files)
}

func TestNewSession_InvalidMode(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)

	_, err := commands.NewSession(commands.GlobalOptions{ProjectRoot: env.ProjectRoot, Mode: "hardlink", SkipUserConfig: true})

	assert.Error(t, err)
}

func TestSyncListStatusClean(t *testing.T) {
	testutil.RequireSymlinks(t)
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.AddPackage("@scope/pkg-b", "Plugins/Bar/Bar.uplugin")
	s := newSession(t, env, commands.GlobalOptions{})

	report, err := commands.Sync(s, commands.SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sync", report.Command)
	assert.Len(t, report.Result.Linked, 2)

	list, err := commands.List(s)
	require.NoError(t, err)
	require.Len(t, list.Links, 2)
	assert.Equal(t, "Bar", list.Links[0].PluginName)
	assert.Equal(t, "@scope/pkg-b", list.Links[0].PackageName)
	assert.Equal(t, "Foo", list.Links[1].PluginName)

	status := commands.Status(s)
	assert.Equal(t, "2 linked", status.Summary())

	cleaned, err := commands.Clean(s, commands.SyncOptions{})
	require.NoError(t, err)
	assert.Len(t, cleaned.Result.Removed, 2)
	assert.NoFileExists(t, s.ManifestPath())
}

func TestSync_DryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.AddPackage("pkg-a", "Foo.uplugin")
	s := newSession(t, env, commands.GlobalOptions{})

	report, err := commands.Sync(s, commands.SyncOptions{DryRun: true})

	require.NoError(t, err)
	assert.True(t, report.Result.DryRun)
	assert.Len(t, report.Result.Linked, 1)
	assert.NoDirExists(t, s.Dest)
}

func TestSync_FatalFailureKeepsReport(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.AddPackage("pkg-a", "Foo.uplugin")
	env.WriteFile(filepath.Join(env.ProjectRoot, "Plugins"), "not a directory")
	s := newSession(t, env, commands.GlobalOptions{})

	report, err := commands.Sync(s, commands.SyncOptions{})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSyncFailed))
	require.NotNil(t, report)
	assert.False(t, report.Result.OK)
}

func TestList_DestinationIsAFile(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.WriteFile(env.DestDir, "oops")
	s := newSession(t, env, commands.GlobalOptions{})

	_, err := commands.List(s)

	assert.True(t, errors.IsErrorCode(err, errors.ErrDestAccess))
}

func TestList_Empty(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	s := newSession(t, env, commands.GlobalOptions{})

	list, err := commands.List(s)

	require.NoError(t, err)
	assert.Empty(t, list.Links)
}

func TestConfigCommands(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	s := newSession(t, env, commands.GlobalOptions{})

	out, err := commands.ShowConfig(s, "yaml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "manager: pluglink")

	path, err := commands.InitConfig(s)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Template(), string(content))

	_, err = commands.InitConfig(s)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathExists))

	// the commented template loads to the defaults
	reloaded := newSession(t, env, commands.GlobalOptions{})
	assert.Equal(t, s.Config.Config, reloaded.Config.Config)
}
