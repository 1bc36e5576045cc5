package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFlags binds a fresh flag set, parses args and loads the config files.
func parseFlags(t *testing.T, args ...string) error {
	t.Helper()
	saved, savedLeader := Config, leaderKey
	t.Cleanup(func() { Config, leaderKey = saved, savedLeader })

	fs := pflag.NewFlagSet("hbsq", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return LoadConfig(fs, hclog.NewNullLogger())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, parseFlags(t))
	assert.Equal(t, []string{"."}, Config.TemplateRoots)
	assert.Equal(t, ".hbs", Config.PartialExt)
	assert.True(t, Config.SlashTrigger)
	assert.Equal(t, '\\', Config.LeaderKey)
	assert.Equal(t, 2*time.Second, Config.FileCheckInterval)
}

func TestConfigFileAndFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
tab_width = 2
leader = ","
file_check_interval = "5s"

[templates]
roots = ["views/partials", "shared"]
ext = "handlebars"
slash_trigger = false
`)

	require.NoError(t, parseFlags(t, "--config", path, "--tab-width", "8"))
	assert.Equal(t, 8, Config.DefaultTabWidth, "flags win over files")
	assert.Equal(t, ',', Config.LeaderKey)
	assert.Equal(t, 5*time.Second, Config.FileCheckInterval)
	assert.Equal(t, []string{"views/partials", "shared"}, Config.TemplateRoots)
	assert.Equal(t, ".handlebars", Config.PartialExt)
	assert.False(t, Config.SlashTrigger)
}

func TestConfigProjectFileUnderExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, projectFileName), []byte(`
gutter_width = 5
[templates]
roots = ["project"]
`), 0644))
	path := writeConfig(t, `
[templates]
roots = ["explicit"]
`)

	require.NoError(t, parseFlags(t, "--config", path))
	assert.Equal(t, 5, Config.GutterWidth)
	assert.Equal(t, []string{"explicit"}, Config.TemplateRoots)
}

func TestConfigUnknownKeysAreIgnored(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
colour_scheme = "dark"
num_logs = 3
`)
	require.NoError(t, parseFlags(t, "--config", path))
	assert.Equal(t, 3, Config.NumLogsInDebugWindow)
}

func TestConfigErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	err := parseFlags(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = parseFlags(t, "--config", writeConfig(t, `file_check_interval = "soon"`))
	assert.ErrorContains(t, err, "file_check_interval")

	err = parseFlags(t, "--config", writeConfig(t, `tab_width = `))
	assert.ErrorContains(t, err, "failed to parse config file")
}
