package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mash-db/internal/config"
)

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"default_config": config.DefaultPath})
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func TestShellIsDefaultCommand(t *testing.T) {
	cli := parse(t, "test.db")
	assert.Equal(t, "test.db", filepath.Base(cli.Shell.Path))
}

func TestInfoCommand(t *testing.T) {
	cli := parse(t, "--log-level", "debug", "info", "users.db")
	assert.Equal(t, "users.db", filepath.Base(cli.Info.Path))
	assert.Equal(t, "debug", cli.LogLevel)
}

func TestSetupWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mashdb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  path: fromconfig.db\nlogger:\n  log_level: error\n"), 0644))

	g := &Globals{Config: cfgPath, LogLevel: "info"}
	require.NoError(t, g.setup())

	assert.Equal(t, "info", g.cfg.Logger.LogLevel)
	assert.Equal(t, "fromconfig.db", g.dbPath(""))
	assert.Equal(t, "explicit.db", g.dbPath("explicit.db"))
	assert.NotNil(t, g.log)
}

func TestSetupMissingExplicitConfig(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "missing.yaml")}
	assert.Error(t, g.setup())
}

func TestSetupInvalidLogLevel(t *testing.T) {
	g := &Globals{Config: "", LogLevel: "shouting"}
	assert.Error(t, g.setup())
}
