package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"CMT_LIVE_MATCHING", "CMT_SHOW_ONLY_FILENAMES", "CMT_GIT_BINARY", "CMT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Empty(t, cfg.Source)
}

func TestLoadProjectFileFromParent(t *testing.T) {
	isolate(t)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectFileName), []byte(`
live_matching = false
show_only_filenames = true

[colors]
current = "#112233"
`), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	require.False(t, cfg.LiveMatching)
	require.True(t, cfg.ShowOnlyFilenames)
	require.Equal(t, "#112233", cfg.Colors.Current)
	require.Equal(t, Default().Colors.Incoming, cfg.Colors.Incoming)
	require.Equal(t, filepath.Join(root, ProjectFileName), cfg.Source)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CMT_LIVE_MATCHING", "false")
	t.Setenv("CMT_GIT_BINARY", "/opt/git/bin/git")
	t.Setenv("CMT_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.False(t, cfg.LiveMatching)
	require.Equal(t, "/opt/git/bin/git", cfg.GitBinary)

	level, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejectsBadFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("live_matching = \n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.Colors.Both = "grey"
	require.Error(t, bad.Validate())

	bad = cfg
	bad.GitBinary = " "
	require.Error(t, bad.Validate())

	bad = cfg
	bad.LogLevel = "loud"
	require.Error(t, bad.Validate())
}
