package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the lookup paths at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, "http://localhost:11434/api/generate", d.AI.Endpoint)
	assert.Equal(t, "codellama", d.AI.Model)
	assert.Equal(t, "g++", d.Compiler)
	assert.Equal(t, 4, d.Editor.TabWidth)
	assert.True(t, d.Editor.AutoClose)
	assert.Empty(t, d.Log.Path)
	assert.NoError(t, d.Validate())
}

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ProjectFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(".aiedit", 0o750))
	require.NoError(t, os.WriteFile(DefaultPath, []byte("compiler: clang++\nai:\n  model: deepseek-coder\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "clang++", cfg.Compiler)
	assert.Equal(t, "deepseek-coder", cfg.AI.Model)
	assert.Equal(t, Defaults().AI.Endpoint, cfg.AI.Endpoint)
}

func TestLoad_UserFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "aiedit")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("editor:\n  tab_width: 2\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Editor.TabWidth)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: from-file\n"), 0o600))
	t.Setenv("AIEDIT_AI_MODEL", "from-env")
	t.Setenv("AIEDIT_COMPILER", "cl")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.Model)
	assert.Equal(t, "cl", cfg.Compiler)
}

func TestLoadWith_OverrideWins(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("ai.endpoint", "http://gpu-box:11434/api/generate")

	cfg, err := LoadWith(v, "")
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434/api/generate", cfg.AI.Endpoint)
}

func TestLoad_InvalidTabWidth(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_width: 0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab_width")
}

func TestWriteDefault_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	err = WriteDefault(path)
	assert.ErrorIs(t, err, os.ErrExist)
}
