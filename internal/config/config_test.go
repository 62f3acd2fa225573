package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("source", "", "")
	fs.String("target", "", "")
	fs.String("mapping", "", "")
	fs.String("manifest", "", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
	assert.Equal(t, DefaultTargetDir, cfg.TargetDir)
	assert.Equal(t, filepath.Join(DefaultTargetDir, DefaultMappingFile), cfg.MappingPath())
	assert.Empty(t, cfg.ManifestPath)
}

func TestLoadUnchangedFlagsKeepDefaults(t *testing.T) {
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "assetcopier.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
source_dir: /from/file
target_dir: /file/assets
mapping: custom.yaml
`), 0644))

	t.Setenv("ASSETCOPIER_TARGET_DIR", "/env/assets")

	cfg, err := Load(configPath, newFlags(t, "--source", "/from/flag"))
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.SourceDir)
	assert.Equal(t, "/env/assets", cfg.TargetDir)
	assert.Equal(t, "custom.yaml", cfg.MappingFile)
	assert.Equal(t, "/env/assets/custom.yaml", cfg.MappingPath())
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("ASSETCOPIER_SOURCE_DIR", "/opt/fluentui-emoji/assets")
	t.Setenv("ASSETCOPIER_MANIFEST", "run.parquet")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/opt/fluentui-emoji/assets", cfg.SourceDir)
	assert.Equal(t, "run.parquet", cfg.ManifestPath)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestMappingPathAbsolute(t *testing.T) {
	cfg := Config{TargetDir: "assets", MappingFile: "/etc/mapping.json"}
	assert.Equal(t, "/etc/mapping.json", cfg.MappingPath())
}
