package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultSourceDir is where the FluentUI Emoji repository is expected to be cloned
	DefaultSourceDir = "/tmp/fluentui-emoji/assets"
	// DefaultTargetDir is the project asset directory
	DefaultTargetDir = "assets"
	// DefaultMappingFile lives under the target directory
	DefaultMappingFile = "asset-mapping.json"

	envPrefix = "ASSETCOPIER"
)

// Config holds the paths for a single copy run
type Config struct {
	SourceDir    string `mapstructure:"source_dir"`
	TargetDir    string `mapstructure:"target_dir"`
	MappingFile  string `mapstructure:"mapping"`
	ManifestPath string `mapstructure:"manifest"`
}

// Default returns a Config populated with the built-in defaults
func Default() Config {
	return Config{
		SourceDir:   DefaultSourceDir,
		TargetDir:   DefaultTargetDir,
		MappingFile: DefaultMappingFile,
	}
}

// MappingPath returns the mapping file location. Relative paths are resolved under TargetDir.
func (c Config) MappingPath() string {
	if c.MappingFile == "" || filepath.IsAbs(c.MappingFile) {
		return c.MappingFile
	}
	return filepath.Join(c.TargetDir, c.MappingFile)
}

// flag name -> config key
var flagKeys = map[string]string{
	"source":   "source_dir",
	"target":   "target_dir",
	"mapping":  "mapping",
	"manifest": "manifest",
}

// Load resolves configuration. Precedence, highest first: changed flags,
// ASSETCOPIER_* environment variables, the config file, then defaults.
// An empty configFile searches the working directory for .assetcopier.{yaml,yml,json}.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("source_dir", def.SourceDir)
	v.SetDefault("target_dir", def.TargetDir)
	v.SetDefault("mapping", def.MappingFile)
	v.SetDefault("manifest", def.ManifestPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".assetcopier")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
