// Package config provides configuration types, defaults and loading for aiedit.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the project-local config file.
const DefaultPath = ".aiedit/config.yaml"

// EnvPrefix prefixes environment overrides, e.g. AIEDIT_AI_MODEL.
const EnvPrefix = "AIEDIT"

// AIConfig selects the local model server.
type AIConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Model    string `mapstructure:"model" yaml:"model"`
}

// LogConfig controls the zap logger. An empty Path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

type EditorConfig struct {
	TabWidth  int  `mapstructure:"tab_width" yaml:"tab_width"`
	AutoClose bool `mapstructure:"auto_close" yaml:"auto_close"`
}

// Config holds all configuration options for aiedit.
type Config struct {
	AI       AIConfig     `mapstructure:"ai" yaml:"ai"`
	Compiler string       `mapstructure:"compiler" yaml:"compiler"`
	Log      LogConfig    `mapstructure:"log" yaml:"log"`
	Editor   EditorConfig `mapstructure:"editor" yaml:"editor"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		AI: AIConfig{
			Endpoint: "http://localhost:11434/api/generate",
			Model:    "codellama",
		},
		Compiler: "g++",
		Log:      LogConfig{Level: "info"},
		Editor:   EditorConfig{TabWidth: 4, AutoClose: true},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.AI.Endpoint) == "" {
		return errors.New("ai.endpoint must not be empty")
	}
	if strings.TrimSpace(c.AI.Model) == "" {
		return errors.New("ai.model must not be empty")
	}
	if c.Editor.TabWidth < 1 || c.Editor.TabWidth > 16 {
		return fmt.Errorf("editor.tab_width must be between 1 and 16, got %d", c.Editor.TabWidth)
	}
	return nil
}

// Load reads configuration with a fresh viper instance.
func Load(path string) (Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith reads configuration into v and decodes it. Flags bound to v
// before the call take precedence over the file and the environment.
//
// Lookup order when path is empty:
//  1. .aiedit/config.yaml (current directory)
//  2. ~/.config/aiedit/config.yaml (user config)
//
// A missing file is not an error unless path names it explicitly.
func LoadWith(v *viper.Viper, path string) (Config, error) {
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(DefaultPath):
		v.SetConfigFile(DefaultPath)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "aiedit"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("ai.endpoint", d.AI.Endpoint)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("compiler", d.Compiler)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("editor.tab_width", d.Editor.TabWidth)
	v.SetDefault("editor.auto_close", d.Editor.AutoClose)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

const header = "# aiedit configuration\n" +
	"# Every key can be overridden with an AIEDIT_ environment variable,\n" +
	"# e.g. AIEDIT_AI_MODEL=deepseek-coder.\n\n"

// WriteDefault creates a config file at path with default settings,
// creating the parent directory if needed. An existing file is left alone
// and reported with an error wrapping os.ErrExist.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := Marshal(Defaults())
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if _, err := f.Write(append([]byte(header), data...)); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	return f.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
