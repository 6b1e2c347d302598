package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// RulesetFile is the default ruleset JSON used when --ruleset is not given.
	RulesetFile string `mapstructure:"ruleset_file" yaml:"ruleset_file"`
	// Outdir is the default output directory root.
	Outdir string `mapstructure:"outdir" yaml:"outdir"`
	// LogLevel is one of ERROR, WARN, INFO, DEBUG.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// LogToFile writes the run log into the output directory.
	LogToFile bool `mapstructure:"log_to_file" yaml:"log_to_file"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.phenomatrix/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".phenomatrix")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("PHENOMATRIX")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ruleset_file", "")
	v.SetDefault("outdir", "")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_to_file", true)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".phenomatrix")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
